package records

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/heartmarshall/burnki/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type remoteClient interface {
	FetchBurnedAssignments(ctx context.Context, token, updatedAfter string) ([]domain.Assignment, error)
	FetchSubjects(ctx context.Context, token string, ids []int) (map[int]domain.Subject, error)
	FetchStudyMaterials(ctx context.Context, token string, ids []int) (map[int]domain.StudyMaterial, error)
	DownloadAudio(ctx context.Context, url string) ([]byte, error)
}

// ---------------------------------------------------------------------------
// Builder
// ---------------------------------------------------------------------------

// Builder joins burned assignments, subjects and study materials into one
// display-ready NoteData per item.
type Builder struct {
	log    *slog.Logger
	remote remoteClient
}

// NewBuilder creates a new record Builder.
func NewBuilder(logger *slog.Logger, remote remoteClient) *Builder {
	return &Builder{
		log:    logger.With("service", "records"),
		remote: remote,
	}
}

// BuildRecords runs the whole fetch phase of a sync. It never returns an
// error: any failure is captured in SyncResult.Error with no notes, and the
// caller must not apply such a result. progress may be nil.
func (b *Builder) BuildRecords(
	ctx context.Context,
	token, updatedAfter string,
	progress func(string),
	downloadAudio bool,
) domain.SyncResult {
	report := func(msg string) {
		if progress != nil {
			progress(msg)
		}
	}

	result, err := b.build(ctx, token, updatedAfter, report, downloadAudio)
	if err != nil {
		b.log.ErrorContext(ctx, "fetch phase failed", slog.String("error", err.Error()))
		return domain.SyncResult{Error: err.Error(), Cause: err}
	}

	b.log.InfoContext(ctx, "fetch phase complete",
		slog.Int("fetched", result.TotalFetched),
		slog.Int("notes", len(result.Notes)),
	)
	return result
}

func (b *Builder) build(
	ctx context.Context,
	token, updatedAfter string,
	report func(string),
	downloadAudio bool,
) (domain.SyncResult, error) {
	var result domain.SyncResult

	report("Fetching burned assignments…")
	assignments, err := b.remote.FetchBurnedAssignments(ctx, token, updatedAfter)
	if err != nil {
		return result, err
	}
	if len(assignments) == 0 {
		return result, nil
	}

	ids := subjectIDs(assignments)
	result.TotalFetched = len(ids)

	report(fmt.Sprintf("Fetching %d subjects…", len(ids)))
	subjects, err := b.remote.FetchSubjects(ctx, token, ids)
	if err != nil {
		return result, err
	}

	report("Fetching study materials…")
	materials, err := b.remote.FetchStudyMaterials(ctx, token, ids)
	if err != nil {
		return result, err
	}

	total := len(ids)
	result.Notes = make([]domain.NoteData, 0, total)
	for i, id := range ids {
		subject, ok := subjects[id]
		if !ok {
			b.log.WarnContext(ctx, "subject not returned, skipping", slog.Int("subject_id", id))
			continue
		}

		display := displayName(subject)
		report(fmt.Sprintf("Processing %d/%d: %s", i+1, total, display))

		note := buildNote(subject, materials[id])

		if downloadAudio && subject.Kind.IsVocabulary() {
			if entry, ok := SelectAudio(subject.Audios); ok {
				report(fmt.Sprintf("Downloading audio %d/%d: %s", i+1, total, display))
				data, err := b.remote.DownloadAudio(ctx, entry.URL)
				if err != nil {
					// A failed download leaves the note without audio; the item is still synced.
					b.log.WarnContext(ctx, "audio download failed",
						slog.Int("subject_id", id),
						slog.String("error", err.Error()),
					)
				} else if len(data) > 0 {
					note.AudioFilename = AudioFilename(subject.ID, subject.PrimaryReading())
					note.AudioBytes = data
				}
			}
		}

		result.Notes = append(result.Notes, note)
	}

	return result, nil
}

// buildNote fills every text field of a NoteData. Audio is left to the caller.
func buildNote(s domain.Subject, sm domain.StudyMaterial) domain.NoteData {
	return domain.NoteData{
		SubjectID:        s.ID,
		Characters:       FormatCharacters(s),
		SubjectType:      FormatSubjectType(s.Kind),
		Meanings:         strings.Join(s.Meanings, ", "),
		Readings:         FormatReadings(s),
		UserMeanings:     strings.Join(sm.MeaningSynonyms, ", "),
		MeaningNote:      sm.MeaningNote,
		ReadingNote:      sm.ReadingNote,
		ContextSentences: FormatContextSentences(s.ContextSentences),
		Level:            strconv.Itoa(s.Level),
		SRSStage:         domain.SRSStageLabelBurned,
	}
}

// subjectIDs collects subject ids in assignment order, dropping repeats.
func subjectIDs(assignments []domain.Assignment) []int {
	seen := make(map[int]struct{}, len(assignments))
	ids := make([]int, 0, len(assignments))
	for _, a := range assignments {
		if _, dup := seen[a.SubjectID]; dup {
			continue
		}
		seen[a.SubjectID] = struct{}{}
		ids = append(ids, a.SubjectID)
	}
	return ids
}

func displayName(s domain.Subject) string {
	if s.Characters != "" {
		return s.Characters
	}
	return s.Slug
}
