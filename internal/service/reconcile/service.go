package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/heartmarshall/burnki/internal/domain"
)

// Collection is the local flashcard store the reconciler writes to.
// Every method called inside RunInTx joins the transaction carried by ctx.
type Collection interface {
	EnsureDeck(ctx context.Context, name string) (domain.Deck, error)
	// NoteTypeByName returns domain.ErrNotFound when no note type has the name.
	NoteTypeByName(ctx context.Context, name string) (domain.NoteType, error)
	CreateNoteType(ctx context.Context, nt domain.NoteType) (domain.NoteType, error)
	UpdateNoteType(ctx context.Context, nt domain.NoteType) error
	// FindNotesByField returns notes of the note type whose field equals
	// value, oldest first.
	FindNotesByField(ctx context.Context, noteTypeID uuid.UUID, field, value string) ([]domain.Note, error)
	AddNote(ctx context.Context, n domain.Note) (domain.Note, error)
	UpdateNote(ctx context.Context, n domain.Note) error
	// WriteMedia stores a named blob, replacing any blob of the same name.
	WriteMedia(ctx context.Context, filename string, data []byte) error
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Reconciler upserts presentation records into the local collection, keyed
// by subject id.
type Reconciler struct {
	log          *slog.Logger
	store        Collection
	deckName     string
	noteTypeName string
}

// NewReconciler creates a Reconciler writing to the named deck and note type.
func NewReconciler(logger *slog.Logger, store Collection, deckName, noteTypeName string) *Reconciler {
	return &Reconciler{
		log:          logger.With("service", "reconcile"),
		store:        store,
		deckName:     deckName,
		noteTypeName: noteTypeName,
	}
}

// ApplyResult writes every note of a successful fetch in one transaction and
// returns how many notes were created and updated. A failed result is refused
// without touching the store; an empty one is a no-op.
func (r *Reconciler) ApplyResult(ctx context.Context, result domain.SyncResult) (created, updated int, err error) {
	if result.Failed() {
		return 0, 0, fmt.Errorf("reconcile: refusing failed sync result: %w",
			domain.NewValidationError("result", result.Error))
	}
	if len(result.Notes) == 0 {
		return 0, 0, nil
	}

	err = r.store.RunInTx(ctx, func(ctx context.Context) error {
		deck, err := r.store.EnsureDeck(ctx, r.deckName)
		if err != nil {
			return fmt.Errorf("ensure deck: %w", err)
		}

		nt, err := r.ensureNoteType(ctx, deck.ID)
		if err != nil {
			return err
		}

		created, updated = 0, 0
		for i := range result.Notes {
			wasCreated, err := r.applyNote(ctx, deck.ID, nt.ID, &result.Notes[i])
			if err != nil {
				return fmt.Errorf("subject %d: %w", result.Notes[i].SubjectID, err)
			}
			if wasCreated {
				created++
			} else {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("reconcile: %w", err)
	}

	r.log.InfoContext(ctx, "sync result applied",
		slog.Int("created", created),
		slog.Int("updated", updated),
	)
	return created, updated, nil
}

// ensureNoteType resolves or creates the note type, upgrades it to the
// current definition and points its default deck at deckID.
func (r *Reconciler) ensureNoteType(ctx context.Context, deckID uuid.UUID) (domain.NoteType, error) {
	nt, err := r.store.NoteTypeByName(ctx, r.noteTypeName)
	if errors.Is(err, domain.ErrNotFound) {
		def := NewNoteType(r.noteTypeName)
		def.DefaultDeckID = &deckID
		nt, err = r.store.CreateNoteType(ctx, def)
		if err != nil {
			return domain.NoteType{}, fmt.Errorf("create note type: %w", err)
		}
		r.log.InfoContext(ctx, "note type created", slog.String("name", nt.Name))
		return nt, nil
	}
	if err != nil {
		return domain.NoteType{}, fmt.Errorf("get note type: %w", err)
	}

	nt, changed := upgradeNoteType(nt)
	if nt.DefaultDeckID == nil || *nt.DefaultDeckID != deckID {
		nt.DefaultDeckID = &deckID
		changed = true
	}
	if changed {
		if err := r.store.UpdateNoteType(ctx, nt); err != nil {
			return domain.NoteType{}, fmt.Errorf("update note type: %w", err)
		}
		r.log.InfoContext(ctx, "note type updated", slog.String("name", nt.Name))
	}
	return nt, nil
}

func (r *Reconciler) applyNote(ctx context.Context, deckID, noteTypeID uuid.UUID, nd *domain.NoteData) (bool, error) {
	if nd.HasAudio() {
		if err := r.store.WriteMedia(ctx, nd.AudioFilename, nd.AudioBytes); err != nil {
			return false, fmt.Errorf("write media %s: %w", nd.AudioFilename, err)
		}
	}

	existing, err := r.store.FindNotesByField(ctx, noteTypeID, domain.FieldSubjectID, strconv.Itoa(nd.SubjectID))
	if err != nil {
		return false, fmt.Errorf("find notes: %w", err)
	}

	if len(existing) > 0 {
		if len(existing) > 1 {
			r.log.WarnContext(ctx, "duplicate notes for subject, updating the oldest",
				slog.Int("subject_id", nd.SubjectID),
				slog.Int("count", len(existing)),
			)
		}
		note := existing[0]
		note.Fields = mergeFields(note.Fields, NoteFields(nd))
		if err := r.store.UpdateNote(ctx, note); err != nil {
			return false, fmt.Errorf("update note: %w", err)
		}
		return false, nil
	}

	_, err = r.store.AddNote(ctx, domain.Note{
		NoteTypeID: noteTypeID,
		DeckID:     deckID,
		Fields:     NoteFields(nd),
	})
	if err != nil {
		return false, fmt.Errorf("add note: %w", err)
	}
	return true, nil
}

// NoteFields maps a presentation record onto the note type fields.
func NoteFields(nd *domain.NoteData) map[string]string {
	audio := ""
	if nd.AudioFilename != "" {
		audio = "[sound:" + nd.AudioFilename + "]"
	}
	return map[string]string{
		domain.FieldSubjectID:        strconv.Itoa(nd.SubjectID),
		domain.FieldCharacters:       nd.Characters,
		domain.FieldSubjectType:      nd.SubjectType,
		domain.FieldMeanings:         nd.Meanings,
		domain.FieldReadings:         nd.Readings,
		domain.FieldUserMeanings:     nd.UserMeanings,
		domain.FieldMeaningNote:      nd.MeaningNote,
		domain.FieldReadingNote:      nd.ReadingNote,
		domain.FieldAudio:            audio,
		domain.FieldContextSentences: nd.ContextSentences,
		domain.FieldLevel:            nd.Level,
		domain.FieldSRSStage:         nd.SRSStage,
	}
}

// mergeFields overwrites every synced field and keeps fields the user added.
func mergeFields(existing, synced map[string]string) map[string]string {
	out := make(map[string]string, len(existing)+len(synced))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range synced {
		out[k] = v
	}
	return out
}
