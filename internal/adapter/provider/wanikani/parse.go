package wanikani

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/heartmarshall/burnki/internal/domain"
)

const (
	objectCollection    = "collection"
	objectAssignment    = "assignment"
	objectStudyMaterial = "study_material"

	defaultAudioContentType = "audio/mpeg"
)

// decodeCollection decodes a list endpoint body. Anything that is not a
// collection envelope is a malformed payload.
func decodeCollection(body []byte) (*apiCollection, error) {
	var c apiCollection
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, fmt.Errorf("%w: decode collection: %v", domain.ErrMalformedPayload, err)
	}
	if c.Object != objectCollection {
		return nil, fmt.Errorf("%w: expected %q object, got %q", domain.ErrMalformedPayload, objectCollection, c.Object)
	}
	return &c, nil
}

func parseAssignment(r apiResource) (domain.Assignment, error) {
	if r.Object != objectAssignment {
		return domain.Assignment{}, malformed(r, "unexpected object %q", r.Object)
	}
	var d apiAssignment
	if err := decodeData(r, &d); err != nil {
		return domain.Assignment{}, err
	}
	if d.SubjectID == nil {
		return domain.Assignment{}, malformed(r, "missing subject_id")
	}
	if d.SRSStage == nil {
		return domain.Assignment{}, malformed(r, "missing srs_stage")
	}
	return domain.Assignment{SubjectID: *d.SubjectID, SRSStage: *d.SRSStage}, nil
}

func parseSubject(r apiResource) (domain.Subject, error) {
	if r.ID == nil {
		return domain.Subject{}, malformed(r, "missing id")
	}
	kind := domain.SubjectKind(r.Object)
	if !kind.IsValid() {
		return domain.Subject{}, malformed(r, "unknown subject kind %q", r.Object)
	}
	var d apiSubject
	if err := decodeData(r, &d); err != nil {
		return domain.Subject{}, err
	}

	s := domain.Subject{
		ID:    *r.ID,
		Kind:  kind,
		Slug:  d.Slug,
		Level: d.Level,
	}
	if d.Characters != nil {
		s.Characters = *d.Characters
	}

	for _, m := range d.Meanings {
		// accepted_answer defaults to true when the field is absent.
		if m.AcceptedAnswer != nil && !*m.AcceptedAnswer {
			continue
		}
		s.Meanings = append(s.Meanings, m.Meaning)
	}

	for _, rd := range d.Readings {
		s.Readings = append(s.Readings, domain.Reading{
			Reading: rd.Reading,
			Type:    domain.ReadingType(rd.Type),
			Primary: rd.Primary,
		})
	}

	for _, a := range d.PronunciationAudios {
		if a.URL == "" {
			continue
		}
		contentType := a.ContentType
		if contentType == "" {
			contentType = defaultAudioContentType
		}
		s.Audios = append(s.Audios, domain.AudioEntry{
			URL:              a.URL,
			ContentType:      contentType,
			VoiceActorGender: a.Metadata.Gender,
		})
	}

	for _, cs := range d.ContextSentences {
		s.ContextSentences = append(s.ContextSentences, domain.ContextSentence{
			Japanese: cs.Ja,
			English:  cs.En,
		})
	}

	return s, nil
}

func parseStudyMaterial(r apiResource) (domain.StudyMaterial, error) {
	if r.Object != objectStudyMaterial {
		return domain.StudyMaterial{}, malformed(r, "unexpected object %q", r.Object)
	}
	var d apiStudyMaterial
	if err := decodeData(r, &d); err != nil {
		return domain.StudyMaterial{}, err
	}
	if d.SubjectID == nil {
		return domain.StudyMaterial{}, malformed(r, "missing subject_id")
	}

	sm := domain.StudyMaterial{
		SubjectID:       *d.SubjectID,
		MeaningSynonyms: d.MeaningSynonyms,
	}
	if d.MeaningNote != nil {
		sm.MeaningNote = *d.MeaningNote
	}
	if d.ReadingNote != nil {
		sm.ReadingNote = *d.ReadingNote
	}
	return sm, nil
}

func decodeData(r apiResource, dst any) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return malformed(r, "missing data")
	}
	if err := json.Unmarshal(r.Data, dst); err != nil {
		return malformed(r, "decode data: %v", err)
	}
	return nil
}

func malformed(r apiResource, format string, args ...any) error {
	id := "?"
	if r.ID != nil {
		id = fmt.Sprint(*r.ID)
	}
	return fmt.Errorf("%w: %s %s: %s", domain.ErrMalformedPayload, r.Object, id, fmt.Sprintf(format, args...))
}
