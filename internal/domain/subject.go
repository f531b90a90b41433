package domain

// BurnedSRSStage is the SRS stage of a fully learned ("burned") assignment.
const BurnedSRSStage = 9

// Assignment is one learning-progress record for a subject.
type Assignment struct {
	SubjectID int
	SRSStage  int
}

// Subject is the canonical definition of a learnable item.
type Subject struct {
	ID               int
	Kind             SubjectKind
	Characters       string // empty for image-only radicals
	Slug             string
	Meanings         []string // accepted meanings, API order
	Readings         []Reading
	Level            int
	Audios           []AudioEntry
	ContextSentences []ContextSentence
}

// PrimaryReading returns the reading flagged primary, falling back to the
// first reading. Returns "" when the subject has no readings.
func (s *Subject) PrimaryReading() string {
	for _, r := range s.Readings {
		if r.Primary && r.Reading != "" {
			return r.Reading
		}
	}
	if len(s.Readings) > 0 {
		return s.Readings[0].Reading
	}
	return ""
}

// Reading is a single reading entry of a kanji or vocabulary subject.
type Reading struct {
	Reading string
	Type    ReadingType
	Primary bool
}

// AudioEntry is one candidate pronunciation asset.
type AudioEntry struct {
	URL              string
	ContentType      string
	VoiceActorGender string
}

// ContextSentence is a Japanese sentence with its English translation.
type ContextSentence struct {
	Japanese string
	English  string
}

// StudyMaterial holds user-authored annotations on a subject.
type StudyMaterial struct {
	SubjectID       int
	MeaningSynonyms []string
	MeaningNote     string
	ReadingNote     string
}
