package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note field names of the Burnki note type, in display order.
const (
	FieldSubjectID        = "SubjectId"
	FieldCharacters       = "Characters"
	FieldSubjectType      = "SubjectType"
	FieldMeanings         = "Meanings"
	FieldReadings         = "Readings"
	FieldUserMeanings     = "UserMeanings"
	FieldMeaningNote      = "MeaningNote"
	FieldReadingNote      = "ReadingNote"
	FieldAudio            = "Audio"
	FieldContextSentences = "ContextSentences"
	FieldLevel            = "Level"
	FieldSRSStage         = "SrsStage"
)

// NoteFieldNames returns the note type fields in display order.
func NoteFieldNames() []string {
	return []string{
		FieldSubjectID,
		FieldCharacters,
		FieldSubjectType,
		FieldMeanings,
		FieldReadings,
		FieldUserMeanings,
		FieldMeaningNote,
		FieldReadingNote,
		FieldAudio,
		FieldContextSentences,
		FieldLevel,
		FieldSRSStage,
	}
}

// Deck is a named container of notes in the local collection.
type Deck struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// NoteTemplate is a card template rendered from note fields.
type NoteTemplate struct {
	Name  string
	Front string
	Back  string
}

// NoteType is the schema of a note: named fields, one template and a stylesheet.
type NoteType struct {
	ID            uuid.UUID
	Name          string
	Fields        []string
	Template      NoteTemplate
	CSS           string
	DefaultDeckID *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasField reports whether the note type declares the named field.
func (nt *NoteType) HasField(name string) bool {
	for _, f := range nt.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Note is a locally persisted record. Field values are strings keyed by field name.
type Note struct {
	ID         uuid.UUID
	NoteTypeID uuid.UUID
	DeckID     uuid.UUID
	Fields     map[string]string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
