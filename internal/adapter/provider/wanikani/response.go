package wanikani

import "github.com/goccy/go-json"

// apiCollection is the envelope of every list endpoint.
type apiCollection struct {
	Object string        `json:"object"`
	Pages  apiPages      `json:"pages"`
	Data   []apiResource `json:"data"`
}

type apiPages struct {
	NextURL *string `json:"next_url"`
}

// apiResource is one element of a collection; Data is decoded per kind.
type apiResource struct {
	ID     *int            `json:"id"`
	Object string          `json:"object"`
	Data   json.RawMessage `json:"data"`
}

type apiAssignment struct {
	SubjectID *int `json:"subject_id"`
	SRSStage  *int `json:"srs_stage"`
}

type apiSubject struct {
	Characters          *string              `json:"characters"`
	Slug                string               `json:"slug"`
	Level               int                  `json:"level"`
	Meanings            []apiMeaning         `json:"meanings"`
	Readings            []apiReading         `json:"readings"`
	PronunciationAudios []apiAudio           `json:"pronunciation_audios"`
	ContextSentences    []apiContextSentence `json:"context_sentences"`
}

type apiMeaning struct {
	Meaning        string `json:"meaning"`
	Primary        bool   `json:"primary"`
	AcceptedAnswer *bool  `json:"accepted_answer"`
}

type apiReading struct {
	Reading string `json:"reading"`
	Primary bool   `json:"primary"`
	Type    string `json:"type"`
}

type apiAudio struct {
	URL         string           `json:"url"`
	ContentType string           `json:"content_type"`
	Metadata    apiAudioMetadata `json:"metadata"`
}

type apiAudioMetadata struct {
	Gender string `json:"gender"`
}

type apiContextSentence struct {
	Ja string `json:"ja"`
	En string `json:"en"`
}

type apiStudyMaterial struct {
	SubjectID       *int     `json:"subject_id"`
	MeaningSynonyms []string `json:"meaning_synonyms"`
	MeaningNote     *string  `json:"meaning_note"`
	ReadingNote     *string  `json:"reading_note"`
}

// apiErrorBody is the JSON body WaniKani returns with non-2xx statuses.
type apiErrorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
