package domain

// SRSStageLabelBurned is the stage label written on every synced note.
const SRSStageLabelBurned = "Burned"

// NoteData is the fully joined, display-ready record for one subject.
// AudioFilename is set if and only if AudioBytes holds a downloaded asset.
type NoteData struct {
	SubjectID        int
	Characters       string
	SubjectType      string
	Meanings         string
	Readings         string
	UserMeanings     string
	MeaningNote      string
	ReadingNote      string
	AudioFilename    string
	AudioBytes       []byte
	ContextSentences string
	Level            string
	SRSStage         string
}

// HasAudio reports whether the record carries a downloaded audio asset.
func (n *NoteData) HasAudio() bool {
	return n.AudioFilename != "" && len(n.AudioBytes) > 0
}

// SyncResult is the outcome of the fetch-and-build phase.
// A non-empty Error means the whole sync failed and Notes must not be applied.
// Cause keeps the underlying error for errors.Is checks by the host.
type SyncResult struct {
	Notes        []NoteData
	Error        string
	Cause        error
	TotalFetched int
}

// Failed reports whether the fetch phase captured an error.
func (r *SyncResult) Failed() bool {
	return r.Error != ""
}
