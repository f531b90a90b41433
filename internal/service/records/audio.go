package records

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/heartmarshall/burnki/internal/domain"
)

const preferredVoiceGender = "male"

// nonWordChars matches anything outside letters, digits, marks and underscore.
var nonWordChars = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_]`)

// SelectAudio picks the audio asset to download: an mp3 voiced by the
// preferred gender, else the first mp3, else nothing.
func SelectAudio(entries []domain.AudioEntry) (domain.AudioEntry, bool) {
	var fallback *domain.AudioEntry
	for i := range entries {
		e := &entries[i]
		if !isMP3(e.ContentType) {
			continue
		}
		if e.VoiceActorGender == preferredVoiceGender {
			return *e, true
		}
		if fallback == nil {
			fallback = e
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return domain.AudioEntry{}, false
}

func isMP3(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "mpeg")
}

// AudioFilename derives the media filename for a subject's audio from its
// primary reading. Every non-word character becomes an underscore.
func AudioFilename(subjectID int, reading string) string {
	safe := "audio"
	if reading != "" {
		safe = nonWordChars.ReplaceAllString(reading, "_")
	}
	return fmt.Sprintf("burnki_%d_%s.mp3", subjectID, safe)
}
