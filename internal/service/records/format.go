package records

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/heartmarshall/burnki/internal/domain"
)

const (
	readingGroupSeparator = " · "
	sentenceLineBreak     = "<br>"
	sentenceSeparator     = "<br><br>"
)

// FormatCharacters returns the subject glyph, or for image-only radicals the
// slug with hyphens as spaces in title case.
func FormatCharacters(s domain.Subject) string {
	if s.Characters != "" {
		return s.Characters
	}
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.Und).String(strings.ReplaceAll(s.Slug, "-", " "))
}

// FormatSubjectType humanizes an object kind: "kana_vocabulary" becomes "Kana vocabulary".
func FormatSubjectType(k domain.SubjectKind) string {
	label := strings.ReplaceAll(string(k), "_", " ")
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + strings.ToLower(label[1:])
}

// FormatReadings renders readings by subject kind. Radicals have none. Kanji
// readings are grouped as "On: …" and "Kun: …", skipping empty groups.
// Vocabulary readings are listed in order.
func FormatReadings(s domain.Subject) string {
	switch s.Kind {
	case domain.SubjectKindRadical:
		return ""
	case domain.SubjectKindKanji:
		on := readingsOfType(s.Readings, domain.ReadingTypeOnyomi)
		kun := readingsOfType(s.Readings, domain.ReadingTypeKunyomi)
		var groups []string
		if len(on) > 0 {
			groups = append(groups, "On: "+strings.Join(on, ", "))
		}
		if len(kun) > 0 {
			groups = append(groups, "Kun: "+strings.Join(kun, ", "))
		}
		return strings.Join(groups, readingGroupSeparator)
	default:
		var all []string
		for _, r := range s.Readings {
			if r.Reading != "" {
				all = append(all, r.Reading)
			}
		}
		return strings.Join(all, ", ")
	}
}

func readingsOfType(readings []domain.Reading, t domain.ReadingType) []string {
	var out []string
	for _, r := range readings {
		if r.Type == t && r.Reading != "" {
			out = append(out, r.Reading)
		}
	}
	return out
}

// FormatContextSentences renders each pair as "ja<br>en", pairs separated by a blank line.
func FormatContextSentences(sentences []domain.ContextSentence) string {
	parts := make([]string, len(sentences))
	for i, cs := range sentences {
		parts[i] = cs.Japanese + sentenceLineBreak + cs.English
	}
	return strings.Join(parts, sentenceSeparator)
}
