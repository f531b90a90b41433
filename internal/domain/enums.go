package domain

// SubjectKind is the WaniKani object kind of a subject.
type SubjectKind string

const (
	SubjectKindRadical        SubjectKind = "radical"
	SubjectKindKanji          SubjectKind = "kanji"
	SubjectKindVocabulary     SubjectKind = "vocabulary"
	SubjectKindKanaVocabulary SubjectKind = "kana_vocabulary"
)

func (k SubjectKind) String() string { return string(k) }

func (k SubjectKind) IsValid() bool {
	switch k {
	case SubjectKindRadical, SubjectKindKanji, SubjectKindVocabulary, SubjectKindKanaVocabulary:
		return true
	}
	return false
}

// IsVocabulary reports whether the kind carries pronunciation audio.
func (k SubjectKind) IsVocabulary() bool {
	return k == SubjectKindVocabulary || k == SubjectKindKanaVocabulary
}

// ReadingType tags a kanji reading. Vocabulary readings have no type.
type ReadingType string

const (
	ReadingTypeOnyomi  ReadingType = "onyomi"
	ReadingTypeKunyomi ReadingType = "kunyomi"
	ReadingTypeNanori  ReadingType = "nanori"
)

func (t ReadingType) String() string { return string(t) }
