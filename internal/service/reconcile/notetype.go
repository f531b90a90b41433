package reconcile

import (
	"slices"

	"github.com/heartmarshall/burnki/internal/domain"
)

// TemplateName is the name of the single card template of the note type.
const TemplateName = "Recognition"

// FrontTemplate renders the question side.
const FrontTemplate = `<div class="card-front">
  <div class="characters">{{Characters}}</div>
  <div class="type-badge {{SubjectType}}">{{SubjectType}}</div>
</div>
`

// BackTemplate renders the answer side.
const BackTemplate = `<div class="card-back">
  {{FrontSide}}
  <hr id="answer">
  <div class="meanings">{{Meanings}}</div>
  {{#UserMeanings}}<div class="user-meanings">User: {{UserMeanings}}</div>{{/UserMeanings}}
  {{#Readings}}<div class="readings">{{Readings}}</div>{{/Readings}}
  {{#Audio}}<div class="audio">{{Audio}}</div>{{/Audio}}
  {{#ContextSentences}}<div class="sentences">{{ContextSentences}}</div>{{/ContextSentences}}
  {{#MeaningNote}}<div class="note"><span class="note-label">Meaning note:</span> {{MeaningNote}}</div>{{/MeaningNote}}
  {{#ReadingNote}}<div class="note"><span class="note-label">Reading note:</span> {{ReadingNote}}</div>{{/ReadingNote}}
  <div class="meta">Level {{Level}} · {{SrsStage}}</div>
</div>
`

// Stylesheet is shared by both sides of the card.
const Stylesheet = `.card {
  font-family: "Hiragino Kaku Gothic Pro", "Noto Sans JP", "Meiryo", sans-serif;
  text-align: center;
  background: #303030;
  color: #fff;
  padding: 20px;
}

.characters {
  font-size: 4em;
  font-weight: bold;
  margin: 0.3em 0;
  line-height: 1.2;
}

.type-badge {
  display: inline-block;
  padding: 4px 16px;
  border-radius: 4px;
  font-size: 0.8em;
  text-transform: capitalize;
  color: #fff;
  background: #888;
}

.type-badge.Radical { background: #00aaff; }
.type-badge.Kanji { background: #ff00aa; }
.type-badge.Vocabulary,
.type-badge.Kana { background: #aa00ff; }

hr#answer {
  border: none;
  border-top: 1px solid #555;
  margin: 16px 0;
}

.meanings {
  font-size: 1.6em;
  font-weight: bold;
  margin-bottom: 8px;
}

.user-meanings {
  font-size: 1.1em;
  color: #aaa;
  margin-bottom: 8px;
}

.readings {
  font-size: 1.4em;
  margin-bottom: 12px;
}

.audio {
  margin: 12px 0;
}

.sentences {
  text-align: left;
  font-size: 0.95em;
  line-height: 1.6;
  margin: 12px auto;
  max-width: 500px;
  color: #ccc;
}

.note {
  text-align: left;
  font-size: 0.9em;
  line-height: 1.5;
  margin: 8px auto;
  max-width: 500px;
  color: #bbb;
  background: #3a3a3a;
  padding: 8px 12px;
  border-radius: 4px;
}

.note-label {
  font-weight: bold;
  color: #ddd;
}

.meta {
  font-size: 0.75em;
  color: #777;
  margin-top: 16px;
}
`

// NewNoteType returns a fresh definition of the note type with the given name.
func NewNoteType(name string) domain.NoteType {
	return domain.NoteType{
		Name:   name,
		Fields: domain.NoteFieldNames(),
		Template: domain.NoteTemplate{
			Name:  TemplateName,
			Front: FrontTemplate,
			Back:  BackTemplate,
		},
		CSS: Stylesheet,
	}
}

// upgradeNoteType brings an existing note type up to the current definition
// without touching notes: missing fields are appended after the existing ones,
// template and stylesheet are replaced when they differ. Reports whether
// anything changed.
func upgradeNoteType(nt domain.NoteType) (domain.NoteType, bool) {
	changed := false

	fields := slices.Clone(nt.Fields)
	for _, name := range domain.NoteFieldNames() {
		if !nt.HasField(name) {
			fields = append(fields, name)
			changed = true
		}
	}
	nt.Fields = fields

	want := domain.NoteTemplate{Name: TemplateName, Front: FrontTemplate, Back: BackTemplate}
	if nt.Template.Front != want.Front || nt.Template.Back != want.Back {
		// Keep a user-renamed template name; only the markup is ours.
		if nt.Template.Name != "" {
			want.Name = nt.Template.Name
		}
		nt.Template = want
		changed = true
	}

	if nt.CSS != Stylesheet {
		nt.CSS = Stylesheet
		changed = true
	}

	return nt, changed
}
