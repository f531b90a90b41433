package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/burnki/internal/domain"
)

// ===========================================================================
// In-memory collection
// ===========================================================================

type memCollection struct {
	decks     map[string]domain.Deck
	noteTypes map[string]domain.NoteType
	notes     []domain.Note
	media     map[string][]byte

	createNoteTypeCalls int
	updateNoteTypeCalls int
	txCalls             int

	AddNoteErr error
}

func newMemCollection() *memCollection {
	return &memCollection{
		decks:     map[string]domain.Deck{},
		noteTypes: map[string]domain.NoteType{},
		media:     map[string][]byte{},
	}
}

func (m *memCollection) EnsureDeck(_ context.Context, name string) (domain.Deck, error) {
	if d, ok := m.decks[name]; ok {
		return d, nil
	}
	d := domain.Deck{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	m.decks[name] = d
	return d, nil
}

func (m *memCollection) NoteTypeByName(_ context.Context, name string) (domain.NoteType, error) {
	nt, ok := m.noteTypes[name]
	if !ok {
		return domain.NoteType{}, domain.ErrNotFound
	}
	return nt, nil
}

func (m *memCollection) CreateNoteType(_ context.Context, nt domain.NoteType) (domain.NoteType, error) {
	m.createNoteTypeCalls++
	nt.ID = uuid.New()
	m.noteTypes[nt.Name] = nt
	return nt, nil
}

func (m *memCollection) UpdateNoteType(_ context.Context, nt domain.NoteType) error {
	m.updateNoteTypeCalls++
	m.noteTypes[nt.Name] = nt
	return nil
}

func (m *memCollection) FindNotesByField(_ context.Context, noteTypeID uuid.UUID, field, value string) ([]domain.Note, error) {
	var out []domain.Note
	for _, n := range m.notes {
		if n.NoteTypeID == noteTypeID && n.Fields[field] == value {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memCollection) AddNote(_ context.Context, n domain.Note) (domain.Note, error) {
	if m.AddNoteErr != nil {
		return domain.Note{}, m.AddNoteErr
	}
	n.ID = uuid.New()
	m.notes = append(m.notes, n)
	return n, nil
}

func (m *memCollection) UpdateNote(_ context.Context, n domain.Note) error {
	for i := range m.notes {
		if m.notes[i].ID == n.ID {
			m.notes[i] = n
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memCollection) WriteMedia(_ context.Context, filename string, data []byte) error {
	m.media[filename] = data
	return nil
}

func (m *memCollection) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txCalls++
	return fn(ctx)
}

func (m *memCollection) notesForSubject(id string) int {
	count := 0
	for _, n := range m.notes {
		if n.Fields[domain.FieldSubjectID] == id {
			count++
		}
	}
	return count
}

// ===========================================================================
// Helpers
// ===========================================================================

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestReconciler(store Collection) *Reconciler {
	return NewReconciler(newTestLogger(), store, "Burnki", "Burnki")
}

func sampleResult() domain.SyncResult {
	return domain.SyncResult{
		TotalFetched: 2,
		Notes: []domain.NoteData{
			{SubjectID: 1, Characters: "火", SubjectType: "Radical", Meanings: "fire", Level: "1", SRSStage: "Burned"},
			{
				SubjectID:     2467,
				Characters:    "一つ",
				SubjectType:   "Vocabulary",
				Meanings:      "One Thing",
				Readings:      "ひとつ",
				AudioFilename: "burnki_2467_ひとつ.mp3",
				AudioBytes:    []byte("mp3"),
				Level:         "1",
				SRSStage:      "Burned",
			},
		},
	}
}

// ===========================================================================
// ApplyResult
// ===========================================================================

func TestApplyResult_CreatesOnEmptyStore(t *testing.T) {
	t.Parallel()

	store := newMemCollection()
	created, updated, err := newTestReconciler(store).ApplyResult(context.Background(), sampleResult())

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 0, updated)
	require.Len(t, store.notes, 2)

	deck := store.decks["Burnki"]
	nt := store.noteTypes["Burnki"]
	for _, n := range store.notes {
		assert.Equal(t, deck.ID, n.DeckID)
		assert.Equal(t, nt.ID, n.NoteTypeID)
	}

	radical := store.notes[0].Fields
	assert.Equal(t, "1", radical[domain.FieldSubjectID])
	assert.Equal(t, "火", radical[domain.FieldCharacters])
	assert.Equal(t, "", radical[domain.FieldAudio])

	vocab := store.notes[1].Fields
	assert.Equal(t, "[sound:burnki_2467_ひとつ.mp3]", vocab[domain.FieldAudio])
	assert.Equal(t, []byte("mp3"), store.media["burnki_2467_ひとつ.mp3"])
	assert.Len(t, store.media, 1)
	assert.Equal(t, 1, store.txCalls)
}

func TestApplyResult_Idempotent(t *testing.T) {
	t.Parallel()

	store := newMemCollection()
	r := newTestReconciler(store)
	result := sampleResult()

	_, _, err := r.ApplyResult(context.Background(), result)
	require.NoError(t, err)

	created, updated, err := r.ApplyResult(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, len(result.Notes), updated)
	assert.Equal(t, 1, store.notesForSubject("1"))
	assert.Equal(t, 1, store.notesForSubject("2467"))
	assert.Equal(t, 1, store.createNoteTypeCalls)
	assert.Zero(t, store.updateNoteTypeCalls, "unchanged note type is not rewritten")
}

func TestApplyResult_OverwritesFields(t *testing.T) {
	t.Parallel()

	store := newMemCollection()
	r := newTestReconciler(store)

	_, _, err := r.ApplyResult(context.Background(), sampleResult())
	require.NoError(t, err)

	// The user added a private field; it survives the overwrite.
	store.notes[0].Fields["Mnemonic"] = "mine"

	changed := domain.SyncResult{Notes: []domain.NoteData{
		{SubjectID: 1, Characters: "火", SubjectType: "Radical", Meanings: "fire, flame", Level: "2", SRSStage: "Burned"},
	}}
	created, updated, err := r.ApplyResult(context.Background(), changed)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, updated)

	fields := store.notes[0].Fields
	assert.Equal(t, "fire, flame", fields[domain.FieldMeanings])
	assert.Equal(t, "2", fields[domain.FieldLevel])
	assert.Equal(t, "mine", fields["Mnemonic"])
}

func TestApplyResult_DuplicateNotesUpdatesFirst(t *testing.T) {
	t.Parallel()

	store := newMemCollection()
	r := newTestReconciler(store)
	_, _, err := r.ApplyResult(context.Background(), sampleResult())
	require.NoError(t, err)

	// Pre-existing duplicate for subject 1.
	dup := store.notes[0]
	dup.ID = uuid.New()
	dup.Fields = map[string]string{domain.FieldSubjectID: "1", domain.FieldMeanings: "stale"}
	store.notes = append(store.notes, dup)

	result := domain.SyncResult{Notes: []domain.NoteData{{SubjectID: 1, Meanings: "fresh", SRSStage: "Burned"}}}
	created, updated, err := r.ApplyResult(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, updated)

	assert.Equal(t, "fresh", store.notes[0].Fields[domain.FieldMeanings])
	assert.Equal(t, "stale", store.notes[2].Fields[domain.FieldMeanings], "duplicates are left alone")
	assert.Equal(t, 2, store.notesForSubject("1"), "duplicates are never deleted")
}

func TestApplyResult_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	store := newMemCollection()
	created, updated, err := newTestReconciler(store).ApplyResult(context.Background(), domain.SyncResult{})

	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Zero(t, updated)
	assert.Zero(t, store.txCalls)
	assert.Empty(t, store.decks)
}

func TestApplyResult_RefusesFailedResult(t *testing.T) {
	t.Parallel()

	store := newMemCollection()
	result := sampleResult()
	result.Error = "network error"

	_, _, err := newTestReconciler(store).ApplyResult(context.Background(), result)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, store.txCalls)
	assert.Empty(t, store.notes)
}

func TestApplyResult_StorageErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	store := newMemCollection()
	store.AddNoteErr = boom

	created, updated, err := newTestReconciler(store).ApplyResult(context.Background(), sampleResult())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, created)
	assert.Zero(t, updated)
}

func TestApplyResult_UpgradesExistingNoteType(t *testing.T) {
	t.Parallel()

	store := newMemCollection()
	otherDeck := uuid.New()
	store.noteTypes["Burnki"] = domain.NoteType{
		ID:            uuid.New(),
		Name:          "Burnki",
		Fields:        []string{"SubjectId", "Characters", "Mnemonic"},
		Template:      domain.NoteTemplate{Name: "Card 1", Front: "old", Back: "old"},
		CSS:           ".card {}",
		DefaultDeckID: &otherDeck,
	}

	_, _, err := newTestReconciler(store).ApplyResult(context.Background(), sampleResult())
	require.NoError(t, err)

	nt := store.noteTypes["Burnki"]
	assert.Equal(t, 1, store.updateNoteTypeCalls)
	assert.Zero(t, store.createNoteTypeCalls)

	// Existing fields keep their order, missing ones are appended.
	assert.Equal(t, []string{"SubjectId", "Characters", "Mnemonic"}, nt.Fields[:3])
	for _, f := range domain.NoteFieldNames() {
		assert.True(t, nt.HasField(f), f)
	}
	assert.Len(t, nt.Fields, 13)

	assert.Equal(t, FrontTemplate, nt.Template.Front)
	assert.Equal(t, BackTemplate, nt.Template.Back)
	assert.Equal(t, "Card 1", nt.Template.Name)
	assert.Equal(t, Stylesheet, nt.CSS)

	require.NotNil(t, nt.DefaultDeckID)
	assert.Equal(t, store.decks["Burnki"].ID, *nt.DefaultDeckID)
}

func TestApplyResult_DefaultDeckOnlyChange(t *testing.T) {
	t.Parallel()

	store := newMemCollection()
	nt := NewNoteType("Burnki")
	nt.ID = uuid.New()
	store.noteTypes["Burnki"] = nt

	_, _, err := newTestReconciler(store).ApplyResult(context.Background(), sampleResult())
	require.NoError(t, err)

	assert.Equal(t, 1, store.updateNoteTypeCalls)
	got := store.noteTypes["Burnki"]
	require.NotNil(t, got.DefaultDeckID)
	assert.Equal(t, store.decks["Burnki"].ID, *got.DefaultDeckID)
}

func TestNoteFields(t *testing.T) {
	t.Parallel()

	nd := &domain.NoteData{SubjectID: 5, AudioFilename: "a.mp3"}
	fields := NoteFields(nd)

	assert.Len(t, fields, len(domain.NoteFieldNames()))
	for _, name := range domain.NoteFieldNames() {
		_, ok := fields[name]
		assert.True(t, ok, name)
	}
	assert.Equal(t, "5", fields[domain.FieldSubjectID])
	assert.Equal(t, "[sound:a.mp3]", fields[domain.FieldAudio])
}

func TestUpgradeNoteType_CurrentIsUnchanged(t *testing.T) {
	t.Parallel()

	_, changed := upgradeNoteType(NewNoteType("Burnki"))
	assert.False(t, changed)
}
