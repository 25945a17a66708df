package organize

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"worldsweep/internal/config"
	"worldsweep/internal/relocate"
	"worldsweep/internal/store"
)

type mockStore struct {
	records map[store.Kind][]*store.Record

	updates         map[string]map[string]any
	embeddedUpdates []store.EmbeddedUpdate
}

func newMockStore() *mockStore {
	return &mockStore{
		records: make(map[store.Kind][]*store.Record),
		updates: make(map[string]map[string]any),
	}
}

func (m *mockStore) add(rec *store.Record) {
	m.records[rec.Kind] = append(m.records[rec.Kind], rec)
}

func (m *mockStore) Close(ctx context.Context) error        { return nil }
func (m *mockStore) EnsureSchema(ctx context.Context) error { return nil }

func (m *mockStore) List(ctx context.Context, kind store.Kind) ([]*store.Record, error) {
	return m.records[kind], nil
}

func (m *mockStore) Get(ctx context.Context, kind store.Kind, id string) (*store.Record, error) {
	return nil, nil
}

func (m *mockStore) Create(ctx context.Context, rec *store.Record) error { return nil }

func (m *mockStore) Update(ctx context.Context, rec *store.Record, fields map[string]any) error {
	m.updates[rec.ID] = fields
	return nil
}

func (m *mockStore) Delete(ctx context.Context, rec *store.Record) error { return nil }

func (m *mockStore) UpdateEmbedded(ctx context.Context, parent *store.Record, kind store.EmbeddedKind, updates []store.EmbeddedUpdate) error {
	m.embeddedUpdates = append(m.embeddedUpdates, updates...)
	return nil
}

func (m *mockStore) DeleteEmbedded(ctx context.Context, parent *store.Record, kind store.EmbeddedKind, ids []string) error {
	return nil
}

func (m *mockStore) GetCompendium(ctx context.Context, key string) (*store.Compendium, error) {
	return nil, nil
}

func (m *mockStore) CreateCompendium(ctx context.Context, meta store.CompendiumMeta) (*store.Compendium, error) {
	return nil, nil
}

func (m *mockStore) ImportToCompendium(ctx context.Context, comp *store.Compendium, rec *store.Record) error {
	return nil
}

type mockFiles struct {
	uploads []string
	deletes []string
}

func (m *mockFiles) Fetch(ctx context.Context, path string) ([]byte, error) {
	return []byte("data"), nil
}

func (m *mockFiles) Upload(ctx context.Context, path string, data []byte) (string, error) {
	m.uploads = append(m.uploads, path)
	return path, nil
}

func (m *mockFiles) Delete(ctx context.Context, path string) error {
	m.deletes = append(m.deletes, path)
	return nil
}

type mockNotifier struct {
	messages []string
}

func (n *mockNotifier) Notify(ctx context.Context, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

func defaultOrganize() config.OrganizeConfig {
	return config.OrganizeConfig{
		AssetsFolder:      "assets",
		NPCTokenFolder:    "tokens/npc",
		PlayerTokenFolder: "tokens/player",
		ScenesFolder:      "scenes",
		AudioFolder:       "audio",
		ItemsFolder:       "items",
	}
}

func gamemaster() config.Operator {
	return config.Operator{ID: "gm1", Name: "GM", Gamemaster: true}
}

func newOrganizer(db *mockStore, files *mockFiles, notifier *mockNotifier, cfg config.OrganizeConfig, operator config.Operator) *Organizer {
	rel := relocate.New(files, db, zerolog.Nop())
	return New(db, rel, notifier, cfg, operator, zerolog.Nop())
}

func TestRun_RequiresGamemaster(t *testing.T) {
	o := newOrganizer(newMockStore(), &mockFiles{}, &mockNotifier{}, defaultOrganize(), config.Operator{ID: "p1"})
	if _, err := o.Run(context.Background()); err == nil {
		t.Fatalf("expected privilege error")
	}
}

func TestRun_SortsActorsByType(t *testing.T) {
	db := newMockStore()
	db.add(&store.Record{Kind: store.KindActor, ID: "a1", Name: "Hero", Type: "character", Img: "old/hero.png"})
	db.add(&store.Record{Kind: store.KindActor, ID: "a2", Name: "Goblin", Type: "npc", Img: "old/goblin.png"})
	db.add(&store.Record{Kind: store.KindActor, ID: "a3", Name: "Stock", Img: "icons/svg/mystery-man.svg"})

	files := &mockFiles{}
	notifier := &mockNotifier{}
	o := newOrganizer(db, files, notifier, defaultOrganize(), gamemaster())

	results, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if results.Success != 2 {
		t.Fatalf("expected 2 moves, got %d", results.Success)
	}
	want := map[string]bool{"tokens/player/hero.png": true, "tokens/npc/goblin.png": true}
	for _, upload := range files.uploads {
		if !want[upload] {
			t.Errorf("unexpected upload target %q", upload)
		}
	}
	if db.updates["a1"]["img"] != "tokens/player/hero.png" {
		t.Errorf("hero reference not updated: %v", db.updates["a1"])
	}
	if db.updates["a2"]["img"] != "tokens/npc/goblin.png" {
		t.Errorf("goblin reference not updated: %v", db.updates["a2"])
	}
	if _, touched := db.updates["a3"]; touched {
		t.Errorf("stock image actor must be skipped")
	}
}

func TestRun_RecreatesFolders(t *testing.T) {
	db := newMockStore()
	db.add(&store.Record{Kind: store.KindScene, ID: "s1", Name: "Tavern", FolderName: "Act One", Img: "old/tavern.webp"})

	cfg := defaultOrganize()
	cfg.RecreateSceneFolders = true

	files := &mockFiles{}
	o := newOrganizer(db, files, &mockNotifier{}, cfg, gamemaster())

	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(files.uploads) != 1 || files.uploads[0] != "scenes/Act One/tavern.webp" {
		t.Errorf("expected scene folder recreated, got %v", files.uploads)
	}
}

func TestRun_MovesAudioThroughParentPlaylist(t *testing.T) {
	db := newMockStore()
	db.add(&store.Record{Kind: store.KindPlaylist, ID: "p1", Name: "Ambience", Sounds: []store.Sound{
		{ID: "snd1", Name: "rain", Path: "old/rain.ogg"},
		{ID: "snd2", Name: "silence"},
	}})

	files := &mockFiles{}
	o := newOrganizer(db, files, &mockNotifier{}, defaultOrganize(), gamemaster())

	results, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if results.Success != 1 {
		t.Fatalf("expected 1 move, got %d", results.Success)
	}
	if len(db.embeddedUpdates) != 1 || db.embeddedUpdates[0].ID != "snd1" {
		t.Fatalf("expected one embedded update for snd1, got %v", db.embeddedUpdates)
	}
	if db.embeddedUpdates[0].Fields["path"] != "audio/rain.ogg" {
		t.Errorf("expected sound path rewritten, got %v", db.embeddedUpdates[0].Fields)
	}
}

func TestRun_SkipsFilesAlreadyInPlace(t *testing.T) {
	db := newMockStore()
	db.add(&store.Record{Kind: store.KindItem, ID: "i1", Name: "Sword", Img: "items/sword.png"})

	files := &mockFiles{}
	o := newOrganizer(db, files, &mockNotifier{}, defaultOrganize(), gamemaster())

	results, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if results.Success != 0 || len(files.uploads) != 0 {
		t.Errorf("file already in place must not move, got %d moves", results.Success)
	}
}

func TestRun_SummaryNotification(t *testing.T) {
	db := newMockStore()
	db.add(&store.Record{Kind: store.KindJournalEntry, ID: "j1", Name: "Notes", Img: "old/cover.png"})

	notifier := &mockNotifier{}
	o := newOrganizer(db, &mockFiles{}, notifier, defaultOrganize(), gamemaster())

	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one summary, got %d", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[0], "Moved: 1") {
		t.Errorf("summary should report the move count: %q", notifier.messages[0])
	}
}
