package cleaner

import (
	"context"
	"errors"
	"fmt"

	"worldsweep/internal/store"
)

var errTest = errors.New("boom")

type embeddedDelete struct {
	parentID string
	kind     store.EmbeddedKind
	ids      []string
}

type fieldUpdate struct {
	id     string
	fields map[string]any
}

type mockStore struct {
	records   map[store.Kind][]*store.Record
	compendia map[string]*store.Compendium

	listErr   map[store.Kind]error
	getErr    map[store.Kind]error
	importErr error
	listPanic bool

	created         []*store.Record
	updates         []fieldUpdate
	deleted         []string
	embeddedDeletes []embeddedDelete
	imported        []*store.Record
	ops             []string
}

func newMockStore() *mockStore {
	return &mockStore{
		records:   make(map[store.Kind][]*store.Record),
		compendia: make(map[string]*store.Compendium),
	}
}

func (m *mockStore) add(rec *store.Record) {
	m.records[rec.Kind] = append(m.records[rec.Kind], rec)
}

func (m *mockStore) Close(ctx context.Context) error        { return nil }
func (m *mockStore) EnsureSchema(ctx context.Context) error { return nil }

func (m *mockStore) List(ctx context.Context, kind store.Kind) ([]*store.Record, error) {
	if m.listPanic {
		panic("list exploded")
	}
	if err := m.listErr[kind]; err != nil {
		return nil, err
	}
	return m.records[kind], nil
}

func (m *mockStore) Get(ctx context.Context, kind store.Kind, id string) (*store.Record, error) {
	if err := m.getErr[kind]; err != nil {
		return nil, err
	}
	for _, rec := range m.records[kind] {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}

func (m *mockStore) Create(ctx context.Context, rec *store.Record) error {
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("gen-%d", len(m.created)+1)
	}
	m.add(rec)
	m.created = append(m.created, rec)
	m.ops = append(m.ops, "create "+string(rec.Kind)+"/"+rec.ID)
	return nil
}

func (m *mockStore) Update(ctx context.Context, rec *store.Record, fields map[string]any) error {
	m.updates = append(m.updates, fieldUpdate{id: rec.ID, fields: fields})
	m.ops = append(m.ops, "update "+string(rec.Kind)+"/"+rec.ID)
	return nil
}

func (m *mockStore) Delete(ctx context.Context, rec *store.Record) error {
	m.deleted = append(m.deleted, string(rec.Kind)+"/"+rec.ID)
	m.ops = append(m.ops, "delete "+string(rec.Kind)+"/"+rec.ID)
	kept := m.records[rec.Kind][:0]
	for _, existing := range m.records[rec.Kind] {
		if existing.ID != rec.ID {
			kept = append(kept, existing)
		}
	}
	m.records[rec.Kind] = kept
	return nil
}

func (m *mockStore) UpdateEmbedded(ctx context.Context, parent *store.Record, kind store.EmbeddedKind, updates []store.EmbeddedUpdate) error {
	return nil
}

func (m *mockStore) DeleteEmbedded(ctx context.Context, parent *store.Record, kind store.EmbeddedKind, ids []string) error {
	m.embeddedDeletes = append(m.embeddedDeletes, embeddedDelete{parentID: parent.ID, kind: kind, ids: ids})
	return nil
}

func (m *mockStore) GetCompendium(ctx context.Context, key string) (*store.Compendium, error) {
	return m.compendia[key], nil
}

func (m *mockStore) CreateCompendium(ctx context.Context, meta store.CompendiumMeta) (*store.Compendium, error) {
	comp := &store.Compendium{Key: meta.Key, Label: meta.Label, Kind: meta.Kind}
	m.compendia[meta.Key] = comp
	return comp, nil
}

func (m *mockStore) ImportToCompendium(ctx context.Context, comp *store.Compendium, rec *store.Record) error {
	if m.importErr != nil {
		return m.importErr
	}
	m.imported = append(m.imported, rec)
	m.ops = append(m.ops, "import "+string(rec.Kind)+"/"+rec.ID)
	return nil
}

type mockNotifier struct {
	messages []string
	err      error
}

func (n *mockNotifier) Notify(ctx context.Context, message string) error {
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, message)
	return nil
}
