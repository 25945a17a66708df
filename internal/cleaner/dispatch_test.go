package cleaner

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"worldsweep/internal/store"
)

func TestEffectiveAction(t *testing.T) {
	tests := []struct {
		cat         Category
		requested   Action
		want        Action
		substituted bool
	}{
		{CategoryUnlinkedTokens, ActionDelete, ActionDelete, false},
		{CategoryUnlinkedTokens, ActionMove, ActionFlag, true},
		{CategoryOrphanedEffects, ActionMove, ActionFlag, true},
		{CategoryEmptyDocuments, ActionMove, ActionMove, false},
		{CategoryDuplicateAssets, ActionDelete, ActionFlag, true},
		{CategoryDuplicateAssets, ActionFlag, ActionFlag, false},
		{CategoryOldChatMessages, ActionArchive, ActionArchive, false},
		{CategoryOldChatMessages, ActionMove, ActionFlag, true},
		{CategoryUnlinkedTokens, ActionArchive, ActionIgnore, false},
		{CategoryEmptyDocuments, ActionIgnore, ActionIgnore, false},
	}

	for _, tt := range tests {
		got, substituted := effectiveAction(tt.cat, tt.requested)
		if got != tt.want || substituted != tt.substituted {
			t.Errorf("effectiveAction(%s, %s) = %s, %v; want %s, %v",
				tt.cat, tt.requested, got, substituted, tt.want, tt.substituted)
		}
	}
}

func TestDispatch_SubstitutionAnnounced(t *testing.T) {
	db := newMockStore()
	notifier := &mockNotifier{}
	d := NewDispatcher(db, notifier, zerolog.Nop())

	scene := &store.Record{Kind: store.KindScene, ID: "s1", Name: "Tavern"}
	findings := []Finding{{Record: scene, Token: &store.Token{ID: "t1", Name: "Ghost"}}}

	if err := d.Dispatch(context.Background(), CategoryUnlinkedTokens, ActionMove, findings); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(notifier.messages) != 2 {
		t.Fatalf("expected fallback announcement plus flag message, got %d messages", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[0], "is not supported") {
		t.Errorf("first message should announce the substitution: %q", notifier.messages[0])
	}
	if !strings.Contains(notifier.messages[1], "Ghost") {
		t.Errorf("flag message should name the token: %q", notifier.messages[1])
	}
}

func TestDispatch_DuplicateAssetsDeleteNeverDeletes(t *testing.T) {
	db := newMockStore()
	notifier := &mockNotifier{}
	d := NewDispatcher(db, notifier, zerolog.Nop())

	group := []*store.Record{
		{Kind: store.KindActor, ID: "a1", Name: "Grimwald"},
		{Kind: store.KindActor, ID: "a2", Name: "Impostor"},
	}
	findings := []Finding{{Asset: "art/portrait.png", Group: group}}

	if err := d.Dispatch(context.Background(), CategoryDuplicateAssets, ActionDelete, findings); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(db.deleted) != 0 {
		t.Fatalf("duplicate assets must never be deleted, got deletions: %v", db.deleted)
	}
	if len(notifier.messages) != 2 {
		t.Fatalf("expected substitution announcement plus flag message, got %d", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[1], "art/portrait.png") {
		t.Errorf("flag message should name the asset: %q", notifier.messages[1])
	}
}

func TestDispatch_DeleteEmbeddedGroupsByParent(t *testing.T) {
	db := newMockStore()
	notifier := &mockNotifier{}
	d := NewDispatcher(db, notifier, zerolog.Nop())

	s1 := &store.Record{Kind: store.KindScene, ID: "s1", Name: "Tavern"}
	s2 := &store.Record{Kind: store.KindScene, ID: "s2", Name: "Crypt"}
	findings := []Finding{
		{Record: s1, Token: &store.Token{ID: "t1"}},
		{Record: s1, Token: &store.Token{ID: "t2"}},
		{Record: s2, Token: &store.Token{ID: "t3"}},
	}

	if err := d.Dispatch(context.Background(), CategoryUnlinkedTokens, ActionDelete, findings); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(db.embeddedDeletes) != 2 {
		t.Fatalf("expected one batch per scene, got %d", len(db.embeddedDeletes))
	}
	first := db.embeddedDeletes[0]
	if first.parentID != "s1" || len(first.ids) != 2 {
		t.Errorf("expected batch of 2 tokens for s1, got parent %s ids %v", first.parentID, first.ids)
	}
	if first.kind != store.EmbeddedToken {
		t.Errorf("expected Token batch, got %s", first.kind)
	}
}

func TestDispatch_ArchiveWritesBeforeDeleting(t *testing.T) {
	db := newMockStore()
	notifier := &mockNotifier{}
	d := NewDispatcher(db, notifier, zerolog.Nop())

	findings := []Finding{
		{Record: &store.Record{Kind: store.KindChatMessage, ID: "c1", Author: "alice", Content: "hi"}},
		{Record: &store.Record{Kind: store.KindChatMessage, ID: "c2", Author: "bob", Content: "bye"}},
	}

	if err := d.Dispatch(context.Background(), CategoryOldChatMessages, ActionArchive, findings); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(db.created) != 1 || db.created[0].Name != ArchiveName {
		t.Fatalf("expected the archive journal to be created, got %v", db.created)
	}
	if len(db.updates) != 1 {
		t.Fatalf("expected one archive content update, got %d", len(db.updates))
	}
	content, _ := db.updates[0].fields["content"].(string)
	if !strings.Contains(content, "alice: hi") || !strings.Contains(content, "bob: bye") {
		t.Errorf("archive content missing messages: %q", content)
	}
	if len(db.deleted) != 2 {
		t.Fatalf("expected both messages deleted, got %v", db.deleted)
	}

	// The archive update must land before any message deletion.
	updateAt, firstDeleteAt := -1, -1
	for i, op := range db.ops {
		if strings.HasPrefix(op, "update") && updateAt == -1 {
			updateAt = i
		}
		if strings.HasPrefix(op, "delete") && firstDeleteAt == -1 {
			firstDeleteAt = i
		}
	}
	if updateAt == -1 || firstDeleteAt == -1 || updateAt > firstDeleteAt {
		t.Errorf("archive update must precede deletions, ops: %v", db.ops)
	}
}

func TestDispatch_ArchiveReusesExistingJournal(t *testing.T) {
	db := newMockStore()
	db.add(&store.Record{Kind: store.KindJournalEntry, ID: "j1", Name: ArchiveName, Content: "alice: old"})
	notifier := &mockNotifier{}
	d := NewDispatcher(db, notifier, zerolog.Nop())

	findings := []Finding{
		{Record: &store.Record{Kind: store.KindChatMessage, ID: "c1", Author: "bob", Content: "new"}},
	}

	if err := d.Dispatch(context.Background(), CategoryOldChatMessages, ActionArchive, findings); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(db.created) != 0 {
		t.Fatalf("existing archive journal should be reused, created %v", db.created)
	}
	content, _ := db.updates[0].fields["content"].(string)
	if !strings.HasPrefix(content, "alice: old") || !strings.Contains(content, "bob: new") {
		t.Errorf("archive should append to existing content: %q", content)
	}
}

func TestDispatch_MoveQuarantinesAndHoldsScenes(t *testing.T) {
	db := newMockStore()
	macro := &store.Record{Kind: store.KindMacro, ID: "m1"}
	scene := &store.Record{Kind: store.KindScene, ID: "s1", Name: "Faded Map"}
	db.add(macro)
	db.add(scene)

	notifier := &mockNotifier{}
	d := NewDispatcher(db, notifier, zerolog.Nop())

	findings := []Finding{{Record: macro}, {Record: scene}}
	if err := d.Dispatch(context.Background(), CategoryEmptyDocuments, ActionMove, findings); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(db.imported) != 1 || db.imported[0].ID != "m1" {
		t.Fatalf("expected only the macro quarantined, got %v", db.imported)
	}
	if len(db.deleted) != 1 || db.deleted[0] != "Macro/m1" {
		t.Fatalf("expected only the macro deleted, got %v", db.deleted)
	}
	if db.compendia[QuarantineKey] == nil {
		t.Fatalf("quarantine compendium should have been created")
	}
	if len(notifier.messages) != 1 || !strings.Contains(notifier.messages[0], "Faded Map") {
		t.Errorf("scene should be reported for manual review: %v", notifier.messages)
	}
}

func TestDispatch_QuarantineImportFailureKeepsOriginal(t *testing.T) {
	db := newMockStore()
	macro := &store.Record{Kind: store.KindMacro, ID: "m1"}
	db.add(macro)
	db.importErr = errTest

	notifier := &mockNotifier{}
	d := NewDispatcher(db, notifier, zerolog.Nop())

	if err := d.Dispatch(context.Background(), CategoryEmptyDocuments, ActionMove, []Finding{{Record: macro}}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(db.deleted) != 0 {
		t.Fatalf("failed import must keep the original, got deletions: %v", db.deleted)
	}
}

func TestDispatch_FlagEmptyDocumentsSplitsScenes(t *testing.T) {
	db := newMockStore()
	notifier := &mockNotifier{}
	d := NewDispatcher(db, notifier, zerolog.Nop())

	findings := []Finding{
		{Record: &store.Record{Kind: store.KindMacro, ID: "m1"}},
		{Record: &store.Record{Kind: store.KindScene, ID: "s1", Name: "Faded Map"}},
	}
	if err := d.Dispatch(context.Background(), CategoryEmptyDocuments, ActionFlag, findings); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	msg := notifier.messages[0]
	if !strings.Contains(msg, "Scenes (manual review only):") {
		t.Errorf("flag message should split out scenes: %q", msg)
	}
	if !strings.Contains(msg, "(unnamed)") {
		t.Errorf("unnamed documents should read (unnamed): %q", msg)
	}
}

func TestDispatch_IgnoreDoesNothing(t *testing.T) {
	db := newMockStore()
	notifier := &mockNotifier{}
	d := NewDispatcher(db, notifier, zerolog.Nop())

	findings := []Finding{{Record: &store.Record{Kind: store.KindMacro, ID: "m1"}}}
	if err := d.Dispatch(context.Background(), CategoryEmptyDocuments, ActionIgnore, findings); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(notifier.messages) != 0 || len(db.deleted) != 0 {
		t.Errorf("ignore must have no side effects")
	}
}
