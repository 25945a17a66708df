package cleaner

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"worldsweep/internal/store"
)

// Stable keys for the lazily created dead-letter containers. Both are
// created at most once per world and found again by these names.
const (
	QuarantineKey   = "worldsweep-quarantine"
	QuarantineLabel = "Worldsweep Quarantine"
	ArchiveName     = "Chat Archive"
)

// quarantineSink moves documents into a holding compendium instead of
// deleting them outright.
type quarantineSink struct {
	db  store.Store
	log zerolog.Logger
}

// Move imports each record into the quarantine compendium and deletes the
// original afterwards. Import strictly precedes delete, so a failure
// mid-batch leaves deleted records a subset of imported ones.
func (s *quarantineSink) Move(ctx context.Context, records []*store.Record) error {
	if len(records) == 0 {
		return nil
	}

	comp, err := s.db.GetCompendium(ctx, QuarantineKey)
	if err != nil {
		return fmt.Errorf("looking up quarantine compendium: %w", err)
	}
	if comp == nil {
		meta := store.CompendiumMeta{
			Key:   QuarantineKey,
			Label: QuarantineLabel,
			Kind:  records[0].Kind,
		}
		comp, err = s.db.CreateCompendium(ctx, meta)
		if err != nil {
			return fmt.Errorf("creating quarantine compendium: %w", err)
		}
	}

	for _, rec := range records {
		if err := s.db.ImportToCompendium(ctx, comp, rec); err != nil {
			s.log.Warn().Err(err).Str("kind", string(rec.Kind)).Str("name", rec.Name).
				Msg("could not import document into quarantine; original kept")
			continue
		}
		if err := s.db.Delete(ctx, rec); err != nil {
			s.log.Warn().Err(err).Str("kind", string(rec.Kind)).Str("name", rec.Name).
				Msg("document imported into quarantine but original could not be deleted")
		}
	}
	return nil
}

// archiveSink appends chat messages to the accumulating archive journal.
type archiveSink struct {
	db store.Store
}

// Archive appends each message as a "user: content" line to the archive
// journal, creating it on first use, and persists the accumulated content in
// a single update. Callers delete the messages only after this succeeds.
func (s *archiveSink) Archive(ctx context.Context, messages []*store.Record) error {
	if len(messages) == 0 {
		return nil
	}

	journal, err := s.findArchive(ctx)
	if err != nil {
		return err
	}
	if journal == nil {
		journal = &store.Record{Kind: store.KindJournalEntry, Name: ArchiveName}
		if err := s.db.Create(ctx, journal); err != nil {
			return fmt.Errorf("creating archive journal: %w", err)
		}
	}

	var b strings.Builder
	b.WriteString(journal.Content)
	for _, msg := range messages {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		author := msg.Author
		if author == "" {
			author = "unknown"
		}
		fmt.Fprintf(&b, "%s: %s", author, msg.Content)
	}

	if err := s.db.Update(ctx, journal, map[string]any{"content": b.String()}); err != nil {
		return fmt.Errorf("updating archive journal: %w", err)
	}
	return nil
}

func (s *archiveSink) findArchive(ctx context.Context) (*store.Record, error) {
	journals, err := s.db.List(ctx, store.KindJournalEntry)
	if err != nil {
		return nil, fmt.Errorf("listing journals: %w", err)
	}
	for _, journal := range journals {
		if journal.Name == ArchiveName {
			return journal, nil
		}
	}
	return nil, nil
}
