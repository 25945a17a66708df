package cleaner

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"worldsweep/internal/store"
)

// Notifier delivers a message to the operator.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Dispatcher executes the effective remediation for one category's findings.
// Per-item failures are logged and skipped; they never abort the batch.
type Dispatcher struct {
	db         store.Store
	notifier   Notifier
	quarantine *quarantineSink
	archive    *archiveSink
	log        zerolog.Logger
}

func NewDispatcher(db store.Store, notifier Notifier, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		db:         db,
		notifier:   notifier,
		quarantine: &quarantineSink{db: db, log: log},
		archive:    &archiveSink{db: db},
		log:        log,
	}
}

// Dispatch resolves the requested action through the per-category table and
// runs it. A substituted action is always announced, so the operator is
// never silently denied what they asked for.
func (d *Dispatcher) Dispatch(ctx context.Context, cat Category, requested Action, findings []Finding) error {
	effective, substituted := effectiveAction(cat, requested)
	if substituted {
		msg := fmt.Sprintf("%s: action %q is not supported; flagging for review instead.", cat.Label(), requested)
		if err := d.notifier.Notify(ctx, msg); err != nil {
			return fmt.Errorf("announcing action fallback: %w", err)
		}
	}

	switch effective {
	case ActionIgnore:
		return nil
	case ActionFlag:
		return d.flag(ctx, cat, findings)
	case ActionDelete:
		return d.delete(ctx, cat, findings)
	case ActionMove:
		return d.move(ctx, cat, findings)
	case ActionArchive:
		return d.archiveMessages(ctx, findings)
	default:
		return fmt.Errorf("unknown action: %s", effective)
	}
}

func (d *Dispatcher) flag(ctx context.Context, cat Category, findings []Finding) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s flagged for review:", cat.Label())

	switch cat {
	case CategoryUnlinkedTokens:
		for _, f := range findings {
			fmt.Fprintf(&b, "\n- %s: %s", displayName(f.Record.Name), displayName(f.Token.Name))
		}
	case CategoryOrphanedEffects:
		for _, f := range findings {
			fmt.Fprintf(&b, "\n- %s: %s", displayName(f.Record.Name), displayName(f.Effect.Name))
		}
	case CategoryEmptyDocuments:
		scenes, rest := splitScenes(findings)
		for _, rec := range rest {
			fmt.Fprintf(&b, "\n- %s: %s", rec.Kind, displayName(rec.Name))
		}
		if len(scenes) > 0 {
			b.WriteString("\nScenes (manual review only):")
			for _, scene := range scenes {
				fmt.Fprintf(&b, "\n- %s", displayName(scene.Name))
			}
		}
	case CategoryDuplicateAssets:
		for _, f := range findings {
			names := make([]string, 0, len(f.Group))
			for _, rec := range f.Group {
				names = append(names, displayName(rec.Name))
			}
			fmt.Fprintf(&b, "\n- %s referenced by %s", f.Asset, strings.Join(names, ", "))
		}
	case CategoryOldChatMessages:
		fmt.Fprintf(&b, " %d messages past the configured age.", len(findings))
	}

	if err := d.notifier.Notify(ctx, b.String()); err != nil {
		return fmt.Errorf("flagging %s: %w", cat.Label(), err)
	}
	return nil
}

func (d *Dispatcher) delete(ctx context.Context, cat Category, findings []Finding) error {
	switch cat {
	case CategoryUnlinkedTokens:
		return d.deleteEmbeddedBatch(ctx, store.EmbeddedToken, findings, func(f Finding) string { return f.Token.ID })
	case CategoryOrphanedEffects:
		return d.deleteEmbeddedBatch(ctx, store.EmbeddedActiveEffect, findings, func(f Finding) string { return f.Effect.ID })
	case CategoryEmptyDocuments:
		scenes, rest := splitScenes(findings)
		for _, rec := range rest {
			if err := d.db.Delete(ctx, rec); err != nil {
				d.log.Warn().Err(err).Str("kind", string(rec.Kind)).Str("name", rec.Name).
					Msg("could not delete empty document")
			}
		}
		return d.reportScenes(ctx, scenes)
	case CategoryOldChatMessages:
		d.deleteRecords(ctx, findings)
		return nil
	default:
		return fmt.Errorf("delete is not implemented for %s", cat)
	}
}

// deleteEmbeddedBatch groups embedded deletions by their parent so each
// parent receives one batch operation.
func (d *Dispatcher) deleteEmbeddedBatch(ctx context.Context, kind store.EmbeddedKind, findings []Finding, id func(Finding) string) error {
	type batch struct {
		parent *store.Record
		ids    []string
	}
	var order []string
	batches := make(map[string]*batch)
	for _, f := range findings {
		entry, ok := batches[f.Record.ID]
		if !ok {
			entry = &batch{parent: f.Record}
			batches[f.Record.ID] = entry
			order = append(order, f.Record.ID)
		}
		entry.ids = append(entry.ids, id(f))
	}

	for _, parentID := range order {
		entry := batches[parentID]
		if err := d.db.DeleteEmbedded(ctx, entry.parent, kind, entry.ids); err != nil {
			d.log.Warn().Err(err).Str("parent", entry.parent.Name).
				Msgf("could not delete embedded %s batch", kind)
		}
	}
	return nil
}

func (d *Dispatcher) move(ctx context.Context, cat Category, findings []Finding) error {
	if cat != CategoryEmptyDocuments {
		return fmt.Errorf("move is not implemented for %s", cat)
	}
	scenes, rest := splitScenes(findings)
	if err := d.quarantine.Move(ctx, rest); err != nil {
		return err
	}
	return d.reportScenes(ctx, scenes)
}

func (d *Dispatcher) archiveMessages(ctx context.Context, findings []Finding) error {
	messages := make([]*store.Record, 0, len(findings))
	for _, f := range findings {
		messages = append(messages, f.Record)
	}
	// Messages are deleted only once the archive write has succeeded.
	if err := d.archive.Archive(ctx, messages); err != nil {
		return fmt.Errorf("archiving chat messages: %w", err)
	}
	d.deleteRecords(ctx, findings)
	return nil
}

func (d *Dispatcher) deleteRecords(ctx context.Context, findings []Finding) {
	for _, f := range findings {
		if err := d.db.Delete(ctx, f.Record); err != nil {
			d.log.Warn().Err(err).Str("kind", string(f.Record.Kind)).Str("id", f.Record.ID).
				Msg("could not delete document")
		}
	}
}

// reportScenes surfaces scenes held back from destructive actions. Scenes
// are never deleted or moved automatically.
func (d *Dispatcher) reportScenes(ctx context.Context, scenes []*store.Record) error {
	if len(scenes) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("Empty scenes require manual review:")
	for _, scene := range scenes {
		fmt.Fprintf(&b, "\n- %s", displayName(scene.Name))
	}
	if err := d.notifier.Notify(ctx, b.String()); err != nil {
		return fmt.Errorf("reporting empty scenes: %w", err)
	}
	return nil
}

func splitScenes(findings []Finding) (scenes, rest []*store.Record) {
	for _, f := range findings {
		if f.Record.Kind == store.KindScene {
			scenes = append(scenes, f.Record)
		} else {
			rest = append(rest, f.Record)
		}
	}
	return scenes, rest
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return name
}
