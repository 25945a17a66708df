package cleaner

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"worldsweep/internal/config"
	"worldsweep/internal/store"
)

const (
	confirmationMessage = "World scan complete. No outstanding issues found."
	failureMessage      = "World scan failed; check the logs for details."
)

// Runner drives a full scan pass: detectors in fixed order, dispatch per
// enabled category, one summary notification at the end. A single-flight
// latch keeps overlapping scheduled scans from double-processing anomalies.
type Runner struct {
	detector   *Detector
	dispatcher *Dispatcher
	notifier   Notifier
	cfg        config.ScanConfig
	operator   config.Operator
	log        zerolog.Logger
	running    atomic.Bool
}

// NewRunner wires a runner from its collaborators. now may be nil to use
// wall-clock time.
func NewRunner(db store.Store, notifier Notifier, cfg config.ScanConfig, operator config.Operator, log zerolog.Logger, now func() time.Time) *Runner {
	return &Runner{
		detector:   NewDetector(db, cfg.StrictEmpty, cfg.ChatMessageAgeDays, now),
		dispatcher: NewDispatcher(db, notifier, log),
		notifier:   notifier,
		cfg:        cfg,
		operator:   operator,
		log:        log,
	}
}

// RunScan executes one scan pass. Invocations without gamemaster privilege
// are a silent no-op, as is an invocation while another scan is running.
// Category failures are isolated: one failing category never suppresses the
// rest, it is reported as skipped in the summary, and the operator always
// receives exactly one summary (or failure) notification.
func (r *Runner) RunScan(ctx context.Context) error {
	if !r.operator.Gamemaster {
		r.log.Debug().Str("operator", r.operator.ID).Msg("scan requires gamemaster privileges; skipping")
		return nil
	}
	if !r.running.CompareAndSwap(false, true) {
		r.log.Debug().Msg("scan already in progress; skipping")
		return nil
	}
	defer r.running.Store(false)

	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Any("panic", p).Msg("scan aborted")
			if err := r.notifier.Notify(ctx, failureMessage); err != nil {
				r.log.Error().Err(err).Msg("could not deliver failure notification")
			}
		}
	}()

	r.log.Debug().Msg("starting scan")

	var fragments []string
	for _, cat := range categoryOrder {
		cc := r.categoryConfig(cat)
		if !cc.Enabled {
			continue
		}

		findings, err := r.detector.Detect(ctx, cat)
		if err != nil {
			r.log.Error().Err(err).Str("category", string(cat)).Msg("detector failed")
			fragments = append(fragments, fmt.Sprintf("%s: skipped (error)", cat.Label()))
			continue
		}
		if len(findings) == 0 {
			continue
		}

		if err := r.dispatcher.Dispatch(ctx, cat, Action(cc.Action), findings); err != nil {
			r.log.Error().Err(err).Str("category", string(cat)).Msg("remediation failed")
			fragments = append(fragments, fmt.Sprintf("%s: skipped (error)", cat.Label()))
			continue
		}
		fragments = append(fragments, fmt.Sprintf("%s: %d", cat.Label(), len(findings)))
	}

	message := confirmationMessage
	if !r.cfg.ConfirmOnly && len(fragments) > 0 {
		message = "World scan complete. " + strings.Join(fragments, ", ")
	}
	if err := r.notifier.Notify(ctx, message); err != nil {
		return fmt.Errorf("sending scan summary: %w", err)
	}
	return nil
}

// Watch runs scans on the configured interval until the context ends,
// optionally scanning once immediately.
func (r *Runner) Watch(ctx context.Context) error {
	if r.cfg.OnLoad {
		if err := r.RunScan(ctx); err != nil {
			r.log.Error().Err(err).Msg("initial scan failed")
		}
	}

	ticker := time.NewTicker(time.Duration(r.cfg.FrequencyHours) * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.RunScan(ctx); err != nil {
				r.log.Error().Err(err).Msg("scheduled scan failed")
			}
		}
	}
}

// CategoryPreview reports what one detector would flag, without remediating.
type CategoryPreview struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Enabled  bool     `json:"enabled"`
	Action   string   `json:"action"`
	Count    int      `json:"count"`
	Entries  []string `json:"entries"`
}

// Preview runs every detector read-only and describes the findings.
func (r *Runner) Preview(ctx context.Context) ([]CategoryPreview, error) {
	previews := make([]CategoryPreview, 0, len(categoryOrder))
	for _, cat := range categoryOrder {
		cc := r.categoryConfig(cat)
		findings, err := r.detector.Detect(ctx, cat)
		if err != nil {
			return nil, fmt.Errorf("previewing %s: %w", cat, err)
		}

		entries := make([]string, 0, len(findings))
		for _, f := range findings {
			entries = append(entries, describeFinding(cat, f))
		}
		previews = append(previews, CategoryPreview{
			Category: cat,
			Label:    cat.Label(),
			Enabled:  cc.Enabled,
			Action:   cc.Action,
			Count:    len(findings),
			Entries:  entries,
		})
	}
	return previews, nil
}

func describeFinding(cat Category, f Finding) string {
	switch cat {
	case CategoryUnlinkedTokens:
		return fmt.Sprintf("%s: %s", displayName(f.Record.Name), displayName(f.Token.Name))
	case CategoryOrphanedEffects:
		return fmt.Sprintf("%s: %s", displayName(f.Record.Name), displayName(f.Effect.Name))
	case CategoryEmptyDocuments:
		return fmt.Sprintf("%s: %s", f.Record.Kind, displayName(f.Record.Name))
	case CategoryDuplicateAssets:
		names := make([]string, 0, len(f.Group))
		for _, rec := range f.Group {
			names = append(names, displayName(rec.Name))
		}
		return fmt.Sprintf("%s referenced by %s", f.Asset, strings.Join(names, ", "))
	case CategoryOldChatMessages:
		return fmt.Sprintf("%s: %s", displayName(f.Record.Author), f.Record.Content)
	default:
		return ""
	}
}

func (r *Runner) categoryConfig(cat Category) config.CategoryConfig {
	switch cat {
	case CategoryUnlinkedTokens:
		return r.cfg.UnlinkedTokens
	case CategoryOrphanedEffects:
		return r.cfg.OrphanedActiveEffects
	case CategoryEmptyDocuments:
		return r.cfg.EmptyDocuments
	case CategoryDuplicateAssets:
		return r.cfg.DuplicateAssets
	case CategoryOldChatMessages:
		return r.cfg.OldChatMessages
	default:
		return config.CategoryConfig{}
	}
}
