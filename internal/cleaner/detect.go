package cleaner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"worldsweep/internal/store"
)

// Finding pairs an owning record with the anomaly-specific context a
// remediation needs. Token and Effect are set for the embedded categories;
// Asset and Group for duplicate-asset groups. Findings are transient and
// never persisted.
type Finding struct {
	Record *store.Record
	Token  *store.Token
	Effect *store.Effect
	Asset  string
	Group  []*store.Record
}

// emptyScanKinds are the kinds the empty-document detector covers, in scan
// order. Chat messages have their own category.
var emptyScanKinds = []store.Kind{
	store.KindActor,
	store.KindItem,
	store.KindJournalEntry,
	store.KindMacro,
	store.KindPlaylist,
	store.KindRollTable,
	store.KindCards,
	store.KindScene,
}

// duplicateAssetKinds are the kinds whose image reference participates in
// duplicate grouping.
var duplicateAssetKinds = []store.Kind{
	store.KindActor,
	store.KindItem,
	store.KindJournalEntry,
	store.KindMacro,
	store.KindPlaylist,
}

// defaultPlaceholderImages are the platform's stock images; references to
// them are expected to repeat and never count as duplicates.
var defaultPlaceholderImages = map[string]struct{}{
	"icons/svg/mystery-man.svg": {},
	"icons/svg/item-bag.svg":    {},
}

const msPerDay = 24 * 60 * 60 * 1000

// Detector enumerates anomalies. It only reads the store.
type Detector struct {
	db      store.Store
	strict  bool
	ageDays int
	now     func() time.Time
}

func NewDetector(db store.Store, strict bool, ageDays int, now func() time.Time) *Detector {
	if now == nil {
		now = time.Now
	}
	return &Detector{db: db, strict: strict, ageDays: ageDays, now: now}
}

// Detect runs the detector for one category.
func (d *Detector) Detect(ctx context.Context, cat Category) ([]Finding, error) {
	switch cat {
	case CategoryUnlinkedTokens:
		return d.detectUnlinkedTokens(ctx)
	case CategoryOrphanedEffects:
		return d.detectOrphanedEffects(ctx)
	case CategoryEmptyDocuments:
		return d.detectEmptyDocuments(ctx)
	case CategoryDuplicateAssets:
		return d.detectDuplicateAssets(ctx)
	case CategoryOldChatMessages:
		return d.detectOldChatMessages(ctx)
	default:
		return nil, fmt.Errorf("unknown category: %s", cat)
	}
}

func (d *Detector) detectUnlinkedTokens(ctx context.Context) ([]Finding, error) {
	scenes, err := d.db.List(ctx, store.KindScene)
	if err != nil {
		return nil, fmt.Errorf("listing scenes: %w", err)
	}

	var findings []Finding
	for _, scene := range scenes {
		for i := range scene.Tokens {
			token := &scene.Tokens[i]
			if token.ActorID == "" {
				continue
			}
			actor, err := d.db.Get(ctx, store.KindActor, token.ActorID)
			if err != nil {
				return nil, fmt.Errorf("looking up actor %s: %w", token.ActorID, err)
			}
			if actor == nil {
				findings = append(findings, Finding{Record: scene, Token: token})
			}
		}
	}
	return findings, nil
}

func (d *Detector) detectOrphanedEffects(ctx context.Context) ([]Finding, error) {
	actors, err := d.db.List(ctx, store.KindActor)
	if err != nil {
		return nil, fmt.Errorf("listing actors: %w", err)
	}

	var findings []Finding
	for _, actor := range actors {
		for i := range actor.Effects {
			effect := &actor.Effects[i]
			itemID := originItemID(effect.Origin)
			if itemID == "" {
				continue
			}
			item, err := d.db.Get(ctx, store.KindItem, itemID)
			if err != nil {
				return nil, fmt.Errorf("looking up item %s: %w", itemID, err)
			}
			if item == nil {
				findings = append(findings, Finding{Record: actor, Effect: effect})
			}
		}
	}
	return findings, nil
}

// originItemID extracts the source-item id from an effect origin: the third
// dot-delimited segment (e.g. "Item.item.a2" yields "a2"). Shorter origins
// carry no item reference.
func originItemID(origin string) string {
	parts := strings.Split(origin, ".")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

func (d *Detector) detectEmptyDocuments(ctx context.Context) ([]Finding, error) {
	var findings []Finding
	for _, kind := range emptyScanKinds {
		records, err := d.db.List(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("listing %s documents: %w", kind, err)
		}
		for _, rec := range records {
			if rec.Kind == store.KindScene && rec.Protected {
				continue
			}
			if isEmptyDocument(rec, d.strict) {
				findings = append(findings, Finding{Record: rec})
			}
		}
	}
	return findings, nil
}

func (d *Detector) detectDuplicateAssets(ctx context.Context) ([]Finding, error) {
	byPath := make(map[string][]*store.Record)
	var order []string

	for _, kind := range duplicateAssetKinds {
		records, err := d.db.List(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("listing %s documents: %w", kind, err)
		}
		for _, rec := range records {
			if rec.Img == "" {
				continue
			}
			if _, stock := defaultPlaceholderImages[rec.Img]; stock {
				continue
			}
			if _, seen := byPath[rec.Img]; !seen {
				order = append(order, rec.Img)
			}
			byPath[rec.Img] = append(byPath[rec.Img], rec)
		}
	}

	var findings []Finding
	for _, path := range order {
		group := byPath[path]
		if len(group) < 2 {
			continue
		}
		findings = append(findings, Finding{Asset: path, Group: group})
	}
	return findings, nil
}

func (d *Detector) detectOldChatMessages(ctx context.Context) ([]Finding, error) {
	messages, err := d.db.List(ctx, store.KindChatMessage)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}

	cutoff := d.now().UnixMilli() - int64(d.ageDays)*msPerDay
	var findings []Finding
	for _, msg := range messages {
		if msg.Timestamp < cutoff {
			findings = append(findings, Finding{Record: msg})
		}
	}
	return findings, nil
}
