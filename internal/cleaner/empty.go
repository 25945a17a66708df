package cleaner

import (
	"strings"

	"worldsweep/internal/store"
)

// isEmptyDocument reports whether a record carries no meaningful content.
// The conservative mode requires a blank name AND absent kind-specific
// content; the legacy strict mode treats a blank name alone as empty and is
// deliberately more aggressive for named records with no body. Pure and
// total: no store access, never fails.
func isEmptyDocument(rec *store.Record, strict bool) bool {
	if strict {
		return isEmptyStrict(rec)
	}
	return isEmptyConservative(rec)
}

func isEmptyConservative(rec *store.Record) bool {
	if !blank(rec.Name) {
		return false
	}
	switch rec.Kind {
	case store.KindActor:
		return !anyTruthy(rec.System) && len(rec.Effects) == 0 && len(rec.Items) == 0
	case store.KindItem:
		return !anyTruthy(rec.System)
	case store.KindJournalEntry:
		for _, page := range rec.Pages {
			if !blank(page.Text) {
				return false
			}
		}
		return true
	case store.KindMacro:
		return blank(rec.Command)
	case store.KindPlaylist:
		return len(rec.Sounds) == 0
	case store.KindRollTable:
		return len(rec.Results) == 0
	case store.KindCards:
		return len(rec.Cards) == 0
	case store.KindScene:
		return len(rec.Tokens) == 0
	default:
		return true
	}
}

func isEmptyStrict(rec *store.Record) bool {
	if blank(rec.Name) {
		return true
	}
	if desc, ok := rec.System["description"]; ok && truthy(desc) {
		return false
	}
	for _, page := range rec.Pages {
		if !blank(page.Text) {
			return false
		}
	}
	return !anyTruthy(rec.System)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func anyTruthy(m map[string]any) bool {
	for _, v := range m {
		if truthy(v) {
			return true
		}
	}
	return false
}

func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case float64:
		return value != 0
	case int:
		return value != 0
	case int64:
		return value != 0
	case map[string]any:
		return anyTruthy(value)
	case []any:
		return len(value) > 0
	default:
		return true
	}
}
