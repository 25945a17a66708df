package store

import (
	"encoding/json"
	"fmt"
)

// Helpers shared by the SQL adapters, which persist each document as a JSON
// payload. Mutations are applied at the JSON level so that partial field
// updates never clobber fields the Record struct does not model.

func embeddedKey(kind EmbeddedKind) (string, error) {
	switch kind {
	case EmbeddedToken:
		return "tokens", nil
	case EmbeddedActiveEffect:
		return "effects", nil
	case EmbeddedSound:
		return "sounds", nil
	default:
		return "", fmt.Errorf("unknown embedded kind: %s", kind)
	}
}

// MergeFields merges fields (keyed by JSON tag name) into a document payload.
func MergeFields(data []byte, fields map[string]any) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	for key, value := range fields {
		doc[key] = value
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return merged, nil
}

// ApplyEmbeddedUpdates merges per-child field updates into the embedded list
// for the given kind. Updates addressing unknown ids are ignored.
func ApplyEmbeddedUpdates(data []byte, kind EmbeddedKind, updates []EmbeddedUpdate) ([]byte, error) {
	key, err := embeddedKey(kind)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	byID := make(map[string]map[string]any, len(updates))
	for _, u := range updates {
		byID[u.ID] = u.Fields
	}

	children, _ := doc[key].([]any)
	for _, child := range children {
		entry, ok := child.(map[string]any)
		if !ok {
			continue
		}
		id, _ := entry["_id"].(string)
		fields, ok := byID[id]
		if !ok {
			continue
		}
		for k, v := range fields {
			entry[k] = v
		}
	}
	doc[key] = children

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return merged, nil
}

// RemoveEmbedded drops the embedded children with the given ids.
func RemoveEmbedded(data []byte, kind EmbeddedKind, ids []string) ([]byte, error) {
	key, err := embeddedKey(kind)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	children, _ := doc[key].([]any)
	kept := make([]any, 0, len(children))
	for _, child := range children {
		if entry, ok := child.(map[string]any); ok {
			if id, _ := entry["_id"].(string); id != "" {
				if _, gone := drop[id]; gone {
					continue
				}
			}
		}
		kept = append(kept, child)
	}
	doc[key] = kept

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return merged, nil
}
