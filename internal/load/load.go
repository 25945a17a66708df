// Package load imports world-export JSON files into the document store.
//
// A world export is a directory of JSON files, one document per file,
// each carrying a "kind" field naming its document kind. Files with an
// unknown kind are skipped rather than treated as errors so that exports
// from newer world versions load what they can.
package load

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"worldsweep/internal/store"
)

type Result struct {
	Loaded  int
	Skipped int
	Errors  []error
}

func Run(ctx context.Context, dir string, db store.Store) (*Result, error) {
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	files, err := walkJSONFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	result := &Result{}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("reading %s: %w", path, err))
			continue
		}

		var rec store.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("decoding %s: %w", path, err))
			continue
		}

		if !store.ValidKind(string(rec.Kind)) {
			result.Skipped++
			continue
		}

		if err := db.Create(ctx, &rec); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing %s: %w", path, err))
			continue
		}
		result.Loaded++
	}

	return result, nil
}

func walkJSONFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
