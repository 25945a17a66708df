package relocate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"worldsweep/internal/store"
)

// ErrInvalidPath marks a blank source path or target folder after
// normalization. It is a caller bug and never retried.
var ErrInvalidPath = errors.New("invalid file path or target folder")

// Files is the file-access collaborator. Fetch fails when the path is
// missing or unreachable; Upload returns the path the file landed at.
type Files interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, path string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
}

// Updater is the slice of the store a relocation needs.
type Updater interface {
	Update(ctx context.Context, rec *store.Record, fields map[string]any) error
	UpdateEmbedded(ctx context.Context, parent *store.Record, kind store.EmbeddedKind, updates []store.EmbeddedUpdate) error
}

// FieldRef names the reference to rewrite: either a direct field on the
// owner, or a path field on an embedded child reached through the parent.
type FieldRef struct {
	Name       string
	Embedded   store.EmbeddedKind
	EmbeddedID string
}

// Field addresses a plain field on the owning record.
func Field(name string) FieldRef {
	return FieldRef{Name: name}
}

// EmbeddedField addresses the "path" field of an embedded child.
func EmbeddedField(kind store.EmbeddedKind, id string) FieldRef {
	return FieldRef{Name: "path", Embedded: kind, EmbeddedID: id}
}

// Failure records one document whose file could not be moved.
type Failure struct {
	Kind store.Kind
	Name string
	File string
	Err  error
}

// Results accumulates the outcome of a batch of relocations.
type Results struct {
	Success  int
	Failed   []Failure
	Warnings []string
}

// Relocator moves asset files and keeps the owning references consistent.
type Relocator struct {
	files Files
	db    Updater
	log   zerolog.Logger
}

func New(files Files, db Updater, log zerolog.Logger) *Relocator {
	return &Relocator{files: files, db: db, log: log}
}

// Relocate moves the file at sourcePath into targetFolder and updates the
// owner's reference. The original is deleted only after the reference update
// succeeds; a failed update rolls the upload back. A file already under the
// target folder is left alone.
func (r *Relocator) Relocate(ctx context.Context, sourcePath, targetFolder string, owner *store.Record, field FieldRef, results *Results) error {
	normalized := NormalizeFilePath(sourcePath)
	target := NormalizeFolderPath(targetFolder)
	if normalized == "" || target == "" {
		return ErrInvalidPath
	}

	if normalized == target || strings.HasPrefix(normalized, target+"/") {
		r.log.Debug().Str("path", sourcePath).Msg("file already in target folder")
		return nil
	}

	base := normalized
	if idx := strings.LastIndex(normalized, "/"); idx >= 0 {
		base = normalized[idx+1:]
	}
	newPath := target + "/" + base

	r.log.Debug().Str("from", normalized).Str("to", newPath).Msg("moving file")

	data, err := r.files.Fetch(ctx, normalized)
	if err != nil {
		return fmt.Errorf("fetching file %s: %w", normalized, err)
	}

	uploaded, err := r.files.Upload(ctx, newPath, data)
	if err != nil {
		return fmt.Errorf("uploading file to %s: %w", newPath, err)
	}
	if uploaded == "" {
		return fmt.Errorf("uploading file to %s: no path returned", newPath)
	}

	if err := r.updateReference(ctx, owner, field, uploaded); err != nil {
		// Roll back the upload so the store never ends up referencing a
		// path while a second live copy lingers unnoticed.
		if delErr := r.files.Delete(ctx, uploaded); delErr != nil {
			r.log.Debug().Err(delErr).Str("path", uploaded).Msg("rollback delete failed")
			results.Warnings = append(results.Warnings, fmt.Sprintf(
				"file %s was uploaded but the reference update failed and rollback failed; manual cleanup may be required", uploaded))
		}
		return err
	}

	if err := r.files.Delete(ctx, normalized); err != nil {
		r.log.Debug().Err(err).Str("path", normalized).Msg("could not delete original file")
		results.Warnings = append(results.Warnings, fmt.Sprintf(
			"file moved to %s but the original %s could not be deleted; manual cleanup may be required", uploaded, normalized))
	}

	results.Success++
	r.log.Debug().Str("from", sourcePath).Str("to", uploaded).Msg("file moved and reference updated")
	return nil
}

func (r *Relocator) updateReference(ctx context.Context, owner *store.Record, field FieldRef, path string) error {
	if field.Embedded != "" {
		update := store.EmbeddedUpdate{ID: field.EmbeddedID, Fields: map[string]any{field.Name: path}}
		if err := r.db.UpdateEmbedded(ctx, owner, field.Embedded, []store.EmbeddedUpdate{update}); err != nil {
			return fmt.Errorf("updating embedded %s reference: %w", field.Embedded, err)
		}
		return nil
	}
	if err := r.db.Update(ctx, owner, map[string]any{field.Name: path}); err != nil {
		return fmt.Errorf("updating %s reference: %w", field.Name, err)
	}
	return nil
}
