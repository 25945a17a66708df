package relocate

import "strings"

// NormalizeFilePath strips leading slashes and a literal "data/" prefix.
// Document file references are stored relative to the data root, so both
// decorations are noise. Normalization is idempotent.
func NormalizeFilePath(path string) string {
	normalized := strings.TrimSpace(path)
	if normalized == "" {
		return ""
	}
	normalized = strings.TrimLeft(normalized, "/")
	normalized = strings.TrimPrefix(normalized, "data/")
	return normalized
}

// NormalizeFolderPath strips leading and trailing slashes.
func NormalizeFolderPath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}
