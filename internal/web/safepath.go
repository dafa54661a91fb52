package web

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SafePath joins name onto base and rejects results outside base. Used when
// a client names a stored result file.
func SafePath(base, name string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	resolved := filepath.Clean(name)
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(absBase, resolved)
	}

	rel, err := filepath.Rel(absBase, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes %q", name, absBase)
	}
	return resolved, nil
}
