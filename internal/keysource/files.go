package keysource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

// FileProvider resolves identifiers to key files on the local
// filesystem. Template is a path pattern with a {user} placeholder and
// optional glob syntax, e.g. "/home/{user}/.ssh/authorized_keys" or
// "./keys/{user}*.pub".
type FileProvider struct {
	Template string
}

func (p FileProvider) Lookup(ctx context.Context, identifier string) (string, error) {
	pattern := strings.ReplaceAll(p.Template, "{user}", identifier)

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid key path pattern %q: %w", pattern, err)
	}

	var b strings.Builder
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(m)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", serrors.ErrKeyFileUnreadable, m, err)
		}
		b.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// ReadKeyFiles reads explicitly named key files, expanding globs. Each
// file becomes one Material labeled by its base filename. A pattern that
// matches nothing, or a file that cannot be read, is a configuration
// error.
func ReadKeyFiles(patterns []string) ([]Material, error) {
	var out []Material

	for _, pattern := range patterns {
		paths := []string{pattern}
		if strings.ContainsAny(pattern, "*?[") {
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid key file pattern %q: %w", pattern, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("%w: no files match %q", serrors.ErrKeyFileUnreadable, pattern)
			}
			paths = matches
		}

		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", serrors.ErrKeyFileUnreadable, path, err)
			}
			label := strings.TrimSuffix(filepath.Base(path), ".pub")
			out = append(out, Material{Label: label, Text: string(data)})
		}
	}

	return out, nil
}
