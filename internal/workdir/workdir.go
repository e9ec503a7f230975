package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Workdir is the scoped working area for a single encrypt or decrypt
// operation. It is created owner-only and removed on release; every
// component that needs scratch storage receives the Workdir explicitly
// instead of consulting process-global state.
type Workdir struct {
	path string

	mu       sync.Mutex
	released bool
}

// New creates a fresh operation-scoped directory under the system temp
// location, readable and writable by the owning user only.
func New() (*Workdir, error) {
	path, err := os.MkdirTemp("", "sealbox-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	// MkdirTemp creates 0700 already; enforce in case of exotic umask handling.
	if err := os.Chmod(path, 0700); err != nil {
		_ = os.RemoveAll(path)
		return nil, fmt.Errorf("failed to restrict working directory: %w", err)
	}
	return &Workdir{path: path}, nil
}

// Path returns the directory's location.
func (w *Workdir) Path() string {
	return w.path
}

// WriteSecret stores material under the working area with owner-only
// permissions. The name must be a bare filename.
func (w *Workdir) WriteSecret(name string, data []byte) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.released {
		return "", fmt.Errorf("working directory already released")
	}
	if filepath.Base(name) != name {
		return "", fmt.Errorf("invalid secret name %q", name)
	}

	dest := filepath.Join(w.path, name)
	if err := os.WriteFile(dest, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return dest, nil
}

// Release removes the working area and everything in it. It is safe to
// call more than once, so callers can both defer it and invoke it from
// signal-driven shutdown paths.
func (w *Workdir) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.released {
		return nil
	}
	w.released = true

	if err := os.RemoveAll(w.path); err != nil {
		return fmt.Errorf("failed to remove working directory: %w", err)
	}
	return nil
}
