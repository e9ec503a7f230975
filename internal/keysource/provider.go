package keysource

import (
	"context"
	"strings"
)

// Provider supplies raw public-key text for a recipient identifier. The
// envelope engine treats the result as an opaque multi-line text: zero
// lines means the identifier has no keys, which the engine escalates
// when the identifier was required.
type Provider interface {
	Lookup(ctx context.Context, identifier string) (string, error)
}

// Material pairs a recipient label with the raw key text collected for it.
type Material struct {
	Label string
	Text  string
}

// Chain queries providers in order and returns the first non-empty
// result, so a local file source can shadow a directory service.
type Chain []Provider

func (c Chain) Lookup(ctx context.Context, identifier string) (string, error) {
	var lastErr error
	for _, p := range c {
		text, err := p.Lookup(ctx, identifier)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	return "", lastErr
}
