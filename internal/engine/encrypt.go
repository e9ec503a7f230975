package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/sealbox/sealbox/internal/envelope"
	serrors "github.com/sealbox/sealbox/internal/errors"
	"github.com/sealbox/sealbox/internal/keys"
	"github.com/sealbox/sealbox/internal/keysource"
	logger "github.com/sealbox/sealbox/internal/logging"
	"github.com/sealbox/sealbox/internal/seal"
	"github.com/sealbox/sealbox/internal/version"
	"github.com/sealbox/sealbox/internal/workdir"
)

// EncryptOptions configures one encryption operation.
type EncryptOptions struct {
	// Keys holds the raw key material collected per recipient by the
	// key-source layer. Every entry is required: an entry that
	// normalizes to nothing fails the operation.
	Keys []keysource.Material

	// Input supplies the payload; InputName is its base filename, or
	// empty for unnamed input (standard input).
	Input     io.Reader
	InputName string

	// Output receives the serialized envelope.
	Output io.Writer

	// Work is the operation's scoped storage.
	Work *workdir.Workdir

	// Logger reports recoverable per-key failures.
	Logger logger.Logger
}

// EncryptResult describes a completed encryption.
type EncryptResult struct {
	// Recipients lists the fingerprints the session key was wrapped for.
	Recipients []string

	// Skipped lists identifiers whose keys were excluded with a warning.
	Skipped []string

	// PayloadName is the name given to the payload block.
	PayloadName string
}

// Encrypt runs the encryption operation: normalize and convert the
// recipient set, generate a session key, encrypt the payload once, wrap
// the session key for every recipient, and emit the envelope.
//
// Nothing is written to Output until every wrap has succeeded; an
// envelope missing any recipient's wrapped key is never emitted.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	batches := make([][]keys.Record, 0, len(opts.Keys))
	for _, m := range opts.Keys {
		batch := keys.Normalize(m.Text, m.Label)
		if len(batch) == 0 {
			return nil, fmt.Errorf("%w for %s", serrors.ErrNoUsableKeys, m.Label)
		}
		batches = append(batches, batch)
	}

	records := keys.Dedupe(batches...)
	if len(records) == 0 {
		return nil, serrors.ErrNoUsableKeys
	}

	converted, skipped, err := keys.ConvertBatch(records)
	for _, s := range skipped {
		opts.Logger.Warnf("skipping key for %s: %v", s.Identifier, s.Reason)
	}
	if err != nil {
		return nil, err
	}

	sessionKey, err := seal.NewSessionKey()
	if err != nil {
		return nil, err
	}
	defer sessionKey.Destroy()

	if opts.Work != nil {
		if err := sessionKey.Stash(opts.Work); err != nil {
			return nil, err
		}
	}

	plaintext, err := io.ReadAll(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	payloadName := payloadBlockName(opts.InputName)
	payload, err := seal.EncryptPayload(sessionKey, plaintext)
	if err != nil {
		return nil, err
	}

	// Per-recipient wrapping has no ordering dependency; run it in
	// parallel. Blocks keep recipient input order so output stays
	// deterministic, which the unordered-by-contract format permits.
	wrapped := make([]envelope.Block, len(converted))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range converted {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ct, err := seal.Wrap(c.Key, sessionKey)
			if err != nil {
				return fmt.Errorf("failed to wrap session key for %s: %w", c.Identifier, err)
			}
			wrapped[i] = envelope.Block{Name: c.Fingerprint, Data: ct}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	manifest := version.CurrentManifest()
	env := &envelope.Envelope{
		Payload:  envelope.Block{Name: payloadName, Data: payload},
		Wrapped:  wrapped,
		Manifest: &manifest,
	}
	if err := envelope.Write(opts.Output, env); err != nil {
		return nil, err
	}

	result := &EncryptResult{PayloadName: payloadName}
	for _, c := range converted {
		result.Recipients = append(result.Recipients, c.Fingerprint)
	}
	for _, s := range skipped {
		result.Skipped = append(result.Skipped, s.Identifier)
	}
	return result, nil
}

func payloadBlockName(inputName string) string {
	if inputName == "" {
		return envelope.DefaultPayloadName
	}
	name := filepath.Base(inputName)
	if !envelope.IsPayloadName(name) {
		return envelope.DefaultPayloadName
	}
	return name
}
