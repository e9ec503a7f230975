package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/sealbox/sealbox/internal/envelope"
	serrors "github.com/sealbox/sealbox/internal/errors"
	"github.com/sealbox/sealbox/internal/keys"
	logger "github.com/sealbox/sealbox/internal/logging"
	"github.com/sealbox/sealbox/internal/seal"
	"github.com/sealbox/sealbox/internal/version"
)

// DecryptOptions configures one decryption operation.
type DecryptOptions struct {
	// PrivateKey is the caller's private key material.
	PrivateKey []byte

	// Prompt reads the key's passphrase when the material is encrypted.
	// Nil disables derivation; protected keys then fail.
	Prompt keys.PromptFunc

	// Input supplies the envelope stream; Output receives plaintext.
	Input  io.Reader
	Output io.Writer

	// Expert bypasses the version compatibility gate.
	Expert bool

	// Logger reports diagnostics.
	Logger logger.Logger
}

// DecryptResult describes a completed decryption.
type DecryptResult struct {
	// Fingerprint is the local key's fingerprint that matched a
	// wrapped-key block.
	Fingerprint string

	// Producer is the envelope's producer version, empty for legacy
	// envelopes without a version block.
	Producer string

	// PayloadName is the payload block's name.
	PayloadName string
}

// Decrypt runs the decryption operation: derive the local fingerprint,
// deserialize the envelope, enforce the version gate, locate the
// wrapped-key block matching the fingerprint, unwrap the session key,
// and decrypt the payload.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	loaded := keys.LoadPrivate(opts.PrivateKey, opts.Prompt)
	if loaded.Status != keys.PrivateKeyOK {
		return nil, loaded.Err
	}
	opts.Logger.Debugf("local key fingerprint: %s", loaded.Fingerprint)

	env, err := envelope.Read(opts.Input)
	if err != nil {
		return nil, err
	}

	if env.Manifest == nil {
		opts.Logger.Debugf("envelope carries no version block; proceeding optimistically")
	}
	if err := version.Check(env.Manifest, opts.Expert); err != nil {
		return nil, err
	}
	if opts.Expert && env.Manifest != nil {
		opts.Logger.Warnf("expert mode: version compatibility not checked (envelope %s)", env.Manifest)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var match *envelope.Block
	for i := range env.Wrapped {
		if env.Wrapped[i].Name == loaded.Fingerprint {
			match = &env.Wrapped[i]
			break
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w (local fingerprint %s, envelope carries %d recipient keys)",
			serrors.ErrNotForThisKey, loaded.Fingerprint, len(env.Wrapped))
	}

	sessionKey, err := seal.Unwrap(loaded.Key, match.Data)
	if err != nil {
		return nil, fmt.Errorf("%w; verify the passphrase and that this private key matches fingerprint %s",
			err, loaded.Fingerprint)
	}
	defer sessionKey.Destroy()

	plaintext, err := seal.DecryptPayload(sessionKey, env.Payload.Data)
	if err != nil {
		return nil, err
	}
	if _, err := opts.Output.Write(plaintext); err != nil {
		return nil, fmt.Errorf("failed to write plaintext: %w", err)
	}

	result := &DecryptResult{
		Fingerprint: loaded.Fingerprint,
		PayloadName: env.Payload.Name,
	}
	if env.Manifest != nil {
		result.Producer = env.Manifest.Producer
	}
	return result, nil
}
