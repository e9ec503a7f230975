package seal

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	serrors "github.com/sealbox/sealbox/internal/errors"
	"github.com/sealbox/sealbox/internal/workdir"
)

// SessionKeySize is the raw session key length: 32 bytes, AES-256.
const SessionKeySize = 32

// SessionKey is the single-use symmetric key of one encryption operation.
// Exactly one instance exists per encrypt invocation; it lives only for
// the operation and is zeroed afterwards.
type SessionKey struct {
	raw     []byte
	encoded string
}

// NewSessionKey generates a fresh random session key.
func NewSessionKey() (*SessionKey, error) {
	raw := make([]byte, SessionKeySize)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	return &SessionKey{raw: raw, encoded: base64.StdEncoding.EncodeToString(raw)}, nil
}

// SessionKeyFromRaw reconstructs a session key recovered from a wrapped
// block at decryption time.
func SessionKeyFromRaw(raw []byte) (*SessionKey, error) {
	if len(raw) != SessionKeySize {
		return nil, fmt.Errorf("%w: session key is %d bytes, want %d",
			serrors.ErrUnwrapFailed, len(raw), SessionKeySize)
	}
	cp := make([]byte, SessionKeySize)
	copy(cp, raw)
	return &SessionKey{raw: cp, encoded: base64.StdEncoding.EncodeToString(cp)}, nil
}

// Raw returns the raw key bytes. The slice is owned by the SessionKey and
// becomes invalid after Destroy.
func (k *SessionKey) Raw() []byte {
	return k.raw
}

// Encoded returns the base64 form of the key. The payload cipher derives
// its key material from this form.
func (k *SessionKey) Encoded() string {
	return k.encoded
}

// Stash writes the encoded key into the operation's working area, owner
// readable only. The copy disappears with the workdir.
func (k *SessionKey) Stash(w *workdir.Workdir) error {
	if _, err := w.WriteSecret("session.key", []byte(k.encoded)); err != nil {
		return fmt.Errorf("failed to stash session key: %w", err)
	}
	return nil
}

// Destroy zeroes the raw key material. The key is unusable afterwards.
func (k *SessionKey) Destroy() {
	for i := range k.raw {
		k.raw[i] = 0
	}
	k.raw = k.raw[:0]
	k.encoded = ""
}
