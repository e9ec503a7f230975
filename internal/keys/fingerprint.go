package keys

import (
	"crypto/md5" // #nosec G501 -- fingerprints identify keys, they are not a security boundary
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/ssh"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

// Fingerprint computes the canonical fingerprint of a public key: the
// lowercase hex MD5 digest of its SSH wire form. The same key material
// always yields the same string, whether it came from a stored public key
// or was derived from a private key; decrypt-side matching depends on
// this.
func Fingerprint(pub ssh.PublicKey) string {
	sum := md5.Sum(pub.Marshal()) // #nosec G401
	return hex.EncodeToString(sum[:])
}

// PromptFunc reads a passphrase out-of-band. Implementations must read
// from a controlling terminal, never from a redirected stream.
type PromptFunc func(hint string) ([]byte, error)

// PrivateKeyStatus distinguishes the outcomes of loading a private key,
// so callers can react precisely instead of pattern-matching on an empty
// fingerprint.
type PrivateKeyStatus int

const (
	// PrivateKeyOK means the key parsed and its fingerprint was derived.
	PrivateKeyOK PrivateKeyStatus = iota

	// PrivateKeyMalformed means the material is not a parsable key.
	PrivateKeyMalformed

	// PrivateKeyUnsupported means the key parsed but is not RSA.
	PrivateKeyUnsupported

	// PrivateKeyNeedsPassphrase means the key is encrypted and no
	// passphrase could be obtained (no prompt, or no terminal).
	PrivateKeyNeedsPassphrase

	// PrivateKeyDerivationFailed means decryption of the key failed,
	// most often a wrong passphrase.
	PrivateKeyDerivationFailed
)

// PrivateKeyResult is the explicit multi-outcome result of LoadPrivate.
type PrivateKeyResult struct {
	Status      PrivateKeyStatus
	Key         *rsa.PrivateKey
	Fingerprint string
	Err         error
}

// LoadPrivate parses private key material (PEM PKCS#1, PKCS#8, or OpenSSH
// format) and derives the corresponding public fingerprint. When the key
// is passphrase-protected, prompt is invoked interactively; a nil prompt
// reports PrivateKeyNeedsPassphrase.
func LoadPrivate(material []byte, prompt PromptFunc) PrivateKeyResult {
	parsed, err := ssh.ParseRawPrivateKey(material)

	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		if prompt == nil {
			return PrivateKeyResult{Status: PrivateKeyNeedsPassphrase, Err: serrors.ErrPassphraseRequired}
		}
		pass, perr := prompt("private key")
		if perr != nil {
			return PrivateKeyResult{Status: PrivateKeyNeedsPassphrase, Err: perr}
		}
		parsed, err = ssh.ParseRawPrivateKeyWithPassphrase(material, pass)
		if err != nil {
			return PrivateKeyResult{
				Status: PrivateKeyDerivationFailed,
				Err:    fmt.Errorf("%w: %v", serrors.ErrInvalidPrivateKey, err),
			}
		}
	} else if err != nil {
		return PrivateKeyResult{
			Status: PrivateKeyMalformed,
			Err:    fmt.Errorf("%w: %v", serrors.ErrInvalidPrivateKey, err),
		}
	}

	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return PrivateKeyResult{
			Status: PrivateKeyUnsupported,
			Err:    fmt.Errorf("%w: %T", serrors.ErrInvalidPrivateKey, parsed),
		}
	}

	sshPub, err := ssh.NewPublicKey(rsaKey.Public())
	if err != nil {
		return PrivateKeyResult{
			Status: PrivateKeyDerivationFailed,
			Err:    fmt.Errorf("%w: deriving public key: %v", serrors.ErrInvalidPrivateKey, err),
		}
	}

	return PrivateKeyResult{
		Status:      PrivateKeyOK,
		Key:         rsaKey,
		Fingerprint: Fingerprint(sshPub),
	}
}
