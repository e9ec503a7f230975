package keys

import (
	"crypto/rsa"
	"fmt"

	"golang.org/x/crypto/ssh"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

// Converted is a key in the representation the wrapping step needs:
// the owning record's fingerprint plus the parsed RSA public key.
type Converted struct {
	Fingerprint string
	Identifier  string
	Key         *rsa.PublicKey
}

// Skip records one key excluded from a batch, with the reason.
type Skip struct {
	Identifier string
	Reason     error
}

// Convert transforms one normalized record into its encryption form.
// Unsupported algorithms and conversion failures return an error; the
// caller decides whether that is recoverable.
func Convert(r *Record) (*Converted, error) {
	if r.Algorithm != AlgorithmRSA {
		return nil, fmt.Errorf("%w: %s key for %s", serrors.ErrUnsupportedKey, r.pub.Type(), r.Identifier)
	}

	ck, ok := r.pub.(ssh.CryptoPublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: key for %s has no crypto form", serrors.ErrMalformedKey, r.Identifier)
	}
	rsaPub, ok := ck.CryptoPublicKey().(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: key for %s is not RSA", serrors.ErrMalformedKey, r.Identifier)
	}

	return &Converted{
		Fingerprint: r.Fingerprint(),
		Identifier:  r.Identifier,
		Key:         rsaPub,
	}, nil
}

// ConvertBatch converts every record it can, collecting per-key failures
// as skips instead of aborting. A batch that yields nothing at all is
// fatal for the operation.
func ConvertBatch(records []Record) ([]Converted, []Skip, error) {
	var converted []Converted
	var skipped []Skip

	for i := range records {
		c, err := Convert(&records[i])
		if err != nil {
			skipped = append(skipped, Skip{Identifier: records[i].Identifier, Reason: err})
			continue
		}
		converted = append(converted, *c)
	}

	if len(converted) == 0 {
		return nil, skipped, serrors.ErrNoConvertibleKeys
	}
	return converted, skipped, nil
}
