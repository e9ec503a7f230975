package envelope

import (
	"regexp"

	"github.com/sealbox/sealbox/internal/version"
)

// Block is one named segment of an envelope: the encrypted payload, one
// wrapped session key per recipient, or the version manifest.
type Block struct {
	// Name identifies the block: the payload's base filename, a recipient
	// key fingerprint, or the reserved version-block name.
	Name string

	// Mode is the legacy permission field carried in the begin marker.
	// It is preserved on read but never interpreted.
	Mode string

	// Data is the decoded block body.
	Data []byte
}

// DefaultPayloadName names the payload block when the input has no
// filename (standard input).
const DefaultPayloadName = "message"

// legacyMode is the permission field written into every begin marker.
const legacyMode = "644"

// Block names are validated against a closed grammar so that marker text
// embedded in adversarial payloads cannot smuggle ambiguous blocks past
// the decoder.
var (
	fingerprintPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)
	filenamePattern    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+-]{0,254}$`)
)

// IsFingerprintName reports whether name matches the hex fingerprint grammar.
func IsFingerprintName(name string) bool {
	return fingerprintPattern.MatchString(name)
}

// IsPayloadName reports whether name is acceptable for a payload block:
// a filename token that cannot be confused with a fingerprint or the
// version block.
func IsPayloadName(name string) bool {
	if name == version.BlockName || IsFingerprintName(name) {
		return false
	}
	return filenamePattern.MatchString(name)
}

// isKnownName reports whether name matches any accepted block grammar.
func isKnownName(name string) bool {
	return name == version.BlockName || IsFingerprintName(name) || filenamePattern.MatchString(name)
}
