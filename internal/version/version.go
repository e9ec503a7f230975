package version

import (
	"fmt"
	"strings"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

// Current is the producer version embedded in every envelope this tool emits.
const Current = "2.1.0"

// BlockName is the reserved name of the envelope's version block. It is
// chosen to match the filename-token grammar while being impossible to
// confuse with a hex fingerprint.
const BlockName = "sealbox.version"

// Compatibility declarations for Current. Only the major.minor component
// of each token participates in the gate; patch releases never change the
// wire format.
var (
	// EncryptFor lists the versions whose decryptors can open envelopes
	// produced by Current.
	EncryptFor = []string{"2.0", "2.1"}

	// DecryptFrom lists the producer versions whose envelopes Current can
	// open. It is embedded for diagnosis but never consulted by the gate;
	// the deployed corpus of producers only ever declared EncryptFor, and
	// checking both sides would reject envelopes that interoperate today.
	DecryptFrom = []string{"1.9", "2.0", "2.1"}
)

// Manifest is the version block of one envelope: the producer's version and
// its declared compatibility lists.
type Manifest struct {
	Producer    string
	EncryptFor  []string
	DecryptFrom []string
}

// CurrentManifest returns the manifest this tool embeds at encryption time.
func CurrentManifest() Manifest {
	return Manifest{
		Producer:    Current,
		EncryptFor:  EncryptFor,
		DecryptFrom: DecryptFrom,
	}
}

// Encode renders the manifest as the three-line textual form carried in the
// version block: producer version, encrypt-for list, decrypt-from list.
func (m Manifest) Encode() []byte {
	var b strings.Builder
	b.WriteString(m.Producer)
	b.WriteString("\n")
	b.WriteString(strings.Join(m.EncryptFor, " "))
	b.WriteString("\n")
	b.WriteString(strings.Join(m.DecryptFrom, " "))
	b.WriteString("\n")
	return []byte(b.String())
}

// Parse reads the three-line textual form back into a Manifest.
func Parse(data []byte) (Manifest, error) {
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) < 3 {
		return Manifest{}, fmt.Errorf("version block has %d lines, want 3", len(lines))
	}

	producer := strings.TrimSpace(lines[0])
	if producer == "" {
		return Manifest{}, fmt.Errorf("version block has empty producer version")
	}

	return Manifest{
		Producer:    producer,
		EncryptFor:  strings.Fields(lines[1]),
		DecryptFrom: strings.Fields(lines[2]),
	}, nil
}

// String renders the manifest for diagnostics when the gate rejects an
// envelope.
func (m Manifest) String() string {
	return fmt.Sprintf("produced by %s (encrypt-for: %s; decrypt-from: %s)",
		m.Producer,
		strings.Join(m.EncryptFor, " "),
		strings.Join(m.DecryptFrom, " "))
}

// MajorMinor reduces a version token to its major.minor component. Tokens
// that already carry only two components pass through unchanged.
func MajorMinor(v string) string {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) < 2 {
		return v
	}
	return parts[0] + "." + parts[1]
}

// Check enforces the compatibility gate on a decoded manifest.
//
// A nil manifest means the envelope predates version blocks; the check is
// skipped and decryption proceeds optimistically. Expert mode bypasses the
// gate entirely, as a user-opt-in risk acknowledgment. Otherwise the gate
// passes iff this tool's major.minor appears in the manifest's EncryptFor
// set.
func Check(m *Manifest, expert bool) error {
	if m == nil || expert {
		return nil
	}

	ours := MajorMinor(Current)
	for _, v := range m.EncryptFor {
		if MajorMinor(v) == ours {
			return nil
		}
	}

	return fmt.Errorf("%w: this tool is %s, envelope %s",
		serrors.ErrIncompatibleVersion, Current, m.String())
}
