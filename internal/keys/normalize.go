package keys

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Algorithm classifies a key's algorithm. Only RSA keys can wrap a
// session key; everything else is carried through normalization so the
// converter can report it, then skipped.
type Algorithm int

const (
	AlgorithmRSA Algorithm = iota
	AlgorithmUnsupported
)

func (a Algorithm) String() string {
	if a == AlgorithmRSA {
		return "rsa"
	}
	return "unsupported"
}

// Record is one normalized key: the canonical key line, its algorithm,
// and the recipient label it was collected under.
type Record struct {
	// Material is the canonical normalized line: key type, base64 key
	// material, and the identifier as in-band comment. Leading options
	// and original comments have been stripped.
	Material string

	// Algorithm is RSA or unsupported.
	Algorithm Algorithm

	// Identifier is the recipient label or filename-derived label.
	Identifier string

	pub         ssh.PublicKey
	fingerprint string
}

// Fingerprint returns the record's canonical fingerprint, computing it on
// first use. Malformed records (which never reach a Record) aside, this
// always succeeds.
func (r *Record) Fingerprint() string {
	if r.fingerprint == "" && r.pub != nil {
		r.fingerprint = Fingerprint(r.pub)
	}
	return r.fingerprint
}

// Normalize parses raw key text into discrete records. Each line may
// carry leading options and a trailing comment in the usual
// authorized_keys shape; only the key-type and key-material tokens are
// kept, and the supplied label is attached as the in-band comment. Lines
// with no recognizable key material are silently dropped.
func Normalize(raw string, label string) []Record {
	var records []Record

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
		if err != nil {
			continue
		}

		alg := AlgorithmUnsupported
		if pub.Type() == ssh.KeyAlgoRSA {
			alg = AlgorithmRSA
		}

		// Re-render without options or the original comment.
		canon := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pub)))
		records = append(records, Record{
			Material:   canon + " " + label,
			Algorithm:  alg,
			Identifier: label,
			pub:        pub,
		})
	}

	return records
}

// NormalizeFile treats one opaque file as key material whose identifier
// derives from its filename.
func NormalizeFile(data []byte, path string) []Record {
	label := strings.TrimSuffix(filepath.Base(path), ".pub")
	return Normalize(string(data), label)
}

// Dedupe merges normalized batches into one deduplicated, sorted set.
// Uniqueness is keyed on the key material itself, so the same key supplied
// under two labels collapses to its first occurrence.
func Dedupe(batches ...[]Record) []Record {
	seen := make(map[string]bool)
	var out []Record

	for _, batch := range batches {
		for _, r := range batch {
			material := materialTokens(r.Material)
			if seen[material] {
				continue
			}
			seen[material] = true
			out = append(out, r)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Material < out[j].Material })
	return out
}

// materialTokens strips the label comment so deduplication compares only
// the key-type and key-material tokens.
func materialTokens(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return line
	}
	return fields[0] + " " + fields[1]
}
