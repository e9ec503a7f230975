package envelope

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	serrors "github.com/sealbox/sealbox/internal/errors"
	"github.com/sealbox/sealbox/internal/version"
)

// Envelope is the deserialized container: payload block first, one wrapped
// session key per recipient, and the producer's version manifest.
type Envelope struct {
	Payload  Block
	Wrapped  []Block
	Manifest *version.Manifest // nil when the input predates version blocks
}

// beginMarker opens a block; endMarker closes it. The body between them is
// base64, making the whole container safe for text transports.
const (
	beginMarker = "begin-base64"
	endMarker   = "===="

	bodyLineWidth = 64
)

// Write serializes the envelope: payload block, then wrapped-key blocks,
// then the version block. Order among wrapped-key blocks is insignificant
// by contract; they are written in slice order.
func Write(w io.Writer, env *Envelope) error {
	if !IsPayloadName(env.Payload.Name) {
		return fmt.Errorf("%w: payload name %q", serrors.ErrBadBlockName, env.Payload.Name)
	}

	if err := writeBlock(w, env.Payload); err != nil {
		return err
	}

	for _, wk := range env.Wrapped {
		if !IsFingerprintName(wk.Name) {
			return fmt.Errorf("%w: wrapped-key name %q", serrors.ErrBadBlockName, wk.Name)
		}
		if err := writeBlock(w, wk); err != nil {
			return err
		}
	}

	if env.Manifest == nil {
		return fmt.Errorf("envelope has no version manifest")
	}
	return writeBlock(w, Block{Name: version.BlockName, Data: env.Manifest.Encode()})
}

func writeBlock(w io.Writer, b Block) error {
	mode := b.Mode
	if mode == "" {
		mode = legacyMode
	}

	if _, err := fmt.Fprintf(w, "%s %s %s\n", beginMarker, mode, b.Name); err != nil {
		return fmt.Errorf("writing block %s: %w", b.Name, err)
	}

	encoded := base64.StdEncoding.EncodeToString(b.Data)
	for len(encoded) > 0 {
		n := bodyLineWidth
		if n > len(encoded) {
			n = len(encoded)
		}
		if _, err := fmt.Fprintln(w, encoded[:n]); err != nil {
			return fmt.Errorf("writing block %s: %w", b.Name, err)
		}
		encoded = encoded[n:]
	}

	if _, err := fmt.Fprintln(w, endMarker); err != nil {
		return fmt.Errorf("writing block %s: %w", b.Name, err)
	}
	return nil
}

// Read deserializes an envelope from a byte stream with no length prefixes.
// Bytes outside begin/end markers are tolerated and skipped; everything
// else is validated strictly: block names must match an accepted grammar,
// duplicates are rejected, the payload block must come first, and the
// version block is identified by its reserved name, never by position.
func Read(r io.Reader) (*Envelope, error) {
	blocks, err := parseBlocks(r)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, serrors.ErrInvalidInput
	}
	return split(blocks)
}

func parseBlocks(r io.Reader) ([]Block, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var blocks []Block
	var current *Block
	var body strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		if current == nil {
			if !strings.HasPrefix(line, beginMarker+" ") {
				// Not a marker; garbage between blocks is tolerated.
				continue
			}
			fields := strings.Fields(line)
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: malformed begin marker", serrors.ErrBadBlockName)
			}
			if !isKnownName(fields[2]) {
				return nil, fmt.Errorf("%w: %q", serrors.ErrBadBlockName, fields[2])
			}
			current = &Block{Mode: fields[1], Name: fields[2]}
			body.Reset()
			continue
		}

		if strings.TrimRight(line, " \t") == endMarker {
			data, err := base64.StdEncoding.DecodeString(body.String())
			if err != nil {
				return nil, fmt.Errorf("%w: block %s: %v", serrors.ErrInvalidInput, current.Name, err)
			}
			current.Data = data
			blocks = append(blocks, *current)
			current = nil
			continue
		}

		body.WriteString(strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading envelope: %w", err)
	}
	if current != nil {
		return nil, fmt.Errorf("%w: unterminated block %s", serrors.ErrInvalidInput, current.Name)
	}

	return blocks, nil
}

// split partitions raw blocks into payload, wrapped keys, and manifest.
func split(blocks []Block) (*Envelope, error) {
	seen := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		if seen[b.Name] {
			return nil, fmt.Errorf("%w: %q", serrors.ErrDuplicateBlock, b.Name)
		}
		seen[b.Name] = true
	}

	if !IsPayloadName(blocks[0].Name) {
		return nil, fmt.Errorf("%w: first block %q is not a payload block", serrors.ErrInvalidInput, blocks[0].Name)
	}

	env := &Envelope{Payload: blocks[0]}
	for _, b := range blocks[1:] {
		switch {
		case b.Name == version.BlockName:
			m, err := version.Parse(b.Data)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", serrors.ErrInvalidInput, err)
			}
			env.Manifest = &m
		case IsFingerprintName(b.Name):
			env.Wrapped = append(env.Wrapped, b)
		default:
			// A second filename-token block has no place in an envelope.
			return nil, fmt.Errorf("%w: unexpected block %q", serrors.ErrBadBlockName, b.Name)
		}
	}

	return env, nil
}
