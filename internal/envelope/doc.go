// Package envelope implements the ASCII-safe container format for
// encrypted messages.
//
// An envelope is a sequence of named blocks, each delimited by a
// begin/end marker pair:
//
//	begin-base64 644 <name>
//	<base64 body>
//	====
//
// The first block is always the encrypted payload, named by the input's
// base filename (or "message" for standard input). It is followed by one
// block per recipient, named by that recipient's key fingerprint and
// containing the RSA-wrapped session key, and by a version block under
// the reserved name "sealbox.version" carrying the producer's
// compatibility manifest.
//
// The format carries no length prefixes; the decoder recognizes blocks
// in stream order and tolerates unrelated bytes between them. Because
// marker text could also appear inside an adversarial payload, every
// block name is validated against a closed grammar (hex fingerprint,
// reserved version name, or filename token) and duplicate names are
// rejected as a format error. The version block is identified by name,
// never by position; wrapped-key blocks may appear in any order.
//
// The mode field in the begin marker is a legacy artifact of the wire
// format. It is carried through unchanged and never interpreted.
package envelope
