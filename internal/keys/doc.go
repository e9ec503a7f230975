// Package keys normalizes raw recipient key material, converts it to the
// representation RSA wrapping needs, and computes canonical fingerprints.
//
// # Normalization
//
// Raw text arrives one key per line in the usual authorized_keys shape,
// possibly with leading options and a trailing comment. Normalization
// keeps only the key-type and key-material tokens, attaches the recipient
// label as the in-band comment, silently drops unparsable lines, and
// deduplicates across sources by key material.
//
// # Fingerprints
//
// A fingerprint is the lowercase hex MD5 of the key's SSH wire form. It
// names the wrapped-key block for a recipient at encryption time and is
// the join key for locating that block at decryption time, so it must be
// computed identically from a stored public key and from the public half
// derived out of a private key.
//
// # Private keys
//
// LoadPrivate returns an explicit result type instead of an empty-string
// sentinel: malformed material, an unsupported algorithm, a missing
// passphrase, and a failed derivation are distinct outcomes. Encrypted
// keys trigger an interactive passphrase prompt bound to the controlling
// terminal; the prompt cannot be fed through redirected input.
package keys
