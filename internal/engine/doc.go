// Package engine composes the envelope operations from their parts:
// key normalization and conversion, session-key generation, payload
// encryption, per-recipient wrapping, and envelope serialization on the
// encrypt side; fingerprint matching, the version gate, unwrapping, and
// payload decryption on the decrypt side.
//
// The engine is deliberately free of CLI concerns. Commands collect key
// material through the keysource layer, open input and output streams,
// and pass everything in an Options struct; results come back as a
// Result struct plus sentinel errors from internal/errors that the CLI
// maps to user-facing diagnostics.
//
// One operation runs per invocation. Failure anywhere before the final
// serialization step means nothing is written to the output stream; a
// partial envelope is never emitted.
package engine
