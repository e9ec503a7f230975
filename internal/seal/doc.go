// Package seal provides the cryptographic core of the envelope engine:
// session-key management, the symmetric payload cipher, and asymmetric
// session-key wrapping.
//
// # Hybrid scheme
//
// Each encryption operation generates one random 256-bit session key.
// The payload is encrypted once under that key with AES-256-CBC (key and
// IV derived via PBKDF2-SHA256 from the key's base64 form and a random
// per-envelope salt). The raw session key is then wrapped separately for
// every recipient with RSA PKCS#1 v1.5, so any one recipient can recover
// it with their own private key.
//
// # Session key lifetime
//
// The session key exists only for the duration of one operation. Its
// sole on-disk copy, if any, lives in the operation's scoped working
// directory with owner-only permissions and is removed with it; Destroy
// zeroes the in-memory material. Session keys are never logged and never
// reused across operations.
package seal
