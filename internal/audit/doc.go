// Package audit provides audit trail logging for sealbox operations.
//
// Every encrypt and decrypt is recorded in a per-user audit log so that
// key usage can be reviewed after the fact.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	$XDG_STATE_HOME/sealbox/audit.jsonl
//
// falling back to ~/.local/state when XDG_STATE_HOME is unset. Each
// entry contains a timestamp, the local username, the operation name,
// and operation-specific details such as recipient count or the
// fingerprint that matched during decryption.
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk
// full, etc.), the operation continues without error.
package audit
