// Package workdir provides the scoped temporary storage threaded through
// a single encrypt or decrypt operation.
//
// A Workdir is created once per operation by the CLI layer and passed
// explicitly to every component that needs scratch space. Release is
// wired into both the normal defer path and the signal-cancellation
// path, so the directory is removed on every exit, including fatal
// errors and interrupts. Secret material written through WriteSecret is
// always owner-only (0600 files inside a 0700 directory).
package workdir
