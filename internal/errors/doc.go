// Package errors provides typed error values for the Sealbox application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors follow the failure taxonomy of the envelope engine:
//
//   - Configuration errors: rejected before any cryptographic work
//     (ErrNoRecipients, ErrConflictingFlags)
//   - Key-material errors: recoverable per key, fatal when a batch is
//     empty (ErrNoUsableKeys, ErrNoConvertibleKeys)
//   - Format errors: the input stream is not a valid envelope
//     (ErrInvalidInput, ErrDuplicateBlock)
//   - Compatibility errors: version gate failures (ErrIncompatibleVersion)
//   - Cryptographic errors: unwrap or decrypt failures (ErrNotForThisKey,
//     ErrUnwrapFailed)
//
// # Usage
//
// Return errors from internal packages:
//
//	if len(records) == 0 {
//	    return nil, errors.ErrNoUsableKeys
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := engine.Decrypt(ctx, opts)
//	if errors.Is(err, serrors.ErrNotForThisKey) {
//	    // Show user-friendly message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading key for %s: %w", label, errors.ErrKeyFileUnreadable)
package errors
