package errors

import "errors"

// Configuration errors are reported before any cryptographic work begins.
var (
	// ErrNoRecipients indicates no recipients, groups, or key files were specified.
	ErrNoRecipients = errors.New("no recipients specified")

	// ErrConflictingFlags indicates decrypt was combined with recipient or group selection.
	ErrConflictingFlags = errors.New("recipient and group selection cannot be combined with decrypt")

	// ErrKeyFileUnreadable indicates a key file could not be read.
	ErrKeyFileUnreadable = errors.New("key file could not be read")
)

// Key-material errors are recoverable per key but fatal when a whole batch is empty.
var (
	// ErrNoUsableKeys indicates normalization left no key material for a required identifier.
	ErrNoUsableKeys = errors.New("no usable key material")

	// ErrNoConvertibleKeys indicates an entire batch failed conversion.
	ErrNoConvertibleKeys = errors.New("no valid key could be produced")

	// ErrUnsupportedKey indicates a key uses an algorithm other than RSA.
	ErrUnsupportedKey = errors.New("unsupported key algorithm")

	// ErrMalformedKey indicates key material could not be parsed at all.
	ErrMalformedKey = errors.New("malformed key material")
)

// Format errors indicate the input stream is not a valid envelope.
var (
	// ErrInvalidInput indicates the stream contains no recognizable blocks.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateBlock indicates two blocks share the same name.
	ErrDuplicateBlock = errors.New("duplicate block name")

	// ErrBadBlockName indicates a block name matches no accepted grammar.
	ErrBadBlockName = errors.New("invalid block name")
)

// Compatibility errors indicate the envelope was produced for other tool versions.
var (
	// ErrIncompatibleVersion indicates the producer did not declare this
	// tool's major.minor in its encrypt-for list.
	ErrIncompatibleVersion = errors.New("envelope is not compatible with this version")
)

// Cryptographic errors indicate failures during unwrapping or decryption.
var (
	// ErrNotForThisKey indicates no wrapped key matches the local fingerprint.
	ErrNotForThisKey = errors.New("not encrypted for this key")

	// ErrUnwrapFailed indicates the wrapped session key could not be decrypted.
	ErrUnwrapFailed = errors.New("failed to decrypt session key")

	// ErrDecryptFailed indicates the payload could not be decrypted.
	ErrDecryptFailed = errors.New("failed to decrypt payload")

	// ErrInvalidPrivateKey indicates the private key is malformed or unsupported.
	ErrInvalidPrivateKey = errors.New("invalid or unsupported private key")

	// ErrPassphraseRequired indicates the private key is protected and no
	// passphrase source is available.
	ErrPassphraseRequired = errors.New("private key requires a passphrase")

	// ErrNoTerminal indicates a passphrase was needed but no controlling
	// terminal is attached.
	ErrNoTerminal = errors.New("passphrase prompt requires a controlling terminal")
)
