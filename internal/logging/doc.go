// Package logger provides leveled logging for Sealbox CLI commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is formatted with colored semantic prefixes. Warnings and
// errors always go to stderr so they never contaminate an envelope or
// plaintext being written to stdout.
//
// # Verbosity Levels
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Without flags, only warnings and errors are shown.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Always shown (recoverable per-key failures)
//	Logger.Errorf()          // Always shown
//	Logger.ErrorfAndReturn() // Logs and returns the error for propagation
//
// # Usage
//
// Create a logger with the desired verbosity:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Warnf("skipping %s: %v", label, err)
//
// Commands create a logger in their PersistentPreRun and pass it to the
// envelope engine. Secret material (session keys, passphrases) must never
// be passed to any log method.
package logger
