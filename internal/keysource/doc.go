// Package keysource acquires recipient public-key material for the
// envelope engine.
//
// The engine only consumes the Provider interface: identifier in, raw
// multi-line key text out. Three sources implement it:
//
//   - FileProvider: local files, with a {user} placeholder and glob
//     patterns (doublestar, including **)
//   - DirectoryProvider: an HTTP directory service serving
//     <base>/<user>.keys, with retries for transient failures
//   - GroupProvider: OS group expansion, delegating per member to
//     another provider
//
// Chain composes providers so local files shadow the directory service.
// ReadKeyFiles handles explicitly named key files from the command line,
// which are required and therefore fail loudly instead of returning
// zero keys.
package keysource
