// Package ui provides semantic terminal formatting for Sealbox output.
//
// Formatters pair a color with a plain-text fallback so output stays
// readable when colors are disabled (NO_COLOR, dumb terminals, piped
// output). Use the semantic formatter matching what the text represents,
// not the color you want:
//
//	ui.Path.Sprint("/home/alice/.ssh/id_rsa.pub")
//	ui.Highlight.Sprint(fingerprint)
//	ui.Code.Sprint("sealbox decrypt")
//
// All user-facing status output goes to stderr or a spinner final message;
// stdout is reserved for envelope and plaintext bytes.
package ui
