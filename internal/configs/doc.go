// Package configs manages user configuration for sealbox.
//
// Configuration is stored in TOML format at the platform config
// directory (e.g. ~/.config/sealbox/config.toml) and covers:
//
//   - The private key used for decryption
//   - The template used to locate recipient public keys on disk
//   - An optional key directory service URL
//   - The group database used to expand group names
//
// A missing config file yields the built-in defaults, so sealbox works
// without any setup for users whose keys live in the usual places.
package configs
