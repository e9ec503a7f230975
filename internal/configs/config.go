package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	Keys      KeysConfig      `toml:"keys"`
	Directory DirectoryConfig `toml:"directory"`
	Groups    GroupsConfig    `toml:"groups"`
}

type KeysConfig struct {
	// PrivateKeyPath is the private key used for decryption.
	PrivateKeyPath string `toml:"private_key"`

	// RecipientTemplate locates a recipient's public key by name. The
	// {user} placeholder is replaced with the recipient identifier, and
	// the result may contain glob patterns.
	RecipientTemplate string `toml:"recipient_template"`
}

type DirectoryConfig struct {
	// URL is the base URL of a key directory service. Empty disables
	// directory lookups.
	URL string `toml:"url"`
}

type GroupsConfig struct {
	// File is a group database in /etc/group format used to expand
	// group names into member identifiers.
	File string `toml:"file"`
}

// ConfigPath returns the path of the user configuration file.
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(configDir, "sealbox", "config.toml"), nil
}

// Load reads the user configuration, filling in defaults for anything
// the file does not set. A missing file is not an error.
func Load() (*Config, error) {
	config := defaults()

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyDefaults(config)
	return config, nil
}

// Save writes the configuration back to the user config file.
func Save(config *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(path, config)
}

func defaults() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

func applyDefaults(config *Config) {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	if config.Keys.PrivateKeyPath == "" {
		config.Keys.PrivateKeyPath = filepath.Join(home, ".ssh", "id_rsa")
	}
	if config.Keys.RecipientTemplate == "" {
		config.Keys.RecipientTemplate = filepath.Join(home, ".sealbox", "recipients", "{user}*.pub")
	}
	if config.Groups.File == "" {
		config.Groups.File = "/etc/group"
	}
}
