// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

// package config loads and persists the Liblift configuration. Precedence
// is flags > environment > config file > defaults, handled by viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the top-level application configuration.
type Config struct {
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`
	Language string `mapstructure:"language" yaml:"language"`
	// ScratchRoot is the process-scoped directory under which per-application
	// scratch directories are created during extraction.
	ScratchRoot string `mapstructure:"scratch_root" yaml:"scratch_root"`
	// LibrarySuffixes are the file-name suffixes classified as dynamic
	// libraries (matched case-insensitively).
	LibrarySuffixes []string `mapstructure:"library_suffixes" yaml:"library_suffixes"`
	Debug           bool     `mapstructure:"debug" yaml:"debug"`
}

// DefaultScratchRoot returns the default staging area, under the user cache
// directory when available.
func DefaultScratchRoot() string {
	if cacheDir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheDir, "liblift", "staging")
	}
	return filepath.Join(os.TempDir(), "liblift-staging")
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		// System-wide configuration paths
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Liblift")
		default: // Linux, macOS, etc.
			configDir = "/etc/liblift"
		}
	} else {
		// User-specific configuration paths
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "liblift")
	}

	return filepath.Join(configDir, "liblift.yaml"), nil
}

// LoadConfig assembles the configuration for a command invocation. Defaults
// are applied first, then config file, environment (LIBLIFT_*), and finally
// the command's flags.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("liblift")
	v.SetConfigType("yaml")

	// An explicit --config path has the highest precedence for file-based
	// configuration.
	if additionalConfigFilePath != nil {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".") // Look for liblift.yaml in current dir

	// A missing config file is not fatal: the config is still assembled from
	// defaults, environment, and flags, and the not-found error is returned
	// alongside it so callers can decide to write a default file.
	var readErr error
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
		readErr = err
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("liblift")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, readErr
}

// WriteConfigFile persists the configuration as YAML to the user (or system)
// config path, creating the directory if needed.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}

	return nil
}
