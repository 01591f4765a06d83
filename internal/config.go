package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultFilenameFormat is the Go time layout used for destination names:
// ISO 8601 with a numeric zone offset.
const DefaultFilenameFormat = "2006-01-02T15:04:05-0700"

type Config struct {
	ExtensionMap   map[string]string `mapstructure:"extension_map"`
	ExtensionCI    bool              `mapstructure:"extension_ci"`
	FilenameFormat string            `mapstructure:"filename_format"`
	Backend        string            `mapstructure:"backend"`
}

// LoadConfig reads the JSON configuration from path. With no explicit path
// it falls back to the per-user config file and then to built-in defaults;
// a missing per-user file is fine, an unreadable or malformed one is not.
func LoadConfig(path string) (Config, error) {
	// Extension keys contain dots, keep them out of viper's key paths.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigType("json")

	// Set defaults:
	v.SetDefault("extension_map", map[string]string{".jpg": ".jpg", ".jpeg": ".jpg"})
	v.SetDefault("extension_ci", true)
	v.SetDefault("filename_format", DefaultFilenameFormat)
	v.SetDefault("backend", BackendExiv2)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if configDir, err := os.UserConfigDir(); err == nil {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(configDir, "exifname"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("failed to read config: %w", err)
			}
			// No per-user config file; that's OK, just use defaults.
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return conf, nil
}

// MapExtension resolves a source extension against the configured mapping.
func (c Config) MapExtension(ext string) (string, bool) {
	if c.ExtensionCI {
		ext = strings.ToLower(ext)
	}
	mapped, ok := c.ExtensionMap[ext]
	return mapped, ok
}
