package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: DOCNAV_SERVER__PORT sets server.port.
const EnvPrefix = "DOCNAV_"

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = ".docnav.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCNAV_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps DOCNAV_SERVER__PORT to server.port. List keys take
// comma-separated values.
func envKey(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	switch key {
	case "include", "exclude":
		return key, splitAndTrim(value)
	}
	return key, value
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[LogLevel]bool{
	LogNone:   true,
	LogNormal: true,
	LogDebug:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DocsDir == "" {
		return fmt.Errorf("docs_dir is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q: must be one of none, normal, debug", c.Log.Level)
	}
	if c.Log.FileLevel != "" && !validLogLevels[c.Log.FileLevel] {
		return fmt.Errorf("invalid log.file_level %q: must be one of none, normal, debug", c.Log.FileLevel)
	}
	return nil
}

// splitAndTrim splits a comma-separated string and drops empty items.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
