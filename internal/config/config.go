// Package config provides client configuration loading and path management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/tidwall/jsonc"
)

// Config holds the client settings.
type Config struct {
	// Server is the base URL of the agent server.
	Server string `json:"server,omitempty"`
	// Directory is the project directory the client operates on.
	Directory string `json:"directory,omitempty"`
	// LogLevel is the minimum log level (DEBUG|INFO|WARN|ERROR|FATAL).
	LogLevel string `json:"logLevel,omitempty"`
	// PrettyLogs enables human-readable console output.
	PrettyLogs bool `json:"prettyLogs,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server:   "http://localhost:4096",
		LogLevel: "INFO",
	}
}

// Load loads configuration from multiple sources (priority order):
// 1. Built-in defaults
// 2. Global config (XDG config dir)
// 3. Project config (<directory>/opencode-client.json[c])
// 4. Environment variables (highest priority)
//
// Files may be JSONC; comments are stripped before parsing. Missing files
// are skipped silently; a file that exists but fails to parse is skipped
// too, since a broken config must not take the client down.
func Load(directory string) (*Config, error) {
	config := Default()

	for _, path := range configPaths(directory) {
		loadFile(path, config)
	}

	applyEnvOverrides(config)

	if config.Directory == "" {
		config.Directory = directory
	}

	return config, nil
}

// configPaths returns candidate config files in ascending priority order.
func configPaths(directory string) []string {
	globalDir := GetPaths().Config
	paths := []string{
		filepath.Join(globalDir, "opencode-client.json"),
		filepath.Join(globalDir, "opencode-client.jsonc"),
	}
	if directory != "" {
		paths = append(paths,
			filepath.Join(directory, "opencode-client.json"),
			filepath.Join(directory, "opencode-client.jsonc"),
		)
	}
	return paths
}

// loadFile merges a single config file into config.
func loadFile(path string, config *Config) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	// Strip JSONC comments, then resolve {env:VAR} placeholders
	data = jsonc.ToJSON(data)
	data = interpolate(data)

	var fileConfig Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return
	}

	merge(config, &fileConfig)
}

// interpolate replaces {env:VAR_NAME} placeholders with environment values.
func interpolate(data []byte) []byte {
	envPattern := regexp.MustCompile(`\{env:([^}]+)\}`)
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(varName)))
	})
}

// merge copies source's set fields into target.
func merge(target, source *Config) {
	if source.Server != "" {
		target.Server = source.Server
	}
	if source.Directory != "" {
		target.Directory = source.Directory
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}
	if source.PrettyLogs {
		target.PrettyLogs = true
	}
}

// applyEnvOverrides applies OPENCODE_CLIENT_* environment variables.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("OPENCODE_CLIENT_SERVER"); v != "" {
		config.Server = v
	}
	if v := os.Getenv("OPENCODE_CLIENT_DIRECTORY"); v != "" {
		config.Directory = v
	}
	if v := os.Getenv("OPENCODE_CLIENT_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("OPENCODE_CLIENT_PRETTY_LOGS"); v == "1" || v == "true" {
		config.PrettyLogs = true
	}
}
