package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Environment variables that override loaded values for one invocation.
const (
	EnvGitHubToken   = "GIT_SYNC_GITHUB_TOKEN"
	EnvGitHubRepo    = "GIT_SYNC_GITHUB_REPO"
	EnvDirectoryPath = "GIT_SYNC_DIRECTORY_PATH"
)

var envFields = map[string]string{
	EnvGitHubToken:   FieldGitHubToken,
	EnvGitHubRepo:    FieldGitHubRepo,
	EnvDirectoryPath: FieldDirectoryPath,
}

// ApplyEnv overlays non-empty GIT_SYNC_* variables onto cfg and returns the
// names of the fields that were overridden. The overlay is never persisted.
func ApplyEnv(cfg *Config) ([]string, error) {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) ([]string, error) {
	values := make(map[string]interface{})
	var fields []string
	for _, name := range []string{EnvGitHubToken, EnvGitHubRepo, EnvDirectoryPath} {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			field := envFields[name]
			values[field] = strings.TrimSpace(v)
			fields = append(fields, field)
		}
	}
	if len(values) == 0 {
		return nil, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      cfg,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(values); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return fields, nil
}
