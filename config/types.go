package config

import "strings"

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

// Config is the persisted git-sync configuration. It is written to
// config.json with exactly these three fields.
type Config struct {
	GitHubToken   string `json:"github_token" yaml:"github_token" toml:"github_token" mapstructure:"github_token" jsonschema:"description=GitHub personal access token used for pushing"`
	GitHubRepo    string `json:"github_repo" yaml:"github_repo" toml:"github_repo" mapstructure:"github_repo" jsonschema:"description=Target repository as owner/name"`
	DirectoryPath string `json:"directory_path" yaml:"directory_path" toml:"directory_path" mapstructure:"directory_path" jsonschema:"description=Local directory to synchronize"`
}

// Field names as they appear in config.json.
const (
	FieldGitHubToken   = "github_token"
	FieldGitHubRepo    = "github_repo"
	FieldDirectoryPath = "directory_path"
)

// Clone returns a copy of c. A nil receiver yields an empty configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}
	out := *c
	return &out
}

// Redacted returns a copy safe for display, with the token masked.
func (c *Config) Redacted() *Config {
	out := c.Clone()
	out.GitHubToken = MaskToken(out.GitHubToken)
	return out
}

// MaskToken hides all but the last four characters of a secret. Short
// secrets are hidden entirely.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	runes := []rune(token)
	if len(runes) <= 4 {
		return "****"
	}
	return "****" + string(runes[len(runes)-4:])
}

// Merge returns base with every non-blank field of override applied.
// Values are trimmed.
func Merge(base, override *Config) *Config {
	out := base.Clone()
	if override == nil {
		return out
	}
	if v := strings.TrimSpace(override.GitHubToken); v != "" {
		out.GitHubToken = v
	}
	if v := strings.TrimSpace(override.GitHubRepo); v != "" {
		out.GitHubRepo = v
	}
	if v := strings.TrimSpace(override.DirectoryPath); v != "" {
		out.DirectoryPath = v
	}
	return out
}
