package config

import (
	"fmt"
	"strings"

	"github.com/carpe-diem/git-sync/command"
	"github.com/carpe-diem/git-sync/errors"
)

// Validate checks that every field needed for a sync is present and that
// the repository is an owner/name slug.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.GitHubToken) == "" {
		missing = append(missing, FieldGitHubToken)
	}
	if strings.TrimSpace(c.GitHubRepo) == "" {
		missing = append(missing, FieldGitHubRepo)
	}
	if strings.TrimSpace(c.DirectoryPath) == "" {
		missing = append(missing, FieldDirectoryPath)
	}
	if len(missing) > 0 {
		return errors.ConfigInvalid(fmt.Sprintf("missing %s", strings.Join(missing, ", "))).
			WithDetail("missing", missing)
	}

	if err := command.ValidateRepoSlug(strings.TrimSpace(c.GitHubRepo)); err != nil {
		return errors.ConfigInvalid(err.Error()).
			WithDetail("field", FieldGitHubRepo)
	}

	return nil
}
