package config

// Prompt labels shown by Setup.
const (
	TokenPrompt     = "Enter your GitHub token (https://github.com/settings/tokens)"
	RepoPrompt      = "Enter repository (format: username/repo)"
	DirectoryPrompt = "Enter path to your directory to sync"
)

// Setup runs the interactive flow: each field is offered with its current
// value, an empty answer keeps it, anything else replaces it. The result is
// saved and returned.
func (s *Store) Setup(p Prompter) (*Config, error) {
	existing, err := s.Load()
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing = &Config{}
	}

	var answers Config
	if answers.GitHubToken, err = p.PromptSecret(TokenPrompt, existing.GitHubToken); err != nil {
		return nil, err
	}
	if answers.GitHubRepo, err = p.Prompt(RepoPrompt, existing.GitHubRepo); err != nil {
		return nil, err
	}
	if answers.DirectoryPath, err = p.Prompt(DirectoryPrompt, existing.DirectoryPath); err != nil {
		return nil, err
	}

	cfg := Merge(existing, &answers)
	if err := s.Save(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		s.log.WithError(err).Warn("Saved configuration is incomplete; sync will refuse to run until it is fixed")
	}
	return cfg, nil
}
