package git

import (
	"fmt"
	"strings"
)

const (
	// GitHubHost is the host every remote points at.
	GitHubHost = "github.com"

	// DefaultRemote and DefaultBranch are the push target.
	DefaultRemote = "origin"
	DefaultBranch = "main"
)

// GitHubRemoteURL builds the HTTPS clone URL for an owner/name slug.
func GitHubRemoteURL(repo string) string {
	return fmt.Sprintf("https://%s/%s.git", GitHubHost, strings.TrimSpace(repo))
}

// RepoSlugFromURL extracts owner/name from an HTTPS or SSH GitHub URL.
// It returns "" for URLs that do not point at GitHub.
func RepoSlugFromURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), ".git")

	switch {
	case strings.HasPrefix(url, "git@"+GitHubHost+":"):
		url = strings.TrimPrefix(url, "git@"+GitHubHost+":")
	case strings.Contains(url, GitHubHost+"/"):
		url = url[strings.Index(url, GitHubHost+"/")+len(GitHubHost)+1:]
	default:
		return ""
	}

	parts := strings.Split(url, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return parts[0] + "/" + parts[1]
}

// CredentialHelperArgs returns `-c` options that make git ask helperPath
// (invoked as `<helperPath> credential <op>`) for github.com credentials.
// The empty helper entry resets helpers inherited from user configuration.
func CredentialHelperArgs(helperPath string) []string {
	if helperPath == "" {
		return nil
	}
	key := "credential.https://" + GitHubHost + ".helper"
	return []string{
		"-c", key + "=",
		"-c", fmt.Sprintf("%s=!%q credential", key, helperPath),
	}
}

// LogicalArgs strips leading `-c key=value` pairs so callers can report the
// subcommand that was run.
func LogicalArgs(args []string) []string {
	for len(args) >= 2 && args[0] == "-c" {
		args = args[2:]
	}
	return args
}
