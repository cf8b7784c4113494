// Package repository provides read-only access to the repositories a user
// publishes on a source code hosting provider (GitHub, GitLab). It defines a
// provider-neutral repository record and a generic Client interface
// implemented by provider-specific clients.
package repository

import (
	"context"
)

// Info contains the metadata of one repository that the projects panel
// consumes.
type Info struct {
	ID          string   // Provider repository ID
	Name        string   // Repository slug (e.g. "my-cool-project")
	FullName    string   // Full name (owner/repo)
	Description string   // Free-text description; may be empty
	URL         string   // Web URL to the repository
	Topics      []string // Topic labels attached to the repository
}

// HasTopic reports whether the repository carries topic.
func (i Info) HasTopic(topic string) bool {
	for _, t := range i.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// FilterByTopic returns the repositories carrying topic, preserving order.
func FilterByTopic(repos []Info, topic string) []Info {
	out := make([]Info, 0, len(repos))
	for _, r := range repos {
		if r.HasTopic(topic) {
			out = append(out, r)
		}
	}
	return out
}

// Client defines the interface for listing repositories on a provider.
type Client interface {
	// ListRepositories returns the owner's repositories, most recently
	// updated first, limited to a single page of DefaultPerPage entries.
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - owner: Username whose repositories are listed
	// Returns:
	//   - Slice of Info records
	//   - Error if the provider call fails
	ListRepositories(ctx context.Context, owner string) ([]Info, error)
}

// DefaultPerPage is the page size requested from providers.
const DefaultPerPage = 100

// UserAgent identifies API requests.
const UserAgent = "Portfolio-App"

// Config holds common configuration for repository clients
type Config struct {
	// Token is an optional API token used to raise provider rate limits.
	// For GitHub: Personal Access Token
	// For GitLab: Personal Access Token or OAuth token
	Token string

	// BaseURL is the base URL for the API endpoint
	// For GitHub Enterprise or GitLab self-hosted instances
	// Leave empty for public GitHub (github.com) or GitLab (gitlab.com)
	BaseURL string
}
