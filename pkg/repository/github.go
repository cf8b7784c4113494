package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v57/github"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"
)

// GitHubClient implements the Client interface for GitHub
type GitHubClient struct {
	repos  GitHubRepositoriesService
	config Config
}

// NewGitHubClient creates a new GitHub client with the provided configuration
// If no token is provided, the client uses unauthenticated (rate limited) access
// If a custom BaseURL is provided, it will be used for GitHub Enterprise instances
func NewGitHubClient(config Config) (*GitHubClient, error) {
	var client *github.Client

	// Configure authentication if token is provided
	if config.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: config.Token},
		)
		tc := oauth2.NewClient(context.Background(), ts)
		client = github.NewClient(tc)
	} else {
		client = github.NewClient(cleanhttp.DefaultPooledClient())
	}
	client.UserAgent = UserAgent

	// Set custom base URL for GitHub Enterprise if provided
	if config.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(config.BaseURL, config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set GitHub Enterprise URL: %w", err)
		}
	}

	return NewGitHubClientWithAPI(config, &githubRepositoriesWrapper{client: client}), nil
}

// NewGitHubClientWithAPI creates a client over an injected repositories
// service.
func NewGitHubClientWithAPI(config Config, repos GitHubRepositoriesService) *GitHubClient {
	return &GitHubClient{repos: repos, config: config}
}

// ListRepositories lists the user's repositories sorted by last update
func (g *GitHubClient) ListRepositories(ctx context.Context, owner string) ([]Info, error) {
	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: DefaultPerPage},
	}

	ghRepos, resp, err := g.repos.ListByUser(ctx, owner, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories from GitHub: %w", err)
	}
	if resp != nil && resp.Body != nil {
		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil {
				slog.Debug("Failed to close response body", "error", closeErr)
			}
		}()
	}

	// Convert GitHub's Repository to our Info format
	repos := make([]Info, 0, len(ghRepos))
	for _, r := range ghRepos {
		if r == nil {
			continue
		}
		repos = append(repos, Info{
			ID:          fmt.Sprintf("%d", r.GetID()),
			Name:        r.GetName(),
			FullName:    r.GetFullName(),
			Description: r.GetDescription(),
			URL:         r.GetHTMLURL(),
			Topics:      append([]string(nil), r.Topics...),
		})
	}

	slog.Debug("Listed GitHub repositories", "owner", owner, "count", len(repos))
	return repos, nil
}
