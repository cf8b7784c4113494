package repository

import (
	"context"
	"fmt"
	"log/slog"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GitLabClient implements the Client interface for GitLab
type GitLabClient struct {
	projects GitLabProjectsService
	config   Config
}

// NewGitLabClient creates a new GitLab client with the provided configuration
// If no token is provided, the client will only see public projects
// If a custom BaseURL is provided, it will be used for self-hosted GitLab instances
func NewGitLabClient(config Config) (*GitLabClient, error) {
	// Configure client options
	opts := []gitlab.ClientOptionFunc{}

	// Set custom base URL for self-hosted GitLab if provided
	if config.BaseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(config.BaseURL))
	}

	client, err := gitlab.NewClient(config.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return NewGitLabClientWithAPI(config, &gitlabProjectsWrapper{client: client}), nil
}

// NewGitLabClientWithAPI creates a client over an injected projects service.
func NewGitLabClientWithAPI(config Config, projects GitLabProjectsService) *GitLabClient {
	return &GitLabClient{projects: projects, config: config}
}

// ListRepositories lists the user's projects ordered by last activity
func (g *GitLabClient) ListRepositories(ctx context.Context, owner string) ([]Info, error) {
	opts := &gitlab.ListProjectsOptions{
		ListOptions: gitlab.ListOptions{PerPage: DefaultPerPage},
		OrderBy:     gitlab.Ptr("last_activity_at"),
		Sort:        gitlab.Ptr("desc"),
	}

	projects, resp, err := g.projects.ListUserProjects(owner, opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects from GitLab: %w", err)
	}
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}

	// Convert GitLab's Project to our Info format; the URL slug is Path
	repos := make([]Info, 0, len(projects))
	for _, p := range projects {
		if p == nil {
			continue
		}
		repos = append(repos, Info{
			ID:          fmt.Sprintf("%d", p.ID),
			Name:        p.Path,
			FullName:    p.PathWithNamespace,
			Description: p.Description,
			URL:         p.WebURL,
			Topics:      append([]string(nil), p.Topics...),
		})
	}

	slog.Debug("Listed GitLab projects", "owner", owner, "count", len(repos))
	return repos, nil
}
