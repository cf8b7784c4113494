package repository

// This file defines narrow interfaces around the external GitHub and GitLab
// API clients, so tests can inject deterministic fakes instead of issuing
// HTTP calls. Only the methods the repository clients use are exposed.

import (
	"context"

	"github.com/google/go-github/v57/github"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

/////////////////////////
// GitHub API Interfaces
/////////////////////////

// GitHubRepositoriesService abstracts the subset of repository operations used.
type GitHubRepositoriesService interface {
	// ListByUser lists the public repositories of a user.
	ListByUser(ctx context.Context, user string, opts *github.RepositoryListByUserOptions) ([]*github.Repository, *github.Response, error)
}

// githubRepositoriesWrapper is the production wrapper implementing GitHubRepositoriesService.
type githubRepositoriesWrapper struct {
	client *github.Client
}

func (w *githubRepositoriesWrapper) ListByUser(ctx context.Context, user string, opts *github.RepositoryListByUserOptions) ([]*github.Repository, *github.Response, error) {
	return w.client.Repositories.ListByUser(ctx, user, opts)
}

/////////////////////////
// GitLab API Interfaces
/////////////////////////

// GitLabProjectsService abstracts user project listing.
type GitLabProjectsService interface {
	ListUserProjects(uid interface{}, opts *gitlab.ListProjectsOptions, options ...gitlab.RequestOptionFunc) ([]*gitlab.Project, *gitlab.Response, error)
}

// gitlabProjectsWrapper is the production wrapper for project listing.
type gitlabProjectsWrapper struct {
	client *gitlab.Client
}

func (w *gitlabProjectsWrapper) ListUserProjects(uid interface{}, opts *gitlab.ListProjectsOptions, options ...gitlab.RequestOptionFunc) ([]*gitlab.Project, *gitlab.Response, error) {
	return w.client.Projects.ListUserProjects(uid, opts, options...)
}
