package main

import (
	"fmt"
	"log/slog"

	"github.com/ShyamSunder149/portfolio/pkg/blog"
	"github.com/ShyamSunder149/portfolio/pkg/config"
	"github.com/ShyamSunder149/portfolio/pkg/content"
	"github.com/ShyamSunder149/portfolio/pkg/repository"
	"github.com/ShyamSunder149/portfolio/pkg/site"
)

// deps holds the collaborators shared by every page a command builds.
type deps struct {
	cache  *content.CachingSource
	source content.Source
	repos  repository.Client
	render blog.Renderer
}

func newDeps(cfg *config.Config) (*deps, error) {
	var upstream content.Source
	if cfg.Content.BaseURL != "" {
		src, err := content.NewHTTPSource(cfg.Content.BaseURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create content source: %w", err)
		}
		upstream = src
		slog.Debug("Using remote content", "baseURL", cfg.Content.BaseURL)
	} else {
		upstream = content.NewFileSource(cfg.Content.Dir)
		slog.Debug("Using local content", "dir", cfg.Content.Dir)
	}
	cache := content.NewCachingSource(upstream, cfg.Content.CacheTTL)

	client, err := repository.NewClient(cfg.Repository.Provider, cfg.RepositoryClientConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create repository client: %w", err)
	}

	return &deps{
		cache:  cache,
		source: cache,
		repos:  repository.NewCachedClient(client, cfg.Repository.CacheTTL),
		render: blog.NewMarkdownRenderer(cfg.Render.HighlightStyle),
	}, nil
}

func (d *deps) siteOptions(cfg *config.Config) site.Options {
	return site.Options{
		Source:     d.source,
		Repos:      d.repos,
		Owner:      cfg.Repository.Owner,
		Topic:      cfg.Repository.Topic,
		Renderer:   d.render,
		BlogIndex:  cfg.Content.BlogIndex,
		Skills:     cfg.Content.Skills,
		Experience: cfg.Content.Experience,
		ArticleDir: cfg.Content.ArticleDir,
	}
}
