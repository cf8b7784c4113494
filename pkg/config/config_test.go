package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ShyamSunder149/portfolio/pkg/repository"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		wantErr     bool
		validateFn  func(*testing.T, *Config)
		description string
	}{
		{
			name: "valid yaml config with defaults",
			file: "portfolio.yaml",
			content: `
profile:
  name: "Shyam Sunder"
  title: "Software Engineer"
repository:
  owner: "ShyamSunder149"
content:
  dir: "site"
`,
			description: "Should load valid config and apply defaults",
			validateFn: func(t *testing.T, cfg *Config) {
				if cfg.Profile.Name != "Shyam Sunder" {
					t.Errorf("Expected profile name 'Shyam Sunder', got '%s'", cfg.Profile.Name)
				}
				if cfg.Repository.Provider != "github" {
					t.Errorf("Expected default provider 'github', got '%s'", cfg.Repository.Provider)
				}
				if cfg.Repository.Topic != DefaultTopic {
					t.Errorf("Expected default topic, got '%s'", cfg.Repository.Topic)
				}
				if cfg.Server.Addr != DefaultAddr {
					t.Errorf("Expected default addr, got '%s'", cfg.Server.Addr)
				}
				if cfg.Content.BlogIndex != "data/blogs.json" || cfg.Content.ArticleDir != "blogs" {
					t.Errorf("Unexpected content defaults: %+v", cfg.Content)
				}
				if cfg.Content.CacheTTL != DefaultCacheTTL {
					t.Errorf("Expected default cache TTL, got %v", cfg.Content.CacheTTL)
				}
				if !filepath.IsAbs(cfg.Content.Dir) || filepath.Base(cfg.Content.Dir) != "site" {
					t.Errorf("Expected content dir resolved next to the config file, got '%s'", cfg.Content.Dir)
				}
			},
		},
		{
			name: "valid toml config",
			file: "portfolio.toml",
			content: `
[repository]
provider = "gitlab"
owner = "someone"
topic = "showcase"
cache_ttl = "1m"

[server]
addr = ":9090"
request_timeout = "5s"
`,
			description: "Should decode TOML by extension",
			validateFn: func(t *testing.T, cfg *Config) {
				if cfg.Repository.Provider != "gitlab" {
					t.Errorf("Expected provider 'gitlab', got '%s'", cfg.Repository.Provider)
				}
				if cfg.Repository.Topic != "showcase" {
					t.Errorf("Expected topic 'showcase', got '%s'", cfg.Repository.Topic)
				}
				if cfg.Repository.CacheTTL != time.Minute {
					t.Errorf("Expected cache TTL 1m, got %v", cfg.Repository.CacheTTL)
				}
				if cfg.Server.Addr != ":9090" || cfg.Server.RequestTimeout != 5*time.Second {
					t.Errorf("Unexpected server config: %+v", cfg.Server)
				}
			},
		},
		{
			name: "remote content",
			file: "portfolio.yml",
			content: `
repository:
  owner: "octo"
content:
  base_url: "https://example.com/site/"
`,
			validateFn: func(t *testing.T, cfg *Config) {
				if cfg.Content.Dir != "" {
					t.Errorf("Expected no content dir with base_url, got '%s'", cfg.Content.Dir)
				}
			},
		},
		{
			name:        "missing owner",
			file:        "portfolio.yaml",
			content:     "profile:\n  name: x\n",
			wantErr:     true,
			description: "Should fail without a repository owner",
		},
		{
			name: "unsupported provider",
			file: "portfolio.yaml",
			content: `
repository:
  provider: "bitbucket"
  owner: "octo"
`,
			wantErr: true,
		},
		{
			name: "invalid base url",
			file: "portfolio.yaml",
			content: `
repository:
  owner: "octo"
content:
  base_url: "ftp://example.com"
`,
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			file:    "portfolio.yaml",
			content: "repository: [owner",
			wantErr: true,
		},
		{
			name:    "invalid toml",
			file:    "portfolio.toml",
			content: "[repository\nowner = 1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)

			cfg, err := LoadFromFile(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadFromFile() error = %v, wantErr %v (%s)", err, tt.wantErr, tt.description)
			}
			if err == nil && tt.validateFn != nil {
				tt.validateFn(t, cfg)
			}
		})
	}
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/file.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file, got nil")
	}
}

func TestLoadFromFile_ConfigInsideContent(t *testing.T) {
	tests := []struct {
		name    string
		dir     string
		wantErr bool
	}{
		{"same directory", ".", true},
		{"parent directory", "..", true},
		{"sibling directory", "site", false},
		{"default directory", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := "repository:\n  owner: octo\n  token: ghp_SUPERSECRETTOKEN1234\n"
			if tt.dir != "" {
				body += "content:\n  dir: \"" + tt.dir + "\"\n"
			}
			path := writeConfig(t, "portfolio.yaml", body)

			cfg, err := LoadFromFile(path)
			if tt.wantErr {
				if !errors.Is(err, ErrConfigInContent) {
					t.Fatalf("Expected ErrConfigInContent, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFromFile() error = %v", err)
			}
			if tt.dir == "" && filepath.Base(cfg.Content.Dir) != DefaultContentDir {
				t.Errorf("Expected default content dir %q, got '%s'", DefaultContentDir, cfg.Content.Dir)
			}
		})
	}
}

func TestLoadFromFile_UnsupportedProviderIs(t *testing.T) {
	path := writeConfig(t, "p.yaml", "repository:\n  provider: svn\n  owner: x\n")
	_, err := LoadFromFile(path)
	if !errors.Is(err, repository.ErrUnsupportedProvider) {
		t.Errorf("Expected ErrUnsupportedProvider, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORTFOLIO_SERVER_ADDR", ":7070")
	t.Setenv("PORTFOLIO_REPOSITORY_TOKEN", "secret-token")
	t.Setenv("PORTFOLIO_CONTENT_CACHE_TTL", "30s")
	t.Setenv("PORTFOLIO_CONTENT_WATCH", "true")

	path := writeConfig(t, "portfolio.yaml", `
repository:
  owner: "octo"
  token: "file-token"
server:
  addr: ":8081"
  static_dir: "/srv/static"
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Expected env addr ':7070', got '%s'", cfg.Server.Addr)
	}
	if cfg.Server.StaticDir != "/srv/static" {
		t.Errorf("Expected file static dir to survive, got '%s'", cfg.Server.StaticDir)
	}
	if cfg.Repository.Token != "secret-token" {
		t.Errorf("Expected env token, got '%s'", cfg.Repository.Token)
	}
	if cfg.Repository.Owner != "octo" {
		t.Errorf("Expected file owner to survive, got '%s'", cfg.Repository.Owner)
	}
	if cfg.Content.CacheTTL != 30*time.Second {
		t.Errorf("Expected env cache TTL 30s, got %v", cfg.Content.CacheTTL)
	}
	if !cfg.Content.Watch {
		t.Error("Expected env watch=true")
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"PORTFOLIO_SERVER_ADDR":            "server.addr",
		"PORTFOLIO_CONTENT_CACHE_TTL":      "content.cache_ttl",
		"PORTFOLIO_RENDER_HIGHLIGHT_STYLE": "render.highlight_style",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{
		Content: ContentConfig{BaseURL: "https://example.com"},
		Server:  ServerConfig{Addr: ":1"},
	}
	cfg.ApplyDefaults()

	if cfg.Content.Dir != "" {
		t.Errorf("Expected no default dir when base_url is set, got '%s'", cfg.Content.Dir)
	}
	if cfg.Server.Addr != ":1" {
		t.Errorf("Expected explicit addr to be kept, got '%s'", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("Expected default shutdown timeout, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Render.HighlightStyle != DefaultHighlightStyle {
		t.Errorf("Expected default highlight style, got '%s'", cfg.Render.HighlightStyle)
	}
	if cfg.Repository.Provider != string(repository.DefaultProvider) {
		t.Errorf("Expected default provider, got '%s'", cfg.Repository.Provider)
	}

	cfg = &Config{Repository: RepositoryConfig{Provider: " GitLab "}}
	cfg.ApplyDefaults()
	if cfg.Repository.Provider != "gitlab" {
		t.Errorf("Expected provider normalized to 'gitlab', got '%s'", cfg.Repository.Provider)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{Repository: RepositoryConfig{Owner: "octo"}}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"negative ttl", func(c *Config) { c.Content.CacheTTL = -time.Second }, "cache_ttl"},
		{"negative timeout", func(c *Config) { c.Server.RequestTimeout = -time.Second }, "timeouts"},
		{"no content", func(c *Config) { c.Content.Dir = "" }, "content"},
		{"no owner", func(c *Config) { c.Repository.Owner = "" }, "owner"},
		{"unknown provider", func(c *Config) { c.Repository.Provider = "svn" }, "unsupported provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRedactToken(t *testing.T) {
	tests := map[string]string{
		"":                     "",
		"short":                "****",
		"ghp_abcdefghijkl1234": "****1234",
	}
	for in, want := range tests {
		if got := RedactToken(in); got != want {
			t.Errorf("RedactToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRepositoryClientConfig(t *testing.T) {
	cfg := &Config{Repository: RepositoryConfig{Token: "t", BaseURL: "https://ghe.example.com/api/v3/"}}
	rc := cfg.RepositoryClientConfig()
	if rc.Token != "t" || rc.BaseURL != "https://ghe.example.com/api/v3/" {
		t.Errorf("Unexpected repository config: %+v", rc)
	}
}
