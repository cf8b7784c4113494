// Package config loads the portfolio configuration from a YAML or TOML file
// and overlays PORTFOLIO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/ShyamSunder149/portfolio/pkg/repository"
)

// EnvPrefix prefixes environment overrides: PORTFOLIO_SERVER_ADDR sets
// server.addr.
const EnvPrefix = "PORTFOLIO_"

// ErrConfigInContent is returned when the config file would be readable
// through the content source.
var ErrConfigInContent = errors.New("config file must not live inside content.dir")

// Defaults applied to unset fields.
const (
	DefaultAddr            = ":8080"
	DefaultContentDir      = "content"
	DefaultStaticDir       = "static"
	DefaultTopic           = "side-project"
	DefaultCacheTTL        = 5 * time.Minute
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultHighlightStyle  = "github"
)

// Config represents the top-level configuration file structure
type Config struct {
	Profile    ProfileConfig    `yaml:"profile" toml:"profile" koanf:"profile"`
	Content    ContentConfig    `yaml:"content" toml:"content" koanf:"content"`
	Repository RepositoryConfig `yaml:"repository" toml:"repository" koanf:"repository"`
	Server     ServerConfig     `yaml:"server" toml:"server" koanf:"server"`
	Render     RenderConfig     `yaml:"render" toml:"render" koanf:"render"`
}

// ProfileConfig holds the static header of the page.
type ProfileConfig struct {
	Name  string `yaml:"name" toml:"name" koanf:"name"`
	Title string `yaml:"title" toml:"title" koanf:"title"`
	About string `yaml:"about" toml:"about" koanf:"about"`
}

// ContentConfig locates the static JSON collections and articles. Exactly
// one of Dir and BaseURL is used; BaseURL wins when both are set.
type ContentConfig struct {
	Dir        string        `yaml:"dir" toml:"dir" koanf:"dir"`
	BaseURL    string        `yaml:"base_url" toml:"base_url" koanf:"base_url"`
	BlogIndex  string        `yaml:"blog_index" toml:"blog_index" koanf:"blog_index"`
	Skills     string        `yaml:"skills" toml:"skills" koanf:"skills"`
	Experience string        `yaml:"experience" toml:"experience" koanf:"experience"`
	ArticleDir string        `yaml:"article_dir" toml:"article_dir" koanf:"article_dir"`
	CacheTTL   time.Duration `yaml:"cache_ttl" toml:"cache_ttl" koanf:"cache_ttl"`
	Watch      bool          `yaml:"watch" toml:"watch" koanf:"watch"`
}

// RepositoryConfig selects the repository provider for the projects panel.
type RepositoryConfig struct {
	Provider string        `yaml:"provider" toml:"provider" koanf:"provider"`
	Owner    string        `yaml:"owner" toml:"owner" koanf:"owner"`
	Topic    string        `yaml:"topic" toml:"topic" koanf:"topic"`
	Token    string        `yaml:"token" toml:"token" koanf:"token"`
	BaseURL  string        `yaml:"base_url" toml:"base_url" koanf:"base_url"`
	CacheTTL time.Duration `yaml:"cache_ttl" toml:"cache_ttl" koanf:"cache_ttl"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr            string        `yaml:"addr" toml:"addr" koanf:"addr"`
	StaticDir       string        `yaml:"static_dir" toml:"static_dir" koanf:"static_dir"`
	RequestTimeout  time.Duration `yaml:"request_timeout" toml:"request_timeout" koanf:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" koanf:"shutdown_timeout"`
}

// RenderConfig selects markdown styles.
type RenderConfig struct {
	// HighlightStyle is the chroma style for code blocks in served articles.
	HighlightStyle string `yaml:"highlight_style" toml:"highlight_style" koanf:"highlight_style"`
	// TerminalStyle is the glamour style for articles read in the terminal.
	TerminalStyle string `yaml:"terminal_style" toml:"terminal_style" koanf:"terminal_style"`
}

// LoadFromFile reads a YAML or TOML configuration file (chosen by
// extension), applies defaults and environment overrides, and validates the
// result. A relative content or static directory is resolved against the
// file's directory.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	config.ApplyDefaults()
	config.resolvePaths(filepath.Dir(filename))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := config.checkOutsideContent(filename); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// checkOutsideContent rejects a config file stored under the local content
// directory, where it holds the repository token.
func (c *Config) checkOutsideContent(filename string) error {
	if c.Content.Dir == "" {
		return nil
	}
	dir, err := filepath.Abs(c.Content.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve content dir: %w", err)
	}
	file, err := filepath.Abs(filename)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		return nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrConfigInContent, dir)
}

// ApplyEnv overlays PORTFOLIO_<SECTION>_<KEY> environment variables onto
// c. Only variables that are set change c.
func (c *Config) ApplyEnv() error {
	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return fmt.Errorf("loading env overrides: %w", err)
	}
	if len(k.Keys()) == 0 {
		return nil
	}
	if err := k.Unmarshal("", c); err != nil {
		return fmt.Errorf("unmarshalling env overrides: %w", err)
	}
	return nil
}

// envKey maps PORTFOLIO_CONTENT_CACHE_TTL to content.cache_ttl.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Content.Dir == "" && c.Content.BaseURL == "" {
		c.Content.Dir = DefaultContentDir
	}
	if c.Content.BlogIndex == "" {
		c.Content.BlogIndex = "data/blogs.json"
	}
	if c.Content.Skills == "" {
		c.Content.Skills = "data/skills.json"
	}
	if c.Content.Experience == "" {
		c.Content.Experience = "data/experience.json"
	}
	if c.Content.ArticleDir == "" {
		c.Content.ArticleDir = "blogs"
	}
	if c.Content.CacheTTL == 0 {
		c.Content.CacheTTL = DefaultCacheTTL
	}

	if p, err := repository.ParseProvider(c.Repository.Provider); err == nil {
		c.Repository.Provider = string(p)
	}
	if c.Repository.Topic == "" {
		c.Repository.Topic = DefaultTopic
	}
	if c.Repository.CacheTTL == 0 {
		c.Repository.CacheTTL = DefaultCacheTTL
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = DefaultStaticDir
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = DefaultRequestTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Render.HighlightStyle == "" {
		c.Render.HighlightStyle = DefaultHighlightStyle
	}
}

func (c *Config) resolvePaths(base string) {
	if c.Content.Dir != "" && !filepath.IsAbs(c.Content.Dir) {
		c.Content.Dir = filepath.Join(base, c.Content.Dir)
	}
	if !filepath.IsAbs(c.Server.StaticDir) {
		c.Server.StaticDir = filepath.Join(base, c.Server.StaticDir)
	}
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if _, err := repository.ParseProvider(c.Repository.Provider); err != nil {
		return fmt.Errorf("repository: %w", err)
	}
	if c.Repository.Owner == "" {
		return fmt.Errorf("repository: missing required field 'owner'")
	}
	if c.Content.Dir == "" && c.Content.BaseURL == "" {
		return fmt.Errorf("content: one of 'dir' or 'base_url' is required")
	}
	if c.Content.BaseURL != "" && !strings.HasPrefix(c.Content.BaseURL, "http://") && !strings.HasPrefix(c.Content.BaseURL, "https://") {
		return fmt.Errorf("content: base_url must be an http(s) URL, got %q", c.Content.BaseURL)
	}
	if c.Content.CacheTTL < 0 || c.Repository.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must be non-negative")
	}
	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server: timeouts must be non-negative")
	}
	return nil
}

// RepositoryClientConfig returns the settings for the repository client.
func (c *Config) RepositoryClientConfig() repository.Config {
	return repository.Config{
		Token:   c.Repository.Token,
		BaseURL: c.Repository.BaseURL,
	}
}

// RedactToken masks a token for logging, keeping its last four characters.
func RedactToken(token string) string {
	switch {
	case token == "":
		return ""
	case len(token) <= 8:
		return "****"
	default:
		return "****" + token[len(token)-4:]
	}
}
