package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrUnsupportedProvider is returned for provider names other than github
// and gitlab.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// ProviderType names a repository host.
type ProviderType string

const (
	ProviderGitHub ProviderType = "github"
	ProviderGitLab ProviderType = "gitlab"
)

// DefaultProvider hosts the projects panel when no provider is configured.
const DefaultProvider = ProviderGitHub

// ParseProvider normalizes a configured provider name. Case and surrounding
// space are ignored and an empty name selects DefaultProvider.
func ParseProvider(name string) (ProviderType, error) {
	p := ProviderType(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case "":
		return DefaultProvider, nil
	case ProviderGitHub, ProviderGitLab:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedProvider, name, strings.Join(SupportedProviders(), ", "))
	}
}

// NewClient builds the listing client for provider. Without a token the
// client is anonymous and subject to the provider's public rate limit.
func NewClient(provider string, config Config) (Client, error) {
	p, err := ParseProvider(provider)
	if err != nil {
		return nil, err
	}
	if config.Token == "" {
		slog.Debug("No repository token configured, using anonymous access", "provider", p)
	}

	switch p {
	case ProviderGitLab:
		return NewGitLabClient(config)
	default:
		return NewGitHubClient(config)
	}
}

// SupportedProviders lists the accepted provider names.
func SupportedProviders() []string {
	return []string{string(ProviderGitHub), string(ProviderGitLab)}
}
