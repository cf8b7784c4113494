package panel

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ShyamSunder149/portfolio/pkg/page"
	"github.com/ShyamSunder149/portfolio/pkg/repository"
)

const (
	// DefaultTopic marks the repositories shown on the site.
	DefaultTopic = "side-project"

	MsgProjectsFailed    = "Failed to load projects from GitHub."
	MsgNoDescription     = "No description available."
	msgNoProjectsPattern = "No projects found with topic %q."
)

// Project is a repository shown in the projects panel.
type Project struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	Topics      []string `json:"topics"`
}

// Humanize turns a repository slug into a display name: "my-cool-project"
// becomes "My Cool Project". Empty segments are dropped.
func Humanize(slug string) string {
	words := strings.Fields(strings.ReplaceAll(slug, "-", " "))
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ToProjects keeps the repositories carrying topic and converts them for
// display.
func ToProjects(repos []repository.Info, topic string) []Project {
	kept := repository.FilterByTopic(repos, topic)
	projects := make([]Project, 0, len(kept))
	for _, r := range kept {
		desc := r.Description
		if desc == "" {
			desc = MsgNoDescription
		}
		projects = append(projects, Project{
			Slug:        r.Name,
			Name:        Humanize(r.Name),
			Description: desc,
			Link:        r.URL,
			Topics:      r.Topics,
		})
	}
	return projects
}

// ProjectsOptions configures the projects panel.
type ProjectsOptions struct {
	Client   repository.Client
	Owner    string
	Topic    string // DefaultTopic when empty
	Target   *page.Target
	Observer page.Observer
}

// NewProjects creates the projects panel.
func NewProjects(opts ProjectsOptions) *Panel[Project] {
	topic := opts.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	return &Panel[Project]{
		Name:     "projects",
		Target:   opts.Target,
		Observer: opts.Observer,
		Fetch: func(ctx context.Context) ([]Project, error) {
			if opts.Client == nil {
				return nil, fmt.Errorf("no repository client configured")
			}
			repos, err := opts.Client.ListRepositories(ctx, opts.Owner)
			if err != nil {
				return nil, err
			}
			return ToProjects(repos, topic), nil
		},
		Render:         func(p Project) *page.Node { return &page.Node{HTML: execute(projectTemplate, p)} },
		EmptyMessage:   fmt.Sprintf(msgNoProjectsPattern, topic),
		FailureMessage: MsgProjectsFailed,
	}
}
