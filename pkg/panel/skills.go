package panel

import (
	"context"
	"strings"

	"github.com/ShyamSunder149/portfolio/pkg/content"
	"github.com/ShyamSunder149/portfolio/pkg/page"
)

const (
	MsgNoSkills     = "No skills found."
	MsgSkillsFailed = "Failed to load skills."
)

// Skill is a labelled technology with its devicon class.
type Skill struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var icons = map[string]string{
	"Go":         "devicon-go-original-wordmark colored",
	"Docker":     "devicon-docker-plain colored",
	"Kubernetes": "devicon-kubernetes-plain colored",
	"Python":     "devicon-python-plain colored",
	"MySQL":      "devicon-mysql-plain colored",
	"Linux":      "devicon-linux-plain colored",
	"Redis":      "devicon-redis-plain colored",
	"GCP":        "devicon-googlecloud-plain colored",
	"AWS":        "devicon-amazonwebservices-plain-wordmark colored",
	"React":      "devicon-react-original colored",
	"TypeScript": "devicon-typescript-plain colored",
	"PostgreSQL": "devicon-postgresql-plain colored",
	"gRPC":       "devicon-grpc-plain colored",
	"Terraform":  "devicon-terraform-plain colored",
}

// IconFor returns the icon class for label. Lookup is exact; unmapped
// labels get "devicon-<lowercased label>-plain colored".
func IconFor(label string) string {
	if icon, ok := icons[label]; ok {
		return icon
	}
	return "devicon-" + strings.ToLower(label) + "-plain colored"
}

// ToSkills resolves the icon of every label.
func ToSkills(labels []string) []Skill {
	skills := make([]Skill, 0, len(labels))
	for _, l := range labels {
		skills = append(skills, Skill{Label: l, Icon: IconFor(l)})
	}
	return skills
}

// SkillsOptions configures the skills panel.
type SkillsOptions struct {
	Source   content.Source
	Resource string // e.g. "data/skills.json"
	Target   *page.Target
	Observer page.Observer
}

// NewSkills creates the skills panel.
func NewSkills(opts SkillsOptions) *Panel[Skill] {
	return &Panel[Skill]{
		Name:     "skills",
		Target:   opts.Target,
		Observer: opts.Observer,
		Fetch: func(ctx context.Context) ([]Skill, error) {
			labels, err := content.FetchJSON[string](ctx, opts.Source, opts.Resource)
			if err != nil {
				return nil, err
			}
			return ToSkills(labels), nil
		},
		Render:         func(s Skill) *page.Node { return &page.Node{HTML: execute(skillTemplate, s)} },
		EmptyMessage:   MsgNoSkills,
		FailureMessage: MsgSkillsFailed,
	}
}
