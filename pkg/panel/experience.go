package panel

import (
	"context"
	"strings"

	"github.com/ShyamSunder149/portfolio/pkg/content"
	"github.com/ShyamSunder149/portfolio/pkg/page"
)

// PointDelimiter separates the points of an experience description.
const PointDelimiter = "#"

const (
	MsgNoExperience     = "No experience found."
	MsgExperienceFailed = "Failed to load experience."
)

// Experience is one position on the timeline.
type Experience struct {
	Role        string   `json:"role"`
	Company     string   `json:"company"`
	Duration    string   `json:"duration"`
	Description string   `json:"description"`
	Points      []string `json:"points,omitempty"`
}

// SplitPoints splits a description on PointDelimiter, trimming each point
// and dropping empty ones.
func SplitPoints(description string) []string {
	var points []string
	for _, p := range strings.Split(description, PointDelimiter) {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	return points
}

// ExperienceOptions configures the experience panel.
type ExperienceOptions struct {
	Source   content.Source
	Resource string // e.g. "data/experience.json"
	Target   *page.Target
	Observer page.Observer
}

// NewExperience creates the experience panel.
func NewExperience(opts ExperienceOptions) *Panel[Experience] {
	return &Panel[Experience]{
		Name:     "experience",
		Target:   opts.Target,
		Observer: opts.Observer,
		Fetch: func(ctx context.Context) ([]Experience, error) {
			entries, err := content.FetchJSON[Experience](ctx, opts.Source, opts.Resource)
			if err != nil {
				return nil, err
			}
			for i := range entries {
				entries[i].Points = SplitPoints(entries[i].Description)
			}
			return entries, nil
		},
		Render:         func(e Experience) *page.Node { return &page.Node{HTML: execute(experienceTemplate, e)} },
		EmptyMessage:   MsgNoExperience,
		FailureMessage: MsgExperienceFailed,
	}
}
