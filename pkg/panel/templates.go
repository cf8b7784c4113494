package panel

import (
	"bytes"
	"html/template"
	"log/slog"
)

var projectTemplate = template.Must(template.New("project").Parse(`<article class="project-card card">
  <div class="card-content">
    <h3>{{.Name}}</h3>
    <p>{{.Description}}</p>
    <a href="{{.Link}}" target="_blank" rel="noopener" class="project-link">View Project
      <svg width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><line x1="7" y1="17" x2="17" y2="7"></line><polyline points="7 7 17 7 17 17"></polyline></svg>
    </a>
  </div>
</article>`))

var skillTemplate = template.Must(template.New("skill").Parse(
	`<div class="skill-tag"><i class="{{.Icon}}"></i> {{.Label}}</div>`))

var experienceTemplate = template.Must(template.New("experience").Parse(`<div class="timeline-item">
  <div class="timeline-marker"></div>
  <div class="timeline-content card">
    <div class="timeline-header">
      <h3>{{.Role}}</h3>
      <span class="timeline-date">{{.Duration}}</span>
    </div>
    <h4 class="company-name">{{.Company}}</h4>
    {{- if .Points}}
    <ul>{{range .Points}}<li>{{.}}</li>{{end}}</ul>
    {{- end}}
  </div>
</div>`))

func execute(t *template.Template, data interface{}) template.HTML {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		slog.Error("Failed to render template", "template", t.Name(), "error", err)
		return ""
	}
	return template.HTML(buf.String()) //nolint:gosec // html/template output
}
