package blog

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/ShyamSunder149/portfolio/pkg/page"
)

var chipTemplate = template.Must(template.New("chip").Parse(
	`<a class="blog-tag{{if .Active}} active{{end}}" href="{{.Href}}" data-action="{{.Action.Name}}" data-arg="{{.Action.Arg}}">{{.Label}}</a>`))

var cardTemplate = template.Must(template.New("card").Parse(`<article class="card blog-card" data-action="{{.Action.Name}}" data-arg="{{.Action.Arg}}">
  <div class="card-content">
    <a class="card-link" href="{{.Href}}">
      <span class="blog-date">{{.Date}}</span>
      <h3>{{.Title}}</h3>
      <p>{{.Excerpt}}</p>
    </a>
    <div class="blog-tags">{{range .Tags}}<a class="blog-tag blog-tag-small" href="{{.Href}}" data-action="{{.Action.Name}}" data-arg="{{.Action.Arg}}">{{.Label}}</a>{{end}}</div>
  </div>
</article>`))

type chipView struct {
	Label  string
	Href   string
	Action page.Action
	Active bool
}

type cardView struct {
	Title   string
	Date    string
	Excerpt string
	Href    string
	Action  page.Action
	Tags    []chipView
}

func execute(t *template.Template, data interface{}) template.HTML {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		slog.Error("Failed to render template", "template", t.Name(), "error", err)
		return ""
	}
	return template.HTML(buf.String()) //nolint:gosec // html/template output
}
