// Package format provides console rendering for page reports and articles.
// Tables adapt their column widths to the terminal and support color and
// truncation.
package format

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"github.com/ShyamSunder149/portfolio/pkg/report"
)

// ConsoleFormatter renders a page Report as a set of terminal tables, one
// per panel, followed by a summary and any load errors.
type ConsoleFormatter struct {
	// MaxColWidth constrains every column. If 0, a width is chosen from the
	// terminal width.
	MaxColWidth int

	// EnableColors toggles ANSI color output for status cells.
	EnableColors bool
}

// NewConsoleFormatter creates a formatter with sensible defaults.
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{EnableColors: true}
}

type section struct {
	title  string
	header table.Row
	rows   []table.Row
	empty  string
}

// Render writes the formatted report to writer.
func (f *ConsoleFormatter) Render(rpt *report.Report, writer io.Writer) error {
	if rpt == nil {
		return fmt.Errorf("nil report")
	}

	termWidth := detectTerminalWidth(writer)
	for _, s := range f.sections(rpt) {
		if _, err := fmt.Fprintf(writer, "%s\n", s.title); err != nil {
			return fmt.Errorf("failed writing %s title: %w", s.title, err)
		}
		if len(s.rows) == 0 {
			if _, err := fmt.Fprintf(writer, "  %s\n\n", s.empty); err != nil {
				return fmt.Errorf("failed writing %s placeholder: %w", s.title, err)
			}
			continue
		}
		f.renderTable(s, termWidth, writer)
		if _, err := fmt.Fprintln(writer); err != nil {
			return fmt.Errorf("failed writing spacer newline: %w", err)
		}
	}

	successCount := 0
	for _, p := range rpt.Panels {
		if p.Error == nil {
			successCount++
		}
	}

	if _, err := fmt.Fprintf(writer, "Summary:\n"); err != nil {
		return fmt.Errorf("failed writing summary header: %w", err)
	}
	if _, err := fmt.Fprintf(writer, "  Panels loaded: %d/%d successful\n", successCount, len(rpt.Panels)); err != nil {
		return fmt.Errorf("failed writing panels loaded line: %w", err)
	}
	filter := "All"
	if rpt.Filter != "" {
		filter = rpt.Filter
	}
	if _, err := fmt.Fprintf(writer, "  Blog filter: %s\n", filter); err != nil {
		return fmt.Errorf("failed writing filter line: %w", err)
	}
	if _, err := fmt.Fprintf(writer, "  Tags: %s\n", strings.Join(rpt.Tags, ", ")); err != nil {
		return fmt.Errorf("failed writing tags line: %w", err)
	}

	if rpt.HasErrors() {
		if _, err := fmt.Fprintln(writer); err != nil {
			return fmt.Errorf("failed writing errors spacer newline: %w", err)
		}
		if _, err := fmt.Fprintf(writer, "Errors:\n"); err != nil {
			return fmt.Errorf("failed writing errors header: %w", err)
		}
		for _, p := range rpt.Panels {
			if p.Error != nil {
				if _, err := fmt.Fprintf(writer, "  %-12s %v\n", p.Name, p.Error); err != nil {
					return fmt.Errorf("failed writing error line for %s: %w", p.Name, err)
				}
			}
		}
	}

	return nil
}

func (f *ConsoleFormatter) sections(rpt *report.Report) []section {
	panels := section{title: "Panels", header: table.Row{"Panel", "State", "Items"}}
	for _, p := range rpt.Panels {
		panels.rows = append(panels.rows, table.Row{p.Name, f.stateCell(p), p.Items})
	}

	projects := section{title: "Projects", header: table.Row{"Name", "Description", "Link"}, empty: "No projects."}
	for _, p := range rpt.Projects {
		projects.rows = append(projects.rows, table.Row{p.Name, p.Description, p.Link})
	}

	articles := section{title: "Articles", header: table.Row{"Date", "Title", "Tags", "File"}, empty: "No articles."}
	for _, a := range rpt.Articles {
		articles.rows = append(articles.rows, table.Row{a.Date, a.Title, strings.Join(a.Tags, ", "), a.File})
	}

	skills := section{title: "Skills", header: table.Row{"Skill", "Icon"}, empty: "No skills."}
	for _, s := range rpt.Skills {
		skills.rows = append(skills.rows, table.Row{s.Label, s.Icon})
	}

	experience := section{title: "Experience", header: table.Row{"Role", "Company", "Duration", "Points"}, empty: "No experience."}
	for _, e := range rpt.Experience {
		experience.rows = append(experience.rows, table.Row{e.Role, e.Company, e.Duration, strings.Join(e.Points, "\n")})
	}

	return []section{panels, projects, articles, skills, experience}
}

func (f *ConsoleFormatter) renderTable(s section, termWidth int, w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.DrawBorder = true

	tw.AppendHeader(s.header)
	if configs := f.buildColumnConfig(len(s.header), termWidth); len(configs) > 0 {
		tw.SetColumnConfigs(configs)
	}
	tw.AppendRows(s.rows)
	tw.Render()
}

// stateCell returns the state (with optional color) of a panel.
func (f *ConsoleFormatter) stateCell(p report.PanelReport) string {
	switch {
	case p.Error != nil:
		return f.color(strings.ToUpper(p.State), text.FgRed)
	case p.Items == 0:
		return f.color(p.State, text.FgHiBlack)
	default:
		return f.color(p.State, text.FgGreen)
	}
}

// buildColumnConfig splits the terminal width evenly between columns.
func (f *ConsoleFormatter) buildColumnConfig(cols, termWidth int) []table.ColumnConfig {
	width := f.MaxColWidth
	if width <= 0 {
		if termWidth <= 0 || cols == 0 {
			// Fallback: do not constrain if width unknown
			return nil
		}
		// Guard rails
		if termWidth < 60 {
			termWidth = 60
		}
		width = (termWidth - 3*cols - 1) / cols
		if width < 8 {
			width = 8
		}
	}

	configs := make([]table.ColumnConfig, 0, cols)
	for i := 0; i < cols; i++ {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			WidthMax:    width,
			WidthMin:    minInt(5, width),
			Transformer: truncTransformer(width),
		})
	}
	return configs
}

// detectTerminalWidth attempts to get terminal width if writer is a file (stdout/stderr).
func detectTerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			return width
		}
	}
	return -1
}

// truncTransformer returns a text.Transformer to ellipsize overly wide cells.
// Multi-line cells are truncated per line.
func truncTransformer(max int) text.Transformer {
	return func(val interface{}) string {
		lines := strings.Split(fmt.Sprint(val), "\n")
		for i, l := range lines {
			lines[i] = truncateRunes(l, max)
		}
		return strings.Join(lines, "\n")
	}
}

// truncateRunes truncates a string to (max) runes with ellipsis.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	var b strings.Builder
	count := 0
	for _, r := range s {
		if count >= max-1 {
			break
		}
		b.WriteRune(r)
		count++
	}
	b.WriteRune('…')
	return b.String()
}

func (f *ConsoleFormatter) color(s string, c text.Color) string {
	if !f.EnableColors {
		return s
	}
	return text.Colors{c}.Sprint(s)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// RenderConsole renders the provided Report to the writer using the default console formatter.
func RenderConsole(rpt *report.Report, w io.Writer) error {
	return NewConsoleFormatter().Render(rpt, w)
}
