// Package report renders a score as a self-contained HTML document.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ericfisherdev/prpulse/internal/domain/model"
)

// templateFS holds the embedded report template.
//
//go:embed template/report.html.tmpl
var templateFS embed.FS

var reportTmpl = template.Must(template.ParseFS(templateFS, "template/report.html.tmpl"))

// Row is one metric line in the report table.
type Row struct {
	Name   string
	Value  string
	Legend string
}

// Data carries everything the template needs to render one report.
type Data struct {
	Repo        string
	PRNumber    *int
	PRTitle     string
	PRBodyHTML  template.HTML
	GeneratedAt time.Time
	Rows        []Row
}

// Build assembles template data from a score and its display metadata.
// prTitle and prBody are empty for repository-level scores; the body is
// rendered from markdown and sanitized before it reaches the template.
func Build(repo string, score model.Score, prTitle, prBody string) Data {
	rows := make([]Row, 0, len(score.Metrics))
	for _, m := range score.Metrics {
		rows = append(rows, Row{
			Name:   m.Kind.DisplayName(),
			Value:  formatValue(m.Value),
			Legend: m.Kind.Legend(),
		})
	}

	return Data{
		Repo:        repo,
		PRNumber:    score.PRNumber,
		PRTitle:     prTitle,
		PRBodyHTML:  template.HTML(RenderMarkdown(prBody)),
		GeneratedAt: time.Now(),
		Rows:        rows,
	}
}

// Render writes the HTML document for data to w.
func Render(w io.Writer, data Data) error {
	if err := reportTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}
	return nil
}

// WriteFile renders the report into a freshly created file at path.
func WriteFile(path string, data Data) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file %s: %w", path, err)
	}
	if err := Render(f, data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file %s: %w", path, err)
	}
	return nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', 2, 64)
	case model.TestToCodeRatio:
		return fmt.Sprintf("%.2f (%d loc / %d test loc)", val.Ratio, val.LOC, val.TestLOC)
	default:
		return fmt.Sprint(val)
	}
}
