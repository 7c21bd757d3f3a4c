package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/guttosm/tradelens/internal/domain/models"
	"github.com/guttosm/tradelens/internal/logger"
)

// Artifact file names inside the report directory.
const (
	SummaryFile  = "executive_summary.md"
	HTMLFile     = "executive_summary.html"
	WorkbookFile = "charts.xlsx"
)

const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Executive Summary</title>
</head>
<body>
%s</body>
</html>
`

var converter = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Artifacts lists the files written by Write.
type Artifacts struct {
	Summary  string
	HTML     string
	Workbook string
}

// RenderHTML converts the markdown summary into a standalone HTML page.
func RenderHTML(markdown string) (string, error) {
	var body bytes.Buffer
	if err := converter.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return fmt.Sprintf(htmlShell, body.String()), nil
}

// Write renders every artifact in memory first and only then touches dir,
// so a rendering failure leaves no partial report behind.
func Write(dir string, r *models.Report) (Artifacts, error) {
	lg := logger.Component("report")
	start := time.Now()

	summary, err := Markdown(r)
	if err != nil {
		return Artifacts{}, err
	}
	page, err := RenderHTML(summary)
	if err != nil {
		return Artifacts{}, err
	}
	var book bytes.Buffer
	if err := WriteWorkbook(&book, r); err != nil {
		return Artifacts{}, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifacts{}, fmt.Errorf("create report dir: %w", err)
	}
	out := Artifacts{
		Summary:  filepath.Join(dir, SummaryFile),
		HTML:     filepath.Join(dir, HTMLFile),
		Workbook: filepath.Join(dir, WorkbookFile),
	}
	files := []struct {
		path string
		data []byte
	}{
		{out.Summary, []byte(summary)},
		{out.HTML, []byte(page)},
		{out.Workbook, book.Bytes()},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			return Artifacts{}, fmt.Errorf("write %s: %w", f.path, err)
		}
	}

	lg.Info().Str("dir", dir).Int("sheets", len(models.ViewNames)).Dur("elapsed", time.Since(start)).Msg("report written")
	return out, nil
}
