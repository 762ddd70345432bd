package render

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Zuo-Peng/decision-trail/internal/profile"
)

//go:embed templates
var templateFS embed.FS

var (
	mdTemplate   = template.Must(template.ParseFS(templateFS, "templates/profile.md.tmpl"))
	htmlTemplate = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/profile.html.tmpl"))
)

// Profile output formats.
const (
	FormatMarkdown = "md"
	FormatHTML     = "html"
	FormatBoth     = "both"
)

// ProfileMarkdown renders the profile as markdown.
func ProfileMarkdown(data *profile.Data) (string, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render profile markdown: %w", err)
	}
	return buf.String(), nil
}

// ProfileHTML renders the profile as a standalone page with inlined CSS.
func ProfileHTML(data *profile.Data) (string, error) {
	css, err := templateFS.ReadFile("templates/base.css")
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = htmlTemplate.Execute(&buf, struct {
		CSS  htmltemplate.CSS
		Data *profile.Data
	}{htmltemplate.CSS(css), data})
	if err != nil {
		return "", fmt.Errorf("render profile html: %w", err)
	}
	return buf.String(), nil
}

// WriteProfile writes the markdown profile to mdPath and/or index.html
// under htmlDir depending on format, returning the written paths.
func WriteProfile(data *profile.Data, format, mdPath, htmlDir string) ([]string, error) {
	var written []string

	if format == FormatMarkdown || format == FormatBoth {
		md, err := ProfileMarkdown(data)
		if err != nil {
			return written, err
		}
		if err := writeFile(mdPath, md); err != nil {
			return written, err
		}
		written = append(written, mdPath)
	}

	if format == FormatHTML || format == FormatBoth {
		page, err := ProfileHTML(data)
		if err != nil {
			return written, err
		}
		p := filepath.Join(htmlDir, "index.html")
		if err := writeFile(p, page); err != nil {
			return written, err
		}
		written = append(written, p)
	}

	if len(written) == 0 {
		return nil, fmt.Errorf("unknown profile format %q (want md, html or both)", format)
	}
	return written, nil
}

func writeFile(p, text string) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}
