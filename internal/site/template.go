// Package site renders a loaded bank into a static HTML tree: one page per
// problem, one page per tag, one page per configured tagset, and an index.
package site

import (
	"strings"
	"text/template"

	"github.com/dsc-courses/practicebank/internal/errors"
)

// DefaultTemplate is the page shell used when the bank does not configure
// its own. Rendered problem HTML already carries its own markup, so the
// default stays minimal.
const DefaultTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`

// Template wraps a parsed page template. The page shell sees three fields:
// Title, Body, and RelativeRoot (the relative path from the page back to the
// site root, e.g. "." or "..").
type Template struct {
	tpl *template.Template
}

// ParseTemplate compiles a page template. Referencing a field outside the
// supported set fails at render time, not parse time, because templates may
// reference fields inside conditionals.
func ParseTemplate(text string) (*Template, error) {
	tpl, err := template.New("page").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, errors.TemplateField(err)
	}
	return &Template{tpl: tpl}, nil
}

// Render executes the template for one page.
func (t *Template) Render(title, relativeRoot, body string) (string, error) {
	var buf strings.Builder
	data := map[string]string{
		"Title":        title,
		"RelativeRoot": relativeRoot,
		"Body":         body,
	}
	if err := t.tpl.Execute(&buf, data); err != nil {
		return "", errors.TemplateField(err)
	}
	return buf.String(), nil
}
