// Package html renders problem document trees to HTML fragments.
//
// Math nodes are emitted with \( \) and \[ \] delimiters for client-side
// typesetting; code blocks carry language classes for client-side
// highlighting. Page shells around these fragments are the site package's
// concern.
package html

import (
	"fmt"
	stdhtml "html"
	"path"
	"strings"

	"github.com/dsc-courses/practicebank/internal/ast"
)

// Renderer renders problem trees to HTML. ImagePrefix, when set, is joined in
// front of every image path so pages outside the problem's own directory can
// still resolve its assets.
type Renderer struct {
	ImagePrefix string
}

// Render renders a problem tree to an HTML fragment.
func (r *Renderer) Render(problem *ast.Problem) (string, error) {
	var b strings.Builder
	if err := r.renderNode(problem, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *Renderer) renderNode(n ast.Node, b *strings.Builder) error {
	switch node := n.(type) {
	case *ast.Problem:
		return r.renderContainer(node, b, `<div class="problem">`, `</div>`)
	case *ast.Subproblem:
		return r.renderContainer(node, b, `<div class="subproblem">`, `</div>`)
	case *ast.Paragraph:
		return r.renderContainer(node, b, `<p>`, `</p>`)
	case *ast.Solution:
		return r.renderContainer(node, b, `<details><summary>Solution</summary>`, `</details>`)
	case *ast.MultipleChoices:
		return r.renderContainer(node, b, `<div class="multiple-choices">`, `</div>`)
	case *ast.MultipleSelect:
		return r.renderContainer(node, b, `<div class="multiple-select">`, `</div>`)
	case *ast.Choice:
		return r.renderContainer(node, b, `<div class="choice">`, `</div>`)

	case *ast.NormalText:
		b.WriteString(stdhtml.EscapeString(node.Text))
	case *ast.BoldText:
		fmt.Fprintf(b, "<b>%s</b>", stdhtml.EscapeString(node.Text))
	case *ast.ItalicText:
		fmt.Fprintf(b, "<i>%s</i>", stdhtml.EscapeString(node.Text))

	case *ast.InlineMath:
		fmt.Fprintf(b, `<span class="math">\(%s\)</span>`, stdhtml.EscapeString(node.TeX))
	case *ast.DisplayMath:
		fmt.Fprintf(b, `<div class="math">\[%s\]</div>`, stdhtml.EscapeString(node.TeX))

	case *ast.Code:
		fmt.Fprintf(b, `<pre class="code"><code%s>%s</code></pre>`,
			languageClass(node.Language), stdhtml.EscapeString(node.Code))
	case *ast.InlineCode:
		fmt.Fprintf(b, `<span class="code">%s</span>`, stdhtml.EscapeString(node.Code))

	case *ast.Image:
		src := node.RelativePath
		if r.ImagePrefix != "" {
			src = path.Join(r.ImagePrefix, src)
		}
		fmt.Fprintf(b, `<img src="%s" />`, stdhtml.EscapeString(src))

	case *ast.TrueFalse:
		b.WriteString(`<input type="checkbox" class="true-false" />`)
	case *ast.FillInTheBlank:
		b.WriteString(`<input type="text" class="fill-in-the-blank" />`)

	default:
		return fmt.Errorf("no renderer for node type %T", n)
	}
	return nil
}

func (r *Renderer) renderContainer(c ast.Container, b *strings.Builder, open, closing string) error {
	b.WriteString(open)
	for _, child := range c.Children() {
		if err := r.renderNode(child, b); err != nil {
			return err
		}
	}
	b.WriteString(closing)
	return nil
}

func languageClass(lang string) string {
	if lang == "" {
		return ""
	}
	return fmt.Sprintf(` class="language-%s"`, stdhtml.EscapeString(lang))
}
