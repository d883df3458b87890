package site

import (
	"fmt"
	stdhtml "html"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dsc-courses/practicebank/internal/ast"
	"github.com/dsc-courses/practicebank/internal/bank"
	"github.com/dsc-courses/practicebank/internal/config"
	"github.com/dsc-courses/practicebank/internal/errors"
	"github.com/dsc-courses/practicebank/internal/logfields"
	"github.com/dsc-courses/practicebank/internal/metrics"
	"github.com/dsc-courses/practicebank/internal/render/html"
)

// TagsDir is the output subdirectory holding the per-tag pages.
const TagsDir = "tags"

// Generator writes a loaded bank out as a static site. The zero value is not
// usable; construct with NewGenerator.
type Generator struct {
	tpl *Template
	rec metrics.Recorder
}

// NewGenerator builds a Generator. A nil recorder disables metrics.
func NewGenerator(tpl *Template, rec metrics.Recorder) *Generator {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Generator{tpl: tpl, rec: rec}
}

// Generate renders the bank into outputDir, creating it if needed. Existing
// files are overwritten in place; files the generator does not own are left
// alone, so repeated builds into the same directory are safe.
func (g *Generator) Generate(b *bank.Bank, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.WriteFailed(outputDir, err)
	}

	for _, p := range b.Problems {
		if err := g.writeProblemPage(b, p, outputDir); err != nil {
			return err
		}
		if err := g.copyAssets(p, outputDir); err != nil {
			return err
		}
	}
	if err := g.writeTagPages(b, outputDir); err != nil {
		return err
	}
	for _, ts := range b.Config.Tagsets {
		if err := g.writeTagsetPage(b, ts, outputDir); err != nil {
			return err
		}
	}
	if err := g.writeIndexPage(b, outputDir); err != nil {
		return err
	}

	slog.Info("site generated",
		logfields.Bank(b.Root),
		logfields.Path(outputDir),
		slog.Int("problems", len(b.Problems)))
	return nil
}

// writeProblemPage renders one problem into <out>/<id>/index.html. Image
// paths need no prefix: assets are copied into the same directory.
func (g *Generator) writeProblemPage(b *bank.Bank, p *bank.Problem, outputDir string) error {
	r := &html.Renderer{}
	fragment, err := r.Render(p.Tree)
	if err != nil {
		return errors.ParseFailed(p.Identifier, err)
	}

	var body strings.Builder
	body.WriteString(`<div class="problem-outer">` + "\n")
	fmt.Fprintf(&body, "<h2>Problem #%s</h2>\n", stdhtml.EscapeString(p.Identifier))
	writeTagLine(&body, p, "../"+TagsDir)
	body.WriteString(fragment)
	body.WriteString("\n</div>\n")

	title := fmt.Sprintf("%s - Problem #%s", b.Config.Title, p.Identifier)
	page, err := g.tpl.Render(title, "..", body.String())
	if err != nil {
		return err
	}
	return g.writePage(filepath.Join(outputDir, p.Identifier, "index.html"), page)
}

// copyAssets copies every file the problem's images reference into the
// problem's output directory, preserving relative paths.
func (g *Generator) copyAssets(p *bank.Problem, outputDir string) error {
	var paths []string
	ast.Walk(p.Tree, func(n ast.Node) {
		if img, ok := n.(*ast.Image); ok {
			paths = append(paths, img.RelativePath)
		}
	})
	sort.Strings(paths)
	for _, rel := range paths {
		src := filepath.Join(p.Dir, filepath.FromSlash(rel))
		dst := filepath.Join(outputDir, p.Identifier, filepath.FromSlash(rel))
		if err := copyFile(src, dst); err != nil {
			return errors.WriteFailed(dst, err)
		}
	}
	return nil
}

// writeTagPages writes <out>/tags/<slug>.html, one per tag in the bank.
func (g *Generator) writeTagPages(b *bank.Bank, outputDir string) error {
	for _, tag := range b.Tags() {
		var body strings.Builder
		fmt.Fprintf(&body, "<h1>%s</h1>\n", stdhtml.EscapeString(tag))
		if err := g.writeProblemList(&body, problemsWithTag(b, tag), ".."); err != nil {
			return err
		}

		title := fmt.Sprintf("%s - %s", b.Config.Title, tag)
		page, err := g.tpl.Render(title, "..", body.String())
		if err != nil {
			return err
		}
		out := filepath.Join(outputDir, TagsDir, Slugify(tag)+".html")
		if err := g.writePage(out, page); err != nil {
			return err
		}
	}
	return nil
}

// writeTagsetPage writes <out>/<identifier>.html with one section per
// selected tag.
func (g *Generator) writeTagsetPage(b *bank.Bank, ts config.Tagset, outputDir string) error {
	tags := ts.Tags.Tags
	if ts.Tags.All {
		tags = b.Tags()
	}

	var body strings.Builder
	fmt.Fprintf(&body, "<h1>%s</h1>\n", stdhtml.EscapeString(ts.Title))
	if ts.Description != "" {
		fmt.Fprintf(&body, "<p>%s</p>\n", stdhtml.EscapeString(ts.Description))
	}
	for _, tag := range tags {
		problems := problemsWithTag(b, tag)
		if len(problems) == 0 {
			continue
		}
		fmt.Fprintf(&body, "<h2>%s</h2>\n", stdhtml.EscapeString(tag))
		if err := g.writeProblemList(&body, problems, "."); err != nil {
			return err
		}
	}

	title := fmt.Sprintf("%s - %s", b.Config.Title, ts.Title)
	page, err := g.tpl.Render(title, ".", body.String())
	if err != nil {
		return err
	}
	return g.writePage(filepath.Join(outputDir, ts.Identifier+".html"), page)
}

// writeIndexPage writes the site index: description, tagset links, tag
// links, and the full problem list.
func (g *Generator) writeIndexPage(b *bank.Bank, outputDir string) error {
	var body strings.Builder
	fmt.Fprintf(&body, "<h1>%s</h1>\n", stdhtml.EscapeString(b.Config.Title))
	if b.Config.Description != "" {
		fmt.Fprintf(&body, "<p>%s</p>\n", stdhtml.EscapeString(b.Config.Description))
	}

	if len(b.Config.Tagsets) > 0 {
		body.WriteString("<h2>Collections</h2>\n<ul>\n")
		for _, ts := range b.Config.Tagsets {
			fmt.Fprintf(&body, `<li><a href="%s.html">%s</a></li>`+"\n",
				ts.Identifier, stdhtml.EscapeString(ts.Title))
		}
		body.WriteString("</ul>\n")
	}

	if tags := b.Tags(); len(tags) > 0 {
		body.WriteString("<h2>Tags</h2>\n<ul>\n")
		for _, tag := range tags {
			fmt.Fprintf(&body, `<li><a href="%s/%s.html">%s</a></li>`+"\n",
				TagsDir, Slugify(tag), stdhtml.EscapeString(tag))
		}
		body.WriteString("</ul>\n")
	}

	body.WriteString("<h2>Problems</h2>\n<ul>\n")
	for _, p := range b.Problems {
		fmt.Fprintf(&body, `<li><a href="%s/index.html">Problem #%s</a>`+"\n",
			p.Identifier, stdhtml.EscapeString(p.Identifier))
		writeTagLine(&body, p, TagsDir)
		body.WriteString("</li>\n")
	}
	body.WriteString("</ul>\n")

	page, err := g.tpl.Render(b.Config.Title, ".", body.String())
	if err != nil {
		return err
	}
	return g.writePage(filepath.Join(outputDir, "index.html"), page)
}

// writeProblemList renders the given problems in full, each linked to its
// own page. relativeRoot is the path from the current page to the site root.
func (g *Generator) writeProblemList(body *strings.Builder, problems []*bank.Problem, relativeRoot string) error {
	for _, p := range problems {
		r := &html.Renderer{ImagePrefix: relativeRoot + "/" + p.Identifier}
		fragment, err := r.Render(p.Tree)
		if err != nil {
			return errors.ParseFailed(p.Identifier, err)
		}
		body.WriteString(`<div class="problem-outer">` + "\n")
		fmt.Fprintf(body, `<h3><a href="%s/%s/index.html">Problem #%s</a></h3>`+"\n",
			relativeRoot, p.Identifier, stdhtml.EscapeString(p.Identifier))
		writeTagLine(body, p, relativeRoot+"/"+TagsDir)
		body.WriteString(fragment)
		body.WriteString("\n</div>\n")
	}
	return nil
}

func (g *Generator) writePage(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WriteFailed(path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.WriteFailed(path, err)
	}
	g.rec.AddPagesWritten(1)
	slog.Debug("page written", logfields.Page(path))
	return nil
}

// writeTagLine emits the tag links and source line for a problem, if any.
func writeTagLine(body *strings.Builder, p *bank.Problem, tagsDir string) {
	if p.Metadata.HasTags() {
		var links []string
		for _, tag := range p.Metadata.Tags {
			links = append(links, fmt.Sprintf(`<a href="%s/%s.html">%s</a>`,
				tagsDir, Slugify(tag), stdhtml.EscapeString(tag)))
		}
		fmt.Fprintf(body, `<p class="tags">tags: %s</p>`+"\n", strings.Join(links, ", "))
	}
	if p.Metadata.Source != "" {
		fmt.Fprintf(body, `<p class="source">source: %s</p>`+"\n",
			stdhtml.EscapeString(p.Metadata.Source))
	}
}

func problemsWithTag(b *bank.Bank, tag string) []*bank.Problem {
	var out []*bank.Problem
	for _, p := range b.Problems {
		for _, t := range p.Metadata.Tags {
			if t == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
