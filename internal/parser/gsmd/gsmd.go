// Package gsmd parses Gradescope-flavored Markdown problems.
//
// Goldmark does the Markdown parsing; this package walks the Goldmark AST and
// converts it into the problem document tree. Dollar-delimited math is carved
// out of text runs afterwards, since CommonMark has no math syntax.
package gsmd

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dsc-courses/practicebank/internal/ast"
)

// Parser converts Markdown problem bodies into document trees.
type Parser struct {
	md goldmark.Markdown
}

// New creates a Markdown problem parser.
func New() *Parser {
	return &Parser{md: goldmark.New()}
}

// Parse converts a Markdown body (frontmatter already removed) into a problem tree.
func (p *Parser) Parse(body []byte, _ string) (*ast.Problem, error) {
	root := p.md.Parser().Parse(text.NewReader(body))

	problem := &ast.Problem{}
	for block := root.FirstChild(); block != nil; block = block.NextSibling() {
		nodes, err := convertBlock(block, body)
		if err != nil {
			return nil, err
		}
		if err := ast.Append(problem, nodes...); err != nil {
			return nil, err
		}
	}
	return problem, nil
}

func convertBlock(n gmast.Node, src []byte) ([]ast.Node, error) {
	switch node := n.(type) {
	case *gmast.Heading:
		para := &ast.Paragraph{}
		if err := para.AddChild(&ast.BoldText{Text: nodeText(node, src)}); err != nil {
			return nil, err
		}
		return []ast.Node{para}, nil

	case *gmast.Paragraph:
		items, err := convertInlines(node, src)
		if err != nil {
			return nil, err
		}
		return groupInline(items)

	case *gmast.TextBlock:
		items, err := convertInlines(node, src)
		if err != nil {
			return nil, err
		}
		return groupInline(items)

	case *gmast.FencedCodeBlock:
		lang := ""
		if node.Info != nil {
			lang = string(node.Language(src))
		}
		return []ast.Node{&ast.Code{Language: lang, Code: blockLines(node, src)}}, nil

	case *gmast.CodeBlock:
		return []ast.Node{&ast.Code{Code: blockLines(node, src)}}, nil

	case *gmast.List:
		var out []ast.Node
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			for block := item.FirstChild(); block != nil; block = block.NextSibling() {
				nodes, err := convertBlock(block, src)
				if err != nil {
					return nil, err
				}
				out = append(out, nodes...)
			}
		}
		return out, nil

	case *gmast.Blockquote:
		var out []ast.Node
		for block := node.FirstChild(); block != nil; block = block.NextSibling() {
			nodes, err := convertBlock(block, src)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return out, nil

	case *gmast.ThematicBreak:
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported markdown construct %s", n.Kind())
	}
}

// convertInlines flattens a block's inline children into a mix of inline nodes
// and block-level nodes (images, display math) that must be hoisted out of the
// enclosing paragraph.
func convertInlines(parent gmast.Node, src []byte) ([]ast.Node, error) {
	var out []ast.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *gmast.Text:
			out = append(out, splitMath(string(node.Segment.Value(src)))...)
			if node.SoftLineBreak() || node.HardLineBreak() {
				out = append(out, &ast.NormalText{Text: "\n"})
			}

		case *gmast.String:
			out = append(out, splitMath(string(node.Value))...)

		case *gmast.Emphasis:
			inner := nodeText(node, src)
			if node.Level >= 2 {
				out = append(out, &ast.BoldText{Text: inner})
			} else {
				out = append(out, &ast.ItalicText{Text: inner})
			}

		case *gmast.CodeSpan:
			out = append(out, &ast.InlineCode{Code: nodeText(node, src)})

		case *gmast.Image:
			out = append(out, &ast.Image{RelativePath: string(node.Destination)})

		case *gmast.Link:
			out = append(out, &ast.NormalText{Text: nodeText(node, src)})

		case *gmast.AutoLink:
			out = append(out, &ast.NormalText{Text: string(node.URL(src))})

		default:
			return nil, fmt.Errorf("unsupported markdown construct %s", n.Kind())
		}
	}
	return out, nil
}

// groupInline wraps consecutive inline nodes into Paragraphs, leaving
// block-level nodes (images, display math) between them.
func groupInline(items []ast.Node) ([]ast.Node, error) {
	var out []ast.Node
	var para *ast.Paragraph

	flush := func() {
		if para != nil && len(para.Children()) > 0 {
			out = append(out, para)
		}
		para = nil
	}

	for _, item := range items {
		switch item.(type) {
		case *ast.Image, *ast.DisplayMath:
			flush()
			out = append(out, item)
		default:
			if para == nil {
				para = &ast.Paragraph{}
			}
			if err := para.AddChild(item); err != nil {
				return nil, err
			}
		}
	}
	flush()
	return out, nil
}

// splitMath carves $…$ and $$…$$ spans out of a text run. Unmatched dollar
// signs are left as literal text.
func splitMath(s string) []ast.Node {
	var out []ast.Node
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			out = append(out, &ast.NormalText{Text: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(s); {
		if s[i] != '$' {
			plain.WriteByte(s[i])
			i++
			continue
		}

		if strings.HasPrefix(s[i:], "$$") {
			end := strings.Index(s[i+2:], "$$")
			if end < 0 {
				plain.WriteString(s[i:])
				break
			}
			flush()
			out = append(out, &ast.DisplayMath{TeX: s[i+2 : i+2+end]})
			i += end + 4
			continue
		}

		end := strings.IndexByte(s[i+1:], '$')
		if end < 0 {
			plain.WriteString(s[i:])
			break
		}
		flush()
		out = append(out, &ast.InlineMath{TeX: s[i+1 : i+1+end]})
		i += end + 2
	}

	flush()
	return out
}

func nodeText(n gmast.Node, src []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(src))
		case *gmast.String:
			b.Write(node.Value)
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}

func blockLines(n gmast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}
