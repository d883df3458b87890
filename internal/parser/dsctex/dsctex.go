// Package dsctex parses problems written in the DSCTeX LaTeX dialect.
//
// The dialect is a closed set of environments and commands (prob, subprob,
// choices, soln, minted, math forms, and a handful of inline commands);
// anything outside that set is a parse error. Math bodies are not interpreted,
// they pass through for client-side typesetting.
package dsctex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsc-courses/practicebank/internal/ast"
)

// Parser converts DSCTeX problem bodies into document trees.
type Parser struct{}

// New creates a DSCTeX problem parser.
func New() *Parser { return &Parser{} }

// Parse converts a LaTeX body (frontmatter already removed) into a problem tree.
func (p *Parser) Parse(body []byte, problemDir string) (*ast.Problem, error) {
	s := &scanner{src: string(body), dir: problemDir}

	s.skipSpaceAndComments()
	if !s.consume(`\begin{prob}`) {
		return nil, fmt.Errorf(`problem must be wrapped in \begin{prob}...\end{prob}`)
	}

	problem := &ast.Problem{}
	nodes, err := s.parseNodes("prob", false)
	if err != nil {
		return nil, err
	}
	if err := ast.Append(problem, nodes...); err != nil {
		return nil, err
	}

	s.skipSpaceAndComments()
	if !s.atEnd() {
		return nil, fmt.Errorf(`unexpected content after \end{prob}`)
	}
	return problem, nil
}

type scanner struct {
	src string
	pos int
	dir string
}

func (s *scanner) atEnd() bool { return s.pos >= len(s.src) }

func (s *scanner) rest() string { return s.src[s.pos:] }

func (s *scanner) consume(prefix string) bool {
	if strings.HasPrefix(s.rest(), prefix) {
		s.pos += len(prefix)
		return true
	}
	return false
}

func (s *scanner) skipSpaceAndComments() {
	for !s.atEnd() {
		c := s.src[s.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			s.pos++
			continue
		}
		if c == '%' {
			s.skipToLineEnd()
			continue
		}
		return
	}
}

func (s *scanner) skipToLineEnd() {
	for !s.atEnd() && s.src[s.pos] != '\n' {
		s.pos++
	}
}

// parseNodes parses content until \end{env}. When stopAtChoice is set, the
// scanner stops (without consuming) at a top-level \choice or \correctchoice
// so the choices parser can segment its items.
func (s *scanner) parseNodes(env string, stopAtChoice bool) ([]ast.Node, error) {
	var nodes []ast.Node
	var text strings.Builder

	flushText := func() {
		if strings.TrimSpace(text.String()) != "" {
			nodes = append(nodes, &ast.NormalText{Text: text.String()})
		}
		text.Reset()
	}

	for {
		if s.atEnd() {
			return nil, fmt.Errorf(`missing \end{%s}`, env)
		}

		c := s.src[s.pos]
		switch c {
		case '%':
			s.skipToLineEnd()

		case '$':
			flushText()
			node, err := s.parseDollarMath()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)

		case '\\':
			if s.consume(`\end{` + env + `}`) {
				flushText()
				return nodes, nil
			}
			if strings.HasPrefix(s.rest(), `\end{`) {
				return nil, fmt.Errorf(`unexpected %s while inside %s`, firstToken(s.rest()), env)
			}
			if stopAtChoice && (strings.HasPrefix(s.rest(), `\choice`) || strings.HasPrefix(s.rest(), `\correctchoice`)) {
				flushText()
				return nodes, nil
			}

			flushText()
			parsed, err := s.parseCommand()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, parsed...)

		default:
			text.WriteByte(c)
			s.pos++
		}
	}
}

// parseCommand handles the token at a backslash: an environment opener,
// display math brackets, an escape, or a named command.
func (s *scanner) parseCommand() ([]ast.Node, error) {
	if s.consume(`\begin{`) {
		name, err := s.readUntil('}')
		if err != nil {
			return nil, err
		}
		return s.parseEnvironment(name)
	}

	if s.consume(`\[`) {
		tex, err := s.readUntilSeq(`\]`)
		if err != nil {
			return nil, err
		}
		return []ast.Node{&ast.DisplayMath{TeX: strings.TrimSpace(tex)}}, nil
	}

	if s.consume(`\\`) {
		return []ast.Node{&ast.NormalText{Text: "\n"}}, nil
	}
	if s.consume(`\$`) {
		return []ast.Node{&ast.NormalText{Text: "$"}}, nil
	}

	s.pos++ // the backslash
	name := s.readCommandName()
	if name == "" {
		return nil, fmt.Errorf("stray backslash at %s", firstToken(s.rest()))
	}

	switch name {
	case "textbf":
		arg, err := s.readGroup()
		if err != nil {
			return nil, err
		}
		return []ast.Node{&ast.BoldText{Text: arg}}, nil

	case "textit":
		arg, err := s.readGroup()
		if err != nil {
			return nil, err
		}
		return []ast.Node{&ast.ItalicText{Text: arg}}, nil

	case "mintinline":
		lang, err := s.readGroup()
		if err != nil {
			return nil, err
		}
		code, err := s.readGroup()
		if err != nil {
			return nil, err
		}
		return []ast.Node{&ast.InlineCode{Language: lang, Code: code}}, nil

	case "inputminted":
		lang, err := s.readGroup()
		if err != nil {
			return nil, err
		}
		relpath, err := s.readGroup()
		if err != nil {
			return nil, err
		}
		relpath = stripThisDir(relpath)
		code, err := os.ReadFile(filepath.Join(s.dir, relpath))
		if err != nil {
			return nil, fmt.Errorf(`\inputminted: %w`, err)
		}
		return []ast.Node{&ast.Code{Language: lang, Code: string(code)}}, nil

	case "includegraphics":
		s.skipOptionalArg()
		relpath, err := s.readGroup()
		if err != nil {
			return nil, err
		}
		relpath = stripThisDir(relpath)
		if _, err := os.Stat(filepath.Join(s.dir, relpath)); err != nil {
			return nil, fmt.Errorf(`\includegraphics: %w`, err)
		}
		return []ast.Node{&ast.Image{RelativePath: relpath}}, nil

	case "Tf":
		return []ast.Node{&ast.TrueFalse{Solution: true}}, nil
	case "tF":
		return []ast.Node{&ast.TrueFalse{Solution: false}}, nil

	case "inlineresponsebox":
		s.skipOptionalArg()
		blank := &ast.FillInTheBlank{}
		if !s.atEnd() && s.src[s.pos] == '{' {
			arg, err := s.readGroup()
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(arg) != "" {
				if err := blank.AddChild(&ast.NormalText{Text: arg}); err != nil {
					return nil, err
				}
			}
		}
		return []ast.Node{blank}, nil

	case "choice", "correctchoice":
		return nil, fmt.Errorf(`\%s is only allowed inside a choices environment`, name)

	default:
		return nil, fmt.Errorf(`unknown command \%s`, name)
	}
}

func (s *scanner) parseEnvironment(name string) ([]ast.Node, error) {
	switch name {
	case "subprob":
		sub := &ast.Subproblem{}
		nodes, err := s.parseNodes("subprob", false)
		if err != nil {
			return nil, err
		}
		if err := ast.Append(sub, nodes...); err != nil {
			return nil, err
		}
		return []ast.Node{sub}, nil

	case "subprobset":
		// Transparent grouping: its subproblems attach to the problem directly.
		return s.parseNodes("subprobset", false)

	case "soln":
		soln := &ast.Solution{}
		nodes, err := s.parseNodes("soln", false)
		if err != nil {
			return nil, err
		}
		if err := ast.Append(soln, nodes...); err != nil {
			return nil, err
		}
		return []ast.Node{soln}, nil

	case "choices":
		return s.parseChoices()

	case "minted":
		lang, err := s.readGroup()
		if err != nil {
			return nil, err
		}
		raw, err := s.readUntilSeq(`\end{minted}`)
		if err != nil {
			return nil, err
		}
		return []ast.Node{&ast.Code{Language: lang, Code: dedent(raw)}}, nil

	case "displaymath", "align":
		raw, err := s.readUntilSeq(`\end{` + name + `}`)
		if err != nil {
			return nil, err
		}
		return []ast.Node{&ast.DisplayMath{TeX: strings.TrimSpace(raw)}}, nil

	default:
		return nil, fmt.Errorf("unknown environment %q", name)
	}
}

// parseChoices segments the environment body on \choice / \correctchoice
// markers. An optional [rectangle] argument makes it a select-all group.
func (s *scanner) parseChoices() ([]ast.Node, error) {
	opt := s.skipOptionalArg()

	var group ast.Container = &ast.MultipleChoices{}
	if opt == "rectangle" {
		group = &ast.MultipleSelect{}
	}

	// Content before the first marker must be blank.
	lead, err := s.parseNodes("choices", true)
	if err != nil {
		return nil, err
	}
	if len(lead) > 0 {
		return nil, fmt.Errorf(`content before the first \choice in a choices environment`)
	}

	for {
		if s.consume(`\end{choices}`) {
			return []ast.Node{group}, nil
		}

		correct := false
		switch {
		case s.consume(`\correctchoice`):
			correct = true
		case s.consume(`\choice`):
		default:
			return nil, fmt.Errorf(`expected \choice or \correctchoice, found %s`, firstToken(s.rest()))
		}

		choice := &ast.Choice{Correct: correct}
		nodes, err := s.parseNodes("choices", true)
		if err != nil {
			return nil, err
		}
		if err := ast.Append(choice, nodes...); err != nil {
			return nil, err
		}
		if err := group.AddChild(choice); err != nil {
			return nil, err
		}

		// parseNodes stopped either at the next marker or consumed \end{choices}.
		if !strings.HasPrefix(s.rest(), `\choice`) && !strings.HasPrefix(s.rest(), `\correctchoice`) {
			return []ast.Node{group}, nil
		}
	}
}

func (s *scanner) parseDollarMath() (ast.Node, error) {
	if s.consume("$$") {
		tex, err := s.readUntilSeq("$$")
		if err != nil {
			return nil, fmt.Errorf("unclosed $$ math")
		}
		return &ast.DisplayMath{TeX: strings.TrimSpace(tex)}, nil
	}
	s.pos++ // opening $
	tex, err := s.readUntilSeq("$")
	if err != nil {
		return nil, fmt.Errorf("unclosed $ math")
	}
	return &ast.InlineMath{TeX: tex}, nil
}

func (s *scanner) readCommandName() string {
	start := s.pos
	for !s.atEnd() {
		c := s.src[s.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			s.pos++
			continue
		}
		break
	}
	return s.src[start:s.pos]
}

// readGroup reads a {…} group, honoring nested braces, and returns the inner text.
func (s *scanner) readGroup() (string, error) {
	if s.atEnd() || s.src[s.pos] != '{' {
		return "", fmt.Errorf("expected {, found %s", firstToken(s.rest()))
	}
	s.pos++
	start := s.pos
	depth := 1
	for !s.atEnd() {
		switch s.src[s.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				inner := s.src[start:s.pos]
				s.pos++
				return inner, nil
			}
		}
		s.pos++
	}
	return "", fmt.Errorf("unclosed { group")
}

// skipOptionalArg consumes a [...] argument if present and returns its content.
func (s *scanner) skipOptionalArg() string {
	if s.atEnd() || s.src[s.pos] != '[' {
		return ""
	}
	s.pos++
	start := s.pos
	for !s.atEnd() && s.src[s.pos] != ']' {
		s.pos++
	}
	inner := s.src[start:s.pos]
	if !s.atEnd() {
		s.pos++
	}
	return inner
}

func (s *scanner) readUntil(stop byte) (string, error) {
	start := s.pos
	for !s.atEnd() {
		if s.src[s.pos] == stop {
			out := s.src[start:s.pos]
			s.pos++
			return out, nil
		}
		s.pos++
	}
	return "", fmt.Errorf("expected %q", string(stop))
}

func (s *scanner) readUntilSeq(stop string) (string, error) {
	idx := strings.Index(s.rest(), stop)
	if idx < 0 {
		return "", fmt.Errorf("expected %q", stop)
	}
	out := s.rest()[:idx]
	s.pos += idx + len(stop)
	return out, nil
}

func stripThisDir(relpath string) string {
	return strings.TrimPrefix(strings.TrimSpace(relpath), `\thisdir/`)
}

// dedent strips leading and trailing blank lines and the common leading
// whitespace of the remaining lines.
func dedent(s string) string {
	lines := strings.Split(s, "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	margin := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if margin < 0 || indent < margin {
			margin = indent
		}
	}
	if margin <= 0 {
		return strings.Join(lines, "\n")
	}

	for i, line := range lines {
		if len(line) >= margin {
			lines[i] = line[margin:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

func firstToken(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 20 {
		s = s[:20]
	}
	if s == "" {
		return "end of input"
	}
	return fmt.Sprintf("%q", s)
}
