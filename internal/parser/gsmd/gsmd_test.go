package gsmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsc-courses/practicebank/internal/ast"
)

func parseString(t *testing.T, src string) *ast.Problem {
	t.Helper()
	problem, err := New().Parse([]byte(src), t.TempDir())
	require.NoError(t, err)
	return problem
}

func TestParse_Heading_BecomesBoldParagraph(t *testing.T) {
	problem := parseString(t, "# What is 2+2?\n")

	require.Len(t, problem.Children(), 1)
	para, ok := problem.Children()[0].(*ast.Paragraph)
	require.True(t, ok)
	require.Equal(t, &ast.BoldText{Text: "What is 2+2?"}, para.Children()[0])
}

func TestParse_Paragraph_WithEmphasis(t *testing.T) {
	problem := parseString(t, "hello **bold** and *slanted* world\n")

	para := problem.Children()[0].(*ast.Paragraph)
	children := para.Children()
	require.Equal(t, &ast.NormalText{Text: "hello "}, children[0])
	require.Equal(t, &ast.BoldText{Text: "bold"}, children[1])
	require.Equal(t, &ast.NormalText{Text: " and "}, children[2])
	require.Equal(t, &ast.ItalicText{Text: "slanted"}, children[3])
	require.Equal(t, &ast.NormalText{Text: " world"}, children[4])
}

func TestParse_InlineCodeSpan(t *testing.T) {
	problem := parseString(t, "run `x = 1` first\n")

	para := problem.Children()[0].(*ast.Paragraph)
	require.Equal(t, &ast.InlineCode{Code: "x = 1"}, para.Children()[1])
}

func TestParse_FencedCodeBlock(t *testing.T) {
	problem := parseString(t, "```python\ndef f(x):\n    return x + 1\n```\n")

	require.Equal(t, &ast.Code{
		Language: "python",
		Code:     "def f(x):\n    return x + 1\n",
	}, problem.Children()[0])
}

func TestParse_InlineMath(t *testing.T) {
	problem := parseString(t, "compute $f(x) = 42$ please\n")

	para := problem.Children()[0].(*ast.Paragraph)
	require.Equal(t, &ast.InlineMath{TeX: "f(x) = 42"}, para.Children()[1])
}

func TestParse_DisplayMath_HoistedOutOfParagraph(t *testing.T) {
	problem := parseString(t, "consider\n\n$$f(x) = 42$$\n")

	require.Len(t, problem.Children(), 2)
	require.Equal(t, &ast.DisplayMath{TeX: "f(x) = 42"}, problem.Children()[1])
}

func TestParse_UnmatchedDollar_StaysLiteral(t *testing.T) {
	problem := parseString(t, "it costs $5\n")

	para := problem.Children()[0].(*ast.Paragraph)
	require.Equal(t, &ast.NormalText{Text: "it costs $5"}, para.Children()[0])
}

func TestParse_Image_HoistedOutOfParagraph(t *testing.T) {
	problem := parseString(t, "see below\n\n![a plot](plot.png)\n")

	require.Len(t, problem.Children(), 2)
	require.Equal(t, &ast.Image{RelativePath: "plot.png"}, problem.Children()[1])
}

func TestParse_List_FlattensItemsToParagraphs(t *testing.T) {
	problem := parseString(t, "- first\n- second\n")

	require.Len(t, problem.Children(), 2)
	first := problem.Children()[0].(*ast.Paragraph)
	require.Equal(t, &ast.NormalText{Text: "first"}, first.Children()[0])
}

func TestParse_EmptyBody_EmptyProblem(t *testing.T) {
	problem := parseString(t, "")
	require.Empty(t, problem.Children())
}

func TestParse_RawHTML_Fails(t *testing.T) {
	_, err := New().Parse([]byte("<div>nope</div>\n"), t.TempDir())
	require.Error(t, err)
}
