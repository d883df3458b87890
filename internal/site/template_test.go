package site

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsc-courses/practicebank/internal/errors"
)

func TestUnit_Template_DefaultRendersTitleAndBody(t *testing.T) {
	tpl, err := ParseTemplate(DefaultTemplate)
	require.NoError(t, err)

	page, err := tpl.Render("My Bank", ".", "<p>hello</p>")
	require.NoError(t, err)

	require.Contains(t, page, "<title>My Bank</title>")
	require.Contains(t, page, "<p>hello</p>")
}

func TestUnit_Template_RelativeRootIsAvailable(t *testing.T) {
	tpl, err := ParseTemplate(`<link href="{{.RelativeRoot}}/style.css">`)
	require.NoError(t, err)

	page, err := tpl.Render("t", "..", "")
	require.NoError(t, err)

	require.Equal(t, `<link href="../style.css">`, page)
}

func TestUnit_Template_UnknownFieldFailsAtRender(t *testing.T) {
	tpl, err := ParseTemplate(`{{.Title}} {{.Nonsense}}`)
	require.NoError(t, err)

	_, err = tpl.Render("t", ".", "")
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryTemplate))
}

func TestUnit_Template_SyntaxErrorFailsAtParse(t *testing.T) {
	_, err := ParseTemplate(`{{.Title`)
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryTemplate))
}

func TestUnit_Slugify_NormalizesTags(t *testing.T) {
	cases := map[string]string{
		"algebra":         "algebra",
		"Linear Algebra":  "linear-algebra",
		"naïve bayes":     "naive-bayes",
		"k-means":         "k-means",
		"big O":           "big-o",
		"  padded  ":      "padded",
		"under_score":     "under-score",
		"symbols!@#here":  "symbolshere",
		"statistics 101":  "statistics-101",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), "input %q", in)
	}
}
