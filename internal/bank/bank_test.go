package bank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsc-courses/practicebank/internal/config"
	"github.com/dsc-courses/practicebank/internal/errors"
	"github.com/dsc-courses/practicebank/internal/frontmatter"
	"github.com/dsc-courses/practicebank/internal/parser"
)

func newBankDir(t *testing.T, configYAML string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte(configYAML), 0o644))
	return root
}

func addProblem(t *testing.T, root, name, filename, content string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644))
	return dir
}

const markdownProblem = "---\ntags: [\"algebra\"]\nsource: \"midterm\"\n---\n# What is 2+2?\n"

func TestLoadProblem_Markdown_AttachesMetadataAndTree(t *testing.T) {
	root := t.TempDir()
	dir := addProblem(t, root, "01", MarkdownFile, markdownProblem)

	problem, err := LoadProblem(dir, frontmatter.PolicyPreserve)
	require.NoError(t, err)
	require.Equal(t, "01", problem.Identifier)
	require.Equal(t, 1, problem.Number)
	require.Equal(t, parser.FormatGSMD, problem.Format)
	require.Equal(t, []string{"algebra"}, problem.Metadata.Tags)
	require.Equal(t, "midterm", problem.Metadata.Source)
	require.NotEmpty(t, problem.Tree.Children())
}

func TestLoadProblem_LaTeX_ParsesCommentFrontmatter(t *testing.T) {
	root := t.TempDir()
	dir := addProblem(t, root, "02", LaTeXFile,
		"%% tags:\n%%   - calculus\n\\begin{prob}compute $2+2$\\end{prob}\n")

	problem, err := LoadProblem(dir, frontmatter.PolicyPreserve)
	require.NoError(t, err)
	require.Equal(t, parser.FormatDSCTeX, problem.Format)
	require.Equal(t, []string{"calculus"}, problem.Metadata.Tags)
}

func TestLoadProblem_BothFiles_AmbiguousFormat(t *testing.T) {
	root := t.TempDir()
	dir := addProblem(t, root, "01", MarkdownFile, "# hi\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, LaTeXFile), []byte(`\begin{prob}\end{prob}`), 0o644))

	_, err := LoadProblem(dir, frontmatter.PolicyPreserve)
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryProblem))
	require.Contains(t, err.Error(), "both")
}

func TestLoadProblem_NeitherFile_MissingProblem(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "01")
	require.NoError(t, os.MkdirAll(dir, 0o750))

	_, err := LoadProblem(dir, frontmatter.PolicyPreserve)
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryProblem))
	require.Contains(t, err.Error(), "neither")
}

func TestLoadProblem_MalformedFrontmatter_MetadataError(t *testing.T) {
	root := t.TempDir()
	dir := addProblem(t, root, "01", MarkdownFile, "---\ntags: algebra\n---\nbody\n")

	_, err := LoadProblem(dir, frontmatter.PolicyPreserve)
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryMetadata))
}

func TestLoadProblem_ParserRejectsBody_ParseError(t *testing.T) {
	root := t.TempDir()
	dir := addProblem(t, root, "01", LaTeXFile, `\begin{prob}\frobnicate\end{prob}`)

	_, err := LoadProblem(dir, frontmatter.PolicyPreserve)
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryParse))
	require.Contains(t, err.Error(), "frobnicate")
}

func TestLoad_MissingConfig_Fails(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestLoad_OrdersProblemsNumerically(t *testing.T) {
	root := newBankDir(t, "")
	for _, name := range []string{"2", "10", "1"} {
		addProblem(t, root, name, MarkdownFile, "# p"+name+"\n")
	}

	b, err := Load(root)
	require.NoError(t, err)

	var order []string
	for _, p := range b.Problems {
		order = append(order, p.Identifier)
	}
	require.Equal(t, []string{"1", "2", "10"}, order)
}

func TestLoad_SkipsNonNumericDirectoriesByDefault(t *testing.T) {
	root := newBankDir(t, "")
	addProblem(t, root, "1", MarkdownFile, "# one\n")
	addProblem(t, root, "drafts", MarkdownFile, "# draft\n")
	addProblem(t, root, "_scratch", MarkdownFile, "# scratch\n")
	addProblem(t, root, ".hidden", MarkdownFile, "# hidden\n")

	b, err := Load(root)
	require.NoError(t, err)
	require.Len(t, b.Problems, 1)
}

func TestLoad_StrictMode_NonNumericDirectoryIsFatal(t *testing.T) {
	root := newBankDir(t, "strict: true\n")
	addProblem(t, root, "1", MarkdownFile, "# one\n")
	addProblem(t, root, "drafts", MarkdownFile, "# draft\n")

	_, err := Load(root)
	require.Error(t, err)
	require.Contains(t, err.Error(), "drafts")
}

func TestLoad_DuplicateNumericIdentifiers_Fails(t *testing.T) {
	root := newBankDir(t, "")
	addProblem(t, root, "1", MarkdownFile, "# one\n")
	addProblem(t, root, "01", MarkdownFile, "# also one\n")

	_, err := Load(root)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate")
}

func TestLoad_ProblemFailure_AbortsAndNamesDirectory(t *testing.T) {
	root := newBankDir(t, "")
	addProblem(t, root, "1", MarkdownFile, "# fine\n")
	badDir := filepath.Join(root, "2")
	require.NoError(t, os.MkdirAll(badDir, 0o750))

	_, err := Load(root)
	require.Error(t, err)
	require.Contains(t, err.Error(), badDir)
}

func TestBank_TagsAndUntagged(t *testing.T) {
	root := newBankDir(t, "")
	addProblem(t, root, "1", MarkdownFile, "---\ntags: [\"b\", \"a\"]\n---\n# one\n")
	addProblem(t, root, "2", MarkdownFile, "# two\n")

	b, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, b.Tags())
	require.Equal(t, []string{"2"}, b.Untagged())
}

func TestLoad_SignedDirectoryName_SkippedAsNonNumeric(t *testing.T) {
	root := newBankDir(t, "title: t\n")
	addProblem(t, root, "1", MarkdownFile, "# one\n")
	addProblem(t, root, "+1", MarkdownFile, "# impostor\n")

	b, err := Load(root)
	require.NoError(t, err)
	require.Len(t, b.Problems, 1)
	require.Equal(t, "1", b.Problems[0].Identifier)
}
