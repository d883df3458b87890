// Package bank loads a practice bank from disk: it validates the bank's
// shape, walks the numbered problem directories in numeric order, and turns
// each into a problem record.
package bank

import (
	"github.com/dsc-courses/practicebank/internal/ast"
	"github.com/dsc-courses/practicebank/internal/config"
	"github.com/dsc-courses/practicebank/internal/frontmatter"
	"github.com/dsc-courses/practicebank/internal/parser"
)

// Recognized problem filenames. A problem directory must contain exactly one.
const (
	MarkdownFile = "problem.md"
	LaTeXFile    = "problem.tex"
)

// Problem is the record produced by loading one problem directory.
type Problem struct {
	Identifier string // directory name, zero padding preserved
	Number     int    // numeric value of the identifier
	Format     parser.Format
	Dir        string
	Metadata   frontmatter.Metadata
	Tree       *ast.Problem
}

// Bank is a fully loaded practice bank.
type Bank struct {
	Root     string
	Config   *config.Config
	Problems []*Problem
}

// Tags returns every tag in the bank, sorted and deduplicated.
func (b *Bank) Tags() []string {
	return collectTags(b.Problems)
}

// Untagged returns the identifiers of problems that declare no tags.
func (b *Bank) Untagged() []string {
	var out []string
	for _, p := range b.Problems {
		if !p.Metadata.HasTags() {
			out = append(out, p.Identifier)
		}
	}
	return out
}
