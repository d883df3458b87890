// Package parser is the boundary between the bank loader and the format
// engines that turn problem bodies into document trees.
package parser

import (
	"fmt"

	"github.com/dsc-courses/practicebank/internal/ast"
	"github.com/dsc-courses/practicebank/internal/parser/dsctex"
	"github.com/dsc-courses/practicebank/internal/parser/gsmd"
)

// Format identifies a problem source format.
type Format string

const (
	// FormatGSMD is Gradescope-flavored Markdown (problem.md).
	FormatGSMD Format = "gsmd"
	// FormatDSCTeX is the DSCTeX LaTeX dialect (problem.tex).
	FormatDSCTeX Format = "dsctex"
)

// Parser converts a problem body into a document tree. The problem directory
// is provided so engines can resolve file references (code listings, images).
type Parser interface {
	Parse(body []byte, problemDir string) (*ast.Problem, error)
}

// For returns the engine for a format.
func For(format Format) (Parser, error) {
	switch format {
	case FormatGSMD:
		return gsmd.New(), nil
	case FormatDSCTeX:
		return dsctex.New(), nil
	default:
		return nil, fmt.Errorf("unknown problem format %q", format)
	}
}
