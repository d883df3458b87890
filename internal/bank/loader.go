package bank

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/dsc-courses/practicebank/internal/errors"
	"github.com/dsc-courses/practicebank/internal/frontmatter"
	"github.com/dsc-courses/practicebank/internal/parser"
)

// LoadProblem loads a single problem directory: it detects the format,
// extracts frontmatter, and hands the body to the format's parser. The loader
// does not interpret the parsed tree; it only attaches metadata.
func LoadProblem(dir string, policy frontmatter.Policy) (*Problem, error) {
	mdPath := filepath.Join(dir, MarkdownFile)
	texPath := filepath.Join(dir, LaTeXFile)

	hasMD := fileExists(mdPath)
	hasTeX := fileExists(texPath)

	switch {
	case hasMD && hasTeX:
		return nil, errors.AmbiguousFormat(dir)
	case !hasMD && !hasTeX:
		return nil, errors.MissingProblem(dir)
	}

	format := parser.FormatGSMD
	sourcePath := mdPath
	if hasTeX {
		format = parser.FormatDSCTeX
		sourcePath = texPath
	}

	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, "failed to read problem file").
			WithContext("path", sourcePath)
	}

	var block, body []byte
	if format == parser.FormatGSMD {
		var splitErr error
		block, body, _, splitErr = frontmatter.Split(raw)
		if splitErr != nil {
			return nil, errors.MetadataInvalid(sourcePath, splitErr)
		}
	} else {
		block, body, _ = frontmatter.SplitComments(raw)
	}

	meta, err := frontmatter.Parse(block, policy)
	if err != nil {
		return nil, errors.MetadataInvalid(sourcePath, err)
	}

	engine, err := parser.For(format)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "no parser for format")
	}

	identifier := filepath.Base(dir)
	tree, err := engine.Parse(body, dir)
	if err != nil {
		return nil, errors.ParseFailed(identifier, err)
	}

	number, _ := strconv.Atoi(identifier)

	return &Problem{
		Identifier: identifier,
		Number:     number,
		Format:     format,
		Dir:        dir,
		Metadata:   meta,
		Tree:       tree,
	}, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
