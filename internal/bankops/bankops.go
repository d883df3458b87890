// Package bankops implements maintenance operations on a bank's directory
// tree: inserting problems, renumbering, and tag listings.
package bankops

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dsc-courses/practicebank/internal/bank"
	"github.com/dsc-courses/practicebank/internal/errors"
	"github.com/dsc-courses/practicebank/internal/logfields"
)

// Insert copies the problem directory at problemDir into the bank under the
// next free identifier and returns that identifier. The new identifier is
// the largest existing number plus one, zero padded to the width of the
// longest existing identifier. The inserted problem is not validated.
func Insert(bankRoot, problemDir string) (string, error) {
	b, err := bank.Load(bankRoot)
	if err != nil {
		return "", err
	}
	if len(b.Problems) == 0 {
		return "", errors.New(errors.CategoryProblem, "cannot infer identifier for an empty bank").
			WithContext("path", bankRoot)
	}

	largest := 0
	width := 0
	for _, p := range b.Problems {
		if p.Number > largest {
			largest = p.Number
		}
		if len(p.Identifier) > width {
			width = len(p.Identifier)
		}
	}
	identifier := pad(largest+1, width)

	dst := filepath.Join(bankRoot, identifier)
	if err := copyTree(problemDir, dst); err != nil {
		return "", errors.WriteFailed(dst, err)
	}

	slog.Info("problem inserted", logfields.Problem(identifier), logfields.Bank(bankRoot))
	return identifier, nil
}

// Renumbering is one identifier change performed by Renumber.
type Renumbering struct {
	Old string
	New string
}

// Renumber makes the bank's identifiers contiguous starting from 1, zero
// padded to the width of the problem count. Problem order is preserved. A
// problem whose target directory already exists is left in place.
func Renumber(bankRoot string) ([]Renumbering, error) {
	b, err := bank.Load(bankRoot)
	if err != nil {
		return nil, err
	}

	width := len(strconv.Itoa(len(b.Problems)))
	var moves []Renumbering
	for i, p := range b.Problems {
		next := pad(i+1, width)
		if next == p.Identifier {
			continue
		}
		dst := filepath.Join(bankRoot, next)
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		if err := os.Rename(filepath.Join(bankRoot, p.Identifier), dst); err != nil {
			return moves, errors.WriteFailed(dst, err)
		}
		slog.Info("problem renumbered",
			slog.String("old", p.Identifier),
			slog.String("new", next))
		moves = append(moves, Renumbering{Old: p.Identifier, New: next})
	}
	return moves, nil
}

// Tags lists every tag in the bank, sorted and deduplicated.
func Tags(bankRoot string) ([]string, error) {
	b, err := bank.Load(bankRoot)
	if err != nil {
		return nil, err
	}
	return b.Tags(), nil
}

// Tagless lists the identifiers of problems without tags.
func Tagless(bankRoot string) ([]string, error) {
	b, err := bank.Load(bankRoot)
	if err != nil {
		return nil, err
	}
	return b.Untagged(), nil
}

func pad(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// copyTree copies a directory recursively. Symlinks are not followed.
func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, content, info.Mode().Perm())
	})
}
