package bank

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dsc-courses/practicebank/internal/config"
	"github.com/dsc-courses/practicebank/internal/errors"
	"github.com/dsc-courses/practicebank/internal/logfields"
)

// Load walks a bank root: it loads the configuration, enumerates the numbered
// problem directories in ascending numeric order, and loads each problem.
// A single problem failure aborts the walk.
func Load(root string) (*Bank, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, "failed to read bank directory").
			WithContext("path", root)
	}

	type candidate struct {
		name   string
		number int
	}
	var candidates []candidate

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}

		number, err := parseIdentifier(name)
		if err != nil {
			if cfg.Strict {
				return nil, errors.NonNumericDirectory(filepath.Join(root, name))
			}
			slog.Warn("Skipping non-numeric problem directory", logfields.Path(filepath.Join(root, name)))
			continue
		}

		candidates = append(candidates, candidate{name: name, number: number})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].number != candidates[j].number {
			return candidates[i].number < candidates[j].number
		}
		return candidates[i].name < candidates[j].name
	})

	seen := map[int]string{}
	for _, c := range candidates {
		if prev, dup := seen[c.number]; dup {
			return nil, errors.DuplicateIdentifier(c.name, filepath.Join(root, prev))
		}
		seen[c.number] = c.name
	}

	problems := make([]*Problem, 0, len(candidates))
	for _, c := range candidates {
		dir := filepath.Join(root, c.name)
		slog.Debug("Loading problem", logfields.Problem(c.name), logfields.Path(dir))

		// Loader errors already carry the offending directory.
		problem, err := LoadProblem(dir, cfg.Metadata.Unknown)
		if err != nil {
			return nil, err
		}
		problems = append(problems, problem)
	}

	slog.Info("Bank loaded", logfields.Bank(root), slog.Int("problems", len(problems)))

	return &Bank{Root: root, Config: cfg, Problems: problems}, nil
}

// parseIdentifier parses a problem directory name. Only plain digit runs
// qualify; signs and other characters strconv.Atoi tolerates do not.
func parseIdentifier(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("empty directory name")
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("directory name %q is not a number", name)
		}
	}
	return strconv.Atoi(name)
}

func collectTags(problems []*Problem) []string {
	set := map[string]struct{}{}
	for _, p := range problems {
		for _, tag := range p.Metadata.Tags {
			set[tag] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
