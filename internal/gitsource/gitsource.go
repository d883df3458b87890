// Package gitsource resolves bank locations that point at git repositories.
// A bank argument can be a local directory or a clone URL; remote banks are
// cloned into a workspace before building.
package gitsource

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/dsc-courses/practicebank/internal/errors"
	"github.com/dsc-courses/practicebank/internal/logfields"
)

// IsRemote reports whether the bank location looks like a git clone URL
// rather than a local path.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "https://") ||
		strings.HasPrefix(location, "http://") ||
		strings.HasPrefix(location, "ssh://") ||
		strings.HasPrefix(location, "git@")
}

// Clone clones the repository at url into workspaceDir and returns the
// checkout path. An empty branch clones the remote default branch.
func Clone(url, branch, workspaceDir string) (string, error) {
	repoPath := filepath.Join(workspaceDir, repoName(url))

	slog.Debug("Cloning bank repository",
		slog.String("url", url),
		slog.String("branch", branch),
		logfields.Path(repoPath))

	if err := os.RemoveAll(repoPath); err != nil {
		return "", errors.CloneFailed(url, err)
	}

	cloneOptions := &git.CloneOptions{
		URL:   url,
		Depth: 1,
	}
	if branch != "" {
		cloneOptions.ReferenceName = plumbing.ReferenceName("refs/heads/" + branch)
		cloneOptions.SingleBranch = true
	}

	repository, err := git.PlainClone(repoPath, false, cloneOptions)
	if err != nil {
		return "", errors.CloneFailed(url, err)
	}

	if ref, err := repository.Head(); err == nil {
		slog.Info("Bank repository cloned",
			slog.String("url", url),
			slog.String("commit", ref.Hash().String()[:8]),
			logfields.Path(repoPath))
	}
	return repoPath, nil
}

// repoName derives a directory name from a clone URL.
func repoName(url string) string {
	name := strings.TrimSuffix(path.Base(strings.TrimSuffix(url, "/")), ".git")
	if name == "" || name == "." || name == "/" {
		name = "bank"
	}
	return name
}
