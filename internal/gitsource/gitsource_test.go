package gitsource

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnit_IsRemote_RecognizesCloneURLs(t *testing.T) {
	remote := []string{
		"https://github.com/dsc-courses/dsc40a-practice",
		"http://example.org/bank.git",
		"ssh://git@example.org/bank.git",
		"git@github.com:dsc-courses/dsc40a-practice.git",
	}
	for _, url := range remote {
		require.True(t, IsRemote(url), "expected %q to be remote", url)
	}

	local := []string{
		"./bank",
		"/home/user/banks/dsc40a",
		"bank",
		"../relative/bank",
	}
	for _, p := range local {
		require.False(t, IsRemote(p), "expected %q to be local", p)
	}
}

func TestUnit_RepoName_DerivedFromURL(t *testing.T) {
	cases := map[string]string{
		"https://github.com/dsc-courses/dsc40a-practice.git": "dsc40a-practice",
		"https://github.com/dsc-courses/dsc40a-practice":     "dsc40a-practice",
		"git@github.com:dsc-courses/dsc40a-practice.git":     "dsc40a-practice",
		"https://example.org/bank/":                          "bank",
	}
	for url, want := range cases {
		require.Equal(t, want, repoName(url), "url %q", url)
	}
}
