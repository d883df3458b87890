package preview

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUnit_ShouldIgnoreEvent_FiltersEditorNoise(t *testing.T) {
	ignored := []string{
		"/bank/.git/HEAD",
		"/bank/01/.problem.md.swp",
		"/bank/01/problem.md~",
		"/bank/01/#problem.md#",
	}
	for _, p := range ignored {
		require.True(t, shouldIgnoreEvent(p), "expected %q to be ignored", p)
	}

	watched := []string{
		"/bank/01/problem.md",
		"/bank/practicebank.yaml",
		"/bank/01/plot.png",
	}
	for _, p := range watched {
		require.False(t, shouldIgnoreEvent(p), "expected %q to be watched", p)
	}
}

func TestUnit_Within_DetectsOutputDirPaths(t *testing.T) {
	out := filepath.Join("/tmp", "site")
	require.True(t, within(out, filepath.Join(out, "index.html")))
	require.True(t, within(out, out))
	require.False(t, within(out, filepath.Join("/tmp", "bank", "01", "problem.md")))
	require.False(t, within("", "/anything"))
}

func TestUnit_Debouncer_CoalescesBursts(t *testing.T) {
	rebuildReq, trigger := setupDebouncer()

	trigger()
	trigger()
	trigger()

	select {
	case <-rebuildReq:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a rebuild request")
	}

	select {
	case <-rebuildReq:
		t.Fatal("burst should coalesce into one request")
	default:
	}
}
