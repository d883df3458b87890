package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBankError_Error_IncludesCategoryAndPath(t *testing.T) {
	err := MissingProblem("/bank/03")

	require.Contains(t, err.Error(), "problem")
	require.Contains(t, err.Error(), "/bank/03")
}

func TestBankError_Unwrap_ReturnsCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := MetadataInvalid("/bank/01/problem.md", cause)

	require.True(t, stderrors.Is(err, cause))
}

func TestIsCategory_MatchesOnlyOwnCategory(t *testing.T) {
	err := AmbiguousFormat("/bank/02")

	require.True(t, IsCategory(err, CategoryProblem))
	require.False(t, IsCategory(err, CategoryConfig))
}

func TestGetCategory_NonBankError_ReturnsInternal(t *testing.T) {
	require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
}

func TestWithContext_AccumulatesFields(t *testing.T) {
	err := New(CategoryConfig, "bad").WithContext("path", "a").WithContext("field", "tagsets")

	require.Equal(t, "a", err.Context["path"])
	require.Equal(t, "tagsets", err.Context["field"])
}
