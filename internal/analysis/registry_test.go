package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_ContainsCannedAnalyses(t *testing.T) {
	require.Equal(t, []string{"geography", "hashtags", "sentiment"}, List())
}

func TestRegistry_Get(t *testing.T) {
	a, err := Get("sentiment")
	require.NoError(t, err)
	require.Equal(t, "sentiment", a.EnvType)
	require.Equal(t, "sentiment", a.OutputDir)
	require.Equal(t, "sentiment_results.txt", a.ResultFile)

	a, err = Get("hashtags")
	require.NoError(t, err)
	require.Equal(t, "hashtag_results.txt", a.ResultFile)
}

func TestRegistry_GetUnknown(t *testing.T) {
	_, err := Get("wordcount")
	require.Error(t, err)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	err := Register(Analysis{Name: "sentiment"})
	require.Error(t, err)
}
