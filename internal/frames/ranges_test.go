package frames

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByStartFrame(t *testing.T) {
	ranges := []SceneRange{
		{0, 100}, {100, 200}, {200, 300}, {300, 400}, {400, 500},
	}
	got := FilterByStartFrame(ranges, 150)
	assert.Equal(t, []SceneRange{
		{150, 200}, {200, 300}, {300, 400}, {400, 500},
	}, got)
}

func TestFilterByStartFrameZeroKeepsAll(t *testing.T) {
	ranges := []SceneRange{{0, 100}, {100, 200}}
	assert.Equal(t, ranges, FilterByStartFrame(ranges, 0))
}

func TestFilterByStartFrameOnBoundary(t *testing.T) {
	ranges := []SceneRange{{0, 100}, {100, 200}}
	got := FilterByStartFrame(ranges, 100)
	// The first range ends exactly on the start frame and is clipped to a
	// degenerate range rather than dropped, matching the range filter's
	// end >= startFrame rule.
	assert.Equal(t, []SceneRange{{100, 100}, {100, 200}}, got)
}

func TestCandidateRanges(t *testing.T) {
	ranges := []SceneRange{{0, 100}, {100, 200}, {200, 300}}
	// Probes for [100,200) are 100,120,140,160,180.
	flagged := []int{120, 290}
	got := CandidateRanges(ranges, flagged)
	assert.Equal(t, []SceneRange{{100, 200}}, got)
}

func TestCandidateRangesNoFlags(t *testing.T) {
	got := CandidateRanges([]SceneRange{{0, 100}}, nil)
	assert.Empty(t, got)
}

func TestLoadSceneList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.csv")
	require.NoError(t, os.WriteFile(path, []byte("start,end\n0,240\n240,511\n"), 0o600))

	got, err := LoadSceneList(path)
	require.NoError(t, err)
	assert.Equal(t, []SceneRange{{0, 240}, {240, 511}}, got)
}

func TestLoadSceneListNoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.csv")
	require.NoError(t, os.WriteFile(path, []byte("0,100\n100,250\n"), 0o600))

	got, err := LoadSceneList(path)
	require.NoError(t, err)
	assert.Equal(t, []SceneRange{{0, 100}, {100, 250}}, got)
}

func TestLoadSceneListErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSceneList(filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
	})

	t.Run("empty range", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scenes.csv")
		require.NoError(t, os.WriteFile(path, []byte("100,100\n"), 0o600))
		_, err := LoadSceneList(path)
		require.Error(t, err)
	})

	t.Run("bad field count", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scenes.csv")
		require.NoError(t, os.WriteFile(path, []byte("100\n"), 0o600))
		_, err := LoadSceneList(path)
		require.Error(t, err)
	})
}
