package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/extract"
)

func sampleResults() *Results {
	return &Results{
		Video: "reel_03.mov",
		FPS:   24,
		Events: extract.Timeline{
			{
				Frame: 418,
				MergedEvent: extract.MergedEvent{
					Texts:     []string{"VFX: 0001"},
					TCIn:      "00:10:17:10",
					TCOuts:    []string{"00:10:18:11"},
					FrameOut:  443,
					RealTCIn:  "00:00:17:10",
					RealTCOut: "00:00:18:11",
				},
			},
			{
				Frame: 993,
				MergedEvent: extract.MergedEvent{
					Texts:     []string{"VFX: 0002", "ADR: Example"},
					TCIn:      "00:10:41:09",
					TCOuts:    []string{"00:10:50:02", "00:10:49:21"},
					FrameOut:  1202,
					RealTCIn:  "00:00:41:09",
					RealTCOut: "00:00:50:02",
				},
			},
		},
		FramesNotFound: []int{120, 121},
	}
}

func TestResultsToJSON(t *testing.T) {
	out, err := sampleResults().ToJSON()
	require.NoError(t, err)

	var decoded Results
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, sampleResults(), &decoded)
}

func TestResultsToCSV(t *testing.T) {
	out, err := sampleResults().ToCSV()
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t,
		[]string{"frame_in", "frame_out", "text", "tc_in", "tc_out", "real_tc_in", "real_tc_out"},
		records[0])
	assert.Equal(t,
		[]string{"418", "443", "VFX: 0001", "00:10:17:10", "00:10:18:11", "00:00:17:10", "00:00:18:11"},
		records[1])
	assert.Equal(t,
		[]string{"993", "1202", "VFX: 0002 / ADR: Example", "00:10:41:09", "00:10:50:02 / 00:10:49:21", "00:00:41:09", "00:00:50:02"},
		records[2])
}

func TestResultsToText(t *testing.T) {
	out := sampleResults().ToText()
	assert.Contains(t, out, "reel_03.mov (24.000 fps): 2 events")
	assert.Contains(t, out, "frame 418-443")
	assert.Contains(t, out, "VFX: 0002 / ADR: Example")
	assert.Contains(t, out, "2 frames could not be read back")
}

func TestResultsRender(t *testing.T) {
	r := sampleResults()
	for _, format := range []string{"json", "CSV", "text"} {
		out, err := r.Render(format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, out)
	}
	_, err := r.Render("xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
