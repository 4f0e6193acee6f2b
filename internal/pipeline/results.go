package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/extract"
)

// Results is the output of one pipeline run: the merged, annotated event
// timeline plus run-level context for the report writer.
type Results struct {
	Video          string           `json:"video"`
	FPS            float64          `json:"fps"`
	Events         extract.Timeline `json:"events"`
	FramesNotFound []int            `json:"frames_not_found,omitempty"`
}

// Render formats the results in the requested output format: "json",
// "csv" or "text".
func (r *Results) Render(format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		return r.ToJSON()
	case "csv":
		return r.ToCSV()
	case "text":
		return r.ToText(), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// ToJSON serializes the results to pretty JSON.
func (r *Results) ToJSON() (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToCSV exports one row per event with a header. Events carrying both a
// VFX and an ADR side join the texts with " / ".
func (r *Results) ToCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{
		"frame_in", "frame_out", "text", "tc_in", "tc_out", "real_tc_in", "real_tc_out",
	}); err != nil {
		return "", err
	}
	for _, e := range r.Events {
		row := []string{
			strconv.Itoa(e.Frame),
			strconv.Itoa(e.FrameOut),
			strings.Join(e.Texts, " / "),
			e.TCIn,
			strings.Join(e.TCOuts, " / "),
			e.RealTCIn,
			e.RealTCOut,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToText renders a human-readable summary, one event per line.
func (r *Results) ToText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%.3f fps): %d events\n", r.Video, r.FPS, len(r.Events))
	for _, e := range r.Events {
		fmt.Fprintf(&sb, "  frame %d-%d  %s  TC %s -> %s  real %s -> %s\n",
			e.Frame, e.FrameOut,
			strings.Join(e.Texts, " / "),
			e.TCIn, strings.Join(e.TCOuts, " / "),
			e.RealTCIn, e.RealTCOut)
	}
	if len(r.FramesNotFound) > 0 {
		fmt.Fprintf(&sb, "  %d frames could not be read back: %v\n",
			len(r.FramesNotFound), r.FramesNotFound)
	}
	return sb.String()
}
