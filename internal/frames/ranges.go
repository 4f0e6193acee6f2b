package frames

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// SceneRange is a half-open [Start, End) interval of absolute frame
// indices, one continuous shot as reported by the external scene detector.
type SceneRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r SceneRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// FilterByStartFrame drops ranges that end before the configured playback
// start frame and clips the range containing it, so nothing before the
// start point is ever analyzed while partially overlapping scenes survive.
func FilterByStartFrame(ranges []SceneRange, startFrame int) []SceneRange {
	filtered := make([]SceneRange, 0, len(ranges))
	for _, r := range ranges {
		if r.End < startFrame {
			continue
		}
		if r.Start <= startFrame && startFrame <= r.End {
			r.Start = startFrame
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// CandidateProbeCount is how many frames per scene the sparse probe
// samples when deciding whether a scene may contain text at all.
const CandidateProbeCount = 5

// CandidateRanges keeps the scene ranges whose sparse probe hits at least
// one frame flagged as likely containing text.
func CandidateRanges(ranges []SceneRange, flaggedFrames []int) []SceneRange {
	flagged := make(map[int]bool, len(flaggedFrames))
	for _, f := range flaggedFrames {
		flagged[f] = true
	}
	candidates := make([]SceneRange, 0, len(ranges))
	for _, r := range ranges {
		probes := SampleFrames(r, CandidateProbeCount, false)
		if ContainsAny(probes, flagged) {
			candidates = append(candidates, r)
		}
	}
	return candidates
}

// LoadSceneList reads (start,end) frame pairs from a CSV file produced by
// the external shot-boundary detector. Lines starting with a non-numeric
// first field are treated as a header and skipped.
func LoadSceneList(path string) ([]SceneRange, error) {
	f, err := os.Open(path) //nolint:gosec // G304: user-provided scene list path is expected
	if err != nil {
		return nil, fmt.Errorf("open scene list: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read scene list %s: %w", path, err)
	}
	ranges := make([]SceneRange, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, fmt.Errorf("scene list %s: line %d has %d fields, want 2", path, i+1, len(rec))
		}
		start, err := strconv.Atoi(rec[0])
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("scene list %s: line %d: %w", path, i+1, err)
		}
		end, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("scene list %s: line %d: %w", path, i+1, err)
		}
		if end <= start {
			return nil, fmt.Errorf("scene list %s: line %d: empty range [%d,%d)", path, i+1, start, end)
		}
		ranges = append(ranges, SceneRange{Start: start, End: end})
	}
	return ranges, nil
}
