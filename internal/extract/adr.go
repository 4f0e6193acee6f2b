package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/frames"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/ocr"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/timecode"
)

// DefaultADRStride is how many flagged frames the ADR scan skips between
// probes. ADR text persists across many frames, so a sparse probe finds
// the utterance and boundary expansion then pins down its exact extent.
const DefaultADRStride = 15

// ADRExtractor finds ADR-prefixed utterances among the frames flagged as
// likely containing text. It probes in a fixed stride, expands from a hit
// in both directions across genuinely consecutive frames, and reduces
// each contiguous run to a single bordered event.
type ADRExtractor struct {
	Cache      *frames.Cache
	Engine     ocr.Engine
	FPS        float64
	Stride     int
	OnProgress func(done, total int)

	matcher *PrefixMatcher
}

// NewADRExtractor builds an extractor with the default stride.
func NewADRExtractor(cache *frames.Cache, engine ocr.Engine, fps float64) *ADRExtractor {
	return &ADRExtractor{
		Cache:   cache,
		Engine:  engine,
		FPS:     fps,
		Stride:  DefaultADRStride,
		matcher: NewPrefixMatcher("ADR"),
	}
}

// Extract scans the flagged frames and returns ADR events keyed by each
// run's first frame, plus the frames whose crops could not be read back.
func (e *ADRExtractor) Extract(flagged []int) (map[int]AdrEvent, []int, error) {
	if e.matcher == nil {
		e.matcher = NewPrefixMatcher("ADR")
	}
	if e.Stride <= 0 {
		e.Stride = DefaultADRStride
	}
	readings := make(map[int]adrReading)
	var notFound []int

	total := len(flagged)
	i := 0
	for i < total {
		frame := flagged[i]
		lines, err := e.readText(frame)
		if err != nil {
			if !errors.Is(err, frames.ErrCropMissing) {
				return nil, notFound, err
			}
			notFound = append(notFound, frame)
			i += e.Stride
			continue
		}
		expanded := false
		for _, line := range lines {
			m := e.matcher.Match(line)
			if m == "" {
				continue
			}
			if _, seen := readings[frame]; seen {
				continue
			}
			readings[frame] = adrReading{Text: m, TC: e.readTC(frame, &notFound)}
			if _, err := e.expand(flagged, i, -1, readings, &notFound); err != nil {
				return nil, notFound, err
			}
			resume, err := e.expand(flagged, i, +1, readings, &notFound)
			if err != nil {
				return nil, notFound, err
			}
			// Resume past the already-expanded region so the next probe
			// can catch an utterance starting right after it.
			i = resume + e.Stride
			expanded = true
			break
		}
		if !expanded {
			i += e.Stride
		}
		if e.OnProgress != nil {
			done := i
			if done > total {
				done = total
			}
			e.OnProgress(done, total)
		}
	}
	if len(notFound) > 0 {
		slog.Warn("some frames could not be read back, search may be incomplete",
			"frames", notFound)
	}
	return reduceBorders(readings, e.FPS), notFound, nil
}

// expand walks the flagged-frame list from the hit at startIdx in the
// given direction, recording ADR readings for as long as the frames stay
// genuinely consecutive and keep matching. It returns the index of the
// last visited element so the caller can resume past it; any OCR dropout
// or frame-ID gap ends the run.
func (e *ADRExtractor) expand(flagged []int, startIdx, dir int, readings map[int]adrReading, notFound *[]int) (int, error) {
	lastIdx := startIdx
	lastFrame := flagged[startIdx]
	for idx := startIdx + dir; idx >= 0 && idx < len(flagged); idx += dir {
		frame := flagged[idx]
		if abs(frame-lastFrame) > 1 {
			break
		}
		lines, err := e.readText(frame)
		if err != nil {
			if !errors.Is(err, frames.ErrCropMissing) {
				return lastIdx, err
			}
			*notFound = append(*notFound, frame)
			break
		}
		lastIdx = idx
		matched := ""
		for _, line := range lines {
			if m := e.matcher.Match(line); m != "" {
				matched = m
				break
			}
		}
		if matched == "" {
			break
		}
		if _, seen := readings[frame]; !seen {
			readings[frame] = adrReading{Text: matched, TC: e.readTC(frame, notFound)}
		}
		lastFrame = frame
	}
	return lastIdx, nil
}

func (e *ADRExtractor) readText(frame int) ([]string, error) {
	img, err := e.Cache.LoadTextCrop(frame)
	if err != nil {
		return nil, err
	}
	lines, err := e.Engine.Recognize(img, ocr.FreeText)
	if err != nil {
		return nil, fmt.Errorf("adr ocr on frame %d: %w", frame, err)
	}
	return lines, nil
}

func (e *ADRExtractor) readTC(frame int, notFound *[]int) string {
	img, err := e.Cache.LoadTCCrop(frame)
	if err != nil {
		if errors.Is(err, frames.ErrCropMissing) {
			*notFound = append(*notFound, frame)
		}
		slog.Warn("timecode crop missing", "frame", frame, "error", err)
		return timecode.Empty
	}
	lines, err := e.Engine.Recognize(img, ocr.StrictTimecode)
	if err != nil {
		slog.Warn("timecode ocr failed", "frame", frame, "error", err)
		return timecode.Wrong
	}
	return timecode.SanitizeOCR(lines, frame)
}

// reduceBorders groups the raw per-frame readings into maximal runs of
// consecutive frame numbers and keeps only one bordered event per run:
// consensus text over the whole run, TC IN from the first frame, TC OUT
// one frame past the last.
func reduceBorders(readings map[int]adrReading, fps float64) map[int]AdrEvent {
	keys := make([]int, 0, len(readings))
	for k := range readings {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	events := make(map[int]AdrEvent)
	for start := 0; start < len(keys); {
		end := start
		for end+1 < len(keys) && keys[end+1] == keys[end]+1 {
			end++
		}
		first, last := keys[start], keys[end]
		texts := make([]string, 0, end-start+1)
		for _, k := range keys[start : end+1] {
			texts = append(texts, readings[k].Text)
		}
		tcOut, err := timecode.AddFrame(readings[last].TC, fps)
		if err != nil {
			slog.Warn("could not advance timecode", "frame", last, "tc", readings[last].TC, "error", err)
			tcOut = readings[last].TC
		}
		events[first] = AdrEvent{EventBase{
			Text:     Consensus(texts),
			TCIn:     readings[first].TC,
			TCOut:    tcOut,
			FrameOut: last + 1,
		}}
		start = end + 1
	}
	return events
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
