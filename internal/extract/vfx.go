package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/frames"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/ocr"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/timecode"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/video"
)

// DefaultVFXSampleCount is how many frames per candidate scene the VFX
// pass reads through OCR.
const DefaultVFXSampleCount = 8

// VFXExtractor detects VFX-prefixed annotations in candidate scene
// ranges. A scene yields at most one event, keyed by the range's first
// frame, with its timecode boundaries re-derived from the scene's border
// stills.
type VFXExtractor struct {
	Cache       *frames.Cache
	Engine      ocr.Engine
	TCRegion    video.Region
	FPS         float64
	SampleCount int
	OnProgress  func(done, total int)

	matcher *PrefixMatcher
}

// NewVFXExtractor builds an extractor with the default sample density.
func NewVFXExtractor(cache *frames.Cache, engine ocr.Engine, tcRegion video.Region, fps float64) *VFXExtractor {
	return &VFXExtractor{
		Cache:       cache,
		Engine:      engine,
		TCRegion:    tcRegion,
		FPS:         fps,
		SampleCount: DefaultVFXSampleCount,
		matcher:     NewPrefixMatcher("VFX"),
	}
}

// Extract scans every candidate range and emits the found VFX events
// keyed by range start, along with the frames whose expected crops were
// missing (the search may be incomplete for those).
func (e *VFXExtractor) Extract(ranges []frames.SceneRange) (map[int]VfxEvent, []int, error) {
	if e.matcher == nil {
		e.matcher = NewPrefixMatcher("VFX")
	}
	events := make(map[int]VfxEvent)
	var notFound []int
	for i, rng := range ranges {
		if err := e.extractRange(rng, events, &notFound); err != nil {
			return nil, notFound, err
		}
		if e.OnProgress != nil {
			e.OnProgress(i+1, len(ranges))
		}
	}
	if len(notFound) > 0 {
		slog.Warn("some frames could not be read back, search may be incomplete",
			"frames", notFound)
	}
	return events, notFound, nil
}

func (e *VFXExtractor) extractRange(rng frames.SceneRange, events map[int]VfxEvent, notFound *[]int) error {
	samples := frames.SampleFrames(rng, e.SampleCount, false)
	var readings []string
	for _, frame := range samples {
		if frame < rng.Start {
			continue
		}
		if frame > rng.End-1 {
			break
		}
		img, err := e.Cache.LoadTextCrop(frame)
		if err != nil {
			if errors.Is(err, frames.ErrCropMissing) {
				*notFound = append(*notFound, frame)
				slog.Warn("text crop missing", "frame", frame)
				continue
			}
			return err
		}
		lines, err := e.Engine.Recognize(img, ocr.FreeText)
		if err != nil {
			return fmt.Errorf("vfx ocr on frame %d: %w", frame, err)
		}
		var matched []string
		for _, line := range lines {
			if m := e.matcher.Match(line); m != "" {
				matched = append(matched, m)
			}
		}
		if len(matched) > 0 {
			readings = append(readings, strings.Join(matched, " \n"))
		}
	}
	if len(readings) == 0 {
		return nil
	}

	firstFrame := rng.Start
	lastFrame := rng.End - 1
	tcIn := e.borderTimecode(firstFrame, notFound)
	tcLast := e.borderTimecode(lastFrame, notFound)
	tcOut, err := timecode.AddFrame(tcLast, e.FPS)
	if err != nil {
		// Degrade to the last good reading rather than losing the event.
		slog.Warn("could not advance timecode", "frame", lastFrame, "tc", tcLast, "error", err)
		tcOut = tcLast
	}

	// Idempotent re-entry guard: only the first event per starting frame
	// is kept.
	if _, exists := events[firstFrame]; !exists {
		events[firstFrame] = VfxEvent{EventBase{
			Text:     Consensus(readings),
			TCIn:     tcIn,
			TCOut:    tcOut,
			FrameOut: rng.End,
		}}
	}
	return nil
}

// borderTimecode re-processes a scene border still for the timecode
// region and reads it with the strict profile. The text may appear later
// or vanish earlier than the scene cut, so the borders are read from the
// raw stills saved during the picture pass rather than from the coarse
// scan crops.
func (e *VFXExtractor) borderTimecode(frame int, notFound *[]int) string {
	still, err := e.Cache.LoadSceneFrame(frame)
	if err != nil {
		*notFound = append(*notFound, frame)
		slog.Warn("scene still missing", "frame", frame, "error", err)
		return timecode.Empty
	}
	crop := frames.BinarizeCrop(still, e.TCRegion)
	if err := e.Cache.SaveSceneTCCrop(frame, crop); err != nil {
		slog.Warn("could not save reprocessed timecode crop", "frame", frame, "error", err)
	}
	lines, err := e.Engine.Recognize(crop, ocr.StrictTimecode)
	if err != nil {
		slog.Warn("timecode ocr failed", "frame", frame, "error", err)
		return timecode.Wrong
	}
	return timecode.SanitizeOCR(lines, frame)
}
