package extract

import (
	"sort"

	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/timecode"
)

// MergedEvent is a timeline entry after the VFX and ADR streams are
// combined. A frame where both streams start an event keeps both texts
// and both TC OUT values, flagging an overlap worth human review instead
// of silently dropping one side.
type MergedEvent struct {
	Texts     []string `json:"texts"`
	TCIn      string   `json:"tc_in"`
	TCOuts    []string `json:"tc_outs"`
	FrameOut  int      `json:"frame_out"`
	RealTCIn  string   `json:"real_tc_in,omitempty"`
	RealTCOut string   `json:"real_tc_out,omitempty"`
}

// TimelineEntry is one merged event keyed by its first frame.
type TimelineEntry struct {
	Frame int `json:"frame_in"`
	MergedEvent
}

// Timeline is the final event sequence, sorted by frame ascending with
// strictly increasing keys.
type Timeline []TimelineEntry

// Merge combines the VFX and ADR event streams into one sorted timeline.
// Keys present in both streams produce a multi-valued entry; keys in only
// one stream pass through unchanged.
func Merge(vfx map[int]VfxEvent, adr map[int]AdrEvent) Timeline {
	merged := make(map[int]MergedEvent, len(vfx)+len(adr))
	for frame, v := range vfx {
		if a, ok := adr[frame]; ok {
			frameOut := v.FrameOut
			if a.FrameOut > frameOut {
				frameOut = a.FrameOut
			}
			merged[frame] = MergedEvent{
				Texts:    []string{v.Text, a.Text},
				TCIn:     v.TCIn,
				TCOuts:   []string{v.TCOut, a.TCOut},
				FrameOut: frameOut,
			}
			continue
		}
		merged[frame] = MergedEvent{
			Texts:    []string{v.Text},
			TCIn:     v.TCIn,
			TCOuts:   []string{v.TCOut},
			FrameOut: v.FrameOut,
		}
	}
	for frame, a := range adr {
		if _, ok := vfx[frame]; ok {
			continue
		}
		merged[frame] = MergedEvent{
			Texts:    []string{a.Text},
			TCIn:     a.TCIn,
			TCOuts:   []string{a.TCOut},
			FrameOut: a.FrameOut,
		}
	}

	frames := make([]int, 0, len(merged))
	for f := range merged {
		frames = append(frames, f)
	}
	sort.Ints(frames)

	timeline := make(Timeline, 0, len(frames))
	for _, f := range frames {
		timeline = append(timeline, TimelineEntry{Frame: f, MergedEvent: merged[f]})
	}
	return timeline
}

// AnnotateRealTimestamps stamps every entry with playback timecodes
// derived from its absolute frame numbers, as opposed to the burned-in
// TC IN/OUT read from the footage.
func AnnotateRealTimestamps(timeline Timeline, fps float64) Timeline {
	for i := range timeline {
		timeline[i].RealTCIn = timecode.FromFrame(timeline[i].Frame, fps)
		timeline[i].RealTCOut = timecode.FromFrame(timeline[i].FrameOut, fps)
	}
	return timeline
}
