// Package extract turns noisy per-frame OCR readings into a clean,
// deduplicated timeline of text events. It hosts the VFX and ADR event
// extractors, the per-character consensus builder, and the merger that
// combines both event streams into one sorted, timestamp-annotated
// timeline.
package extract

// EventBase is the shape shared by all event kinds: the consensus text,
// the burned-in timecode boundaries read via OCR, and the absolute frame
// index just past the event.
type EventBase struct {
	Text     string `json:"text"`
	TCIn     string `json:"tc_in"`
	TCOut    string `json:"tc_out"`
	FrameOut int    `json:"frame_out"`
}

// VfxEvent is one VFX annotation occurrence, at most one per scene range,
// keyed by the range's first frame.
type VfxEvent struct {
	EventBase
}

// AdrEvent is one ADR utterance, reduced from a maximal run of
// consecutive frames carrying the same text, keyed by the run's first
// frame.
type AdrEvent struct {
	EventBase
}

// adrReading is a raw per-frame ADR observation before border reduction.
type adrReading struct {
	Text string
	TC   string
}
