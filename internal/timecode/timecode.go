// Package timecode converts between frame numbers and HH:MM:SS:FF
// timecodes and repairs timecode strings read back from OCR.
package timecode

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Sentinel values used in place of a timecode when OCR output could not
// be parsed. They pass through arithmetic unchanged.
const (
	Wrong = "WRONG TC"
	Empty = "EMPTY TC"
)

var twoDigitRun = regexp.MustCompile(`\d{2}`)

// IsSentinel reports whether tc is one of the non-parsable markers.
func IsSentinel(tc string) bool {
	return tc == Wrong || tc == Empty
}

// FromFrame converts an absolute frame number to a timecode at the given
// frame rate. Fractional rates are truncated, matching the burned-in
// counters this tool reads.
func FromFrame(frameNumber int, fps float64) string {
	rate := int(fps)
	hours := frameNumber / (rate * 60 * 60)
	frameNumber %= rate * 60 * 60
	minutes := frameNumber / (rate * 60)
	frameNumber %= rate * 60
	seconds := frameNumber / rate
	frames := frameNumber % rate
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}

// AddFrame returns tc advanced by one frame, carrying through seconds,
// minutes and hours. Sentinel inputs are returned unchanged. A malformed
// timecode is returned as-is together with an error so callers can keep
// the last good reading.
func AddFrame(tc string, fps float64) (string, error) {
	if IsSentinel(tc) {
		return tc, nil
	}
	parts := strings.Split(tc, ":")
	if len(parts) != 4 {
		return tc, fmt.Errorf("malformed timecode %q", tc)
	}
	var hours, minutes, seconds, frames int
	if _, err := fmt.Sscanf(tc, "%d:%d:%d:%d", &hours, &minutes, &seconds, &frames); err != nil {
		return tc, fmt.Errorf("malformed timecode %q: %w", tc, err)
	}
	frames++
	if frames == int(fps) {
		frames = 0
		seconds++
	}
	if seconds == 60 {
		seconds = 0
		minutes++
	}
	if minutes == 60 {
		minutes = 0
		hours++
	}
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames), nil
}

// SanitizeOCR assembles a canonical timecode from raw OCR lines of the
// timecode region. OCR tends to drop or mangle the ':' separators, so the
// first line is scanned for two-digit runs and the first four runs become
// HH:MM:SS:FF. No text yields Empty; fewer than four runs yields Wrong.
func SanitizeOCR(lines []string, frameNumber int) string {
	if len(lines) == 0 || lines[0] == "" {
		return Empty
	}
	runs := twoDigitRun.FindAllString(lines[0], -1)
	if len(runs) < 4 {
		slog.Warn("could not clean up timecode",
			"frame", frameNumber,
			"raw", lines[0])
		return Wrong
	}
	return fmt.Sprintf("%s:%s:%s:%s", runs[0], runs[1], runs[2], runs[3])
}
