// Package ocr wraps the external text recognizer behind a small adapter
// interface. The pipeline treats recognition as a black box: image in,
// list of non-empty text lines out, parameterized by a recognition
// profile. Adapters are stateless capability objects passed into the
// extractors, never shared module state.
package ocr

import (
	"image"
	"strings"
)

// Profile selects the recognizer's character allow-list and page
// segmentation behavior.
type Profile int

const (
	// FreeText reads the VFX/ADR annotation region: mixed-case words,
	// digits and light punctuation, block segmentation.
	FreeText Profile = iota

	// StrictTimecode reads the burned-in timecode region: digits and
	// separators only, single-line segmentation.
	StrictTimecode
)

func (p Profile) String() string {
	switch p {
	case FreeText:
		return "free_text"
	case StrictTimecode:
		return "strict_timecode"
	default:
		return "unknown"
	}
}

// Engine recognizes text in an image according to a profile.
type Engine interface {
	Recognize(img image.Image, profile Profile) ([]string, error)
}

// SplitLines normalizes raw recognizer output into the adapter contract:
// a list of non-empty lines with line-ending noise stripped.
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
