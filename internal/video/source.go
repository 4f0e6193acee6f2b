// Package video provides frame-accurate read access to a video file and
// the rectangular regions of interest selected on its frames.
package video

import (
	"fmt"
	"image"
)

// Source is a seekable stream of decoded video frames. The pipeline owns
// a Source exclusively for its whole run and closes it exactly once; all
// seeks are sequential and pipeline-driven.
type Source interface {
	// FPS returns the native frame rate.
	FPS() float64

	// FrameCount returns the total number of frames.
	FrameCount() int

	// Seek positions the stream so the next Read returns frame n.
	Seek(frame int) error

	// Read decodes the next frame, returning the frame, its absolute
	// index and false at end of stream.
	Read() (image.Image, int, bool)

	// Close releases the underlying media handle.
	Close() error
}

// ReadAt seeks to frame n and decodes it.
func ReadAt(s Source, n int) (image.Image, error) {
	if err := s.Seek(n); err != nil {
		return nil, fmt.Errorf("seek to frame %d: %w", n, err)
	}
	img, _, ok := s.Read()
	if !ok {
		return nil, fmt.Errorf("frame %d: end of stream", n)
	}
	return img, nil
}
