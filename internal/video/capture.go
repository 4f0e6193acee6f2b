package video

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Capture reads frames from a video file through OpenCV. It implements
// Source.
type Capture struct {
	path string
	vc   *gocv.VideoCapture
	mat  gocv.Mat
}

// Open opens a video file for frame-accurate reading. An unreadable
// stream is a fatal condition surfaced to the caller.
func Open(path string) (*Capture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	if !vc.IsOpened() {
		_ = vc.Close()
		return nil, fmt.Errorf("open video %s: stream not readable", path)
	}
	return &Capture{path: path, vc: vc, mat: gocv.NewMat()}, nil
}

// FPS returns the native frame rate reported by the container.
func (c *Capture) FPS() float64 {
	return c.vc.Get(gocv.VideoCaptureFPS)
}

// FrameCount returns the total number of frames in the stream.
func (c *Capture) FrameCount() int {
	return int(c.vc.Get(gocv.VideoCaptureFrameCount))
}

// Seek positions the stream at the given frame.
func (c *Capture) Seek(frame int) error {
	c.vc.Set(gocv.VideoCapturePosFrames, float64(frame))
	return nil
}

// Read decodes the next frame. It returns false at end of stream or on a
// decode failure.
func (c *Capture) Read() (image.Image, int, bool) {
	if ok := c.vc.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, 0, false
	}
	current := int(c.vc.Get(gocv.VideoCapturePosFrames)) - 1
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, current, false
	}
	return img, current, true
}

// Close releases the capture handle and its frame buffer.
func (c *Capture) Close() error {
	if err := c.mat.Close(); err != nil {
		_ = c.vc.Close()
		return err
	}
	return c.vc.Close()
}
