package extract

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/frames"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/ocr"
)

// tagWidth is the number of bit pixels in a tagged test image.
const tagWidth = 16

// frameTag encodes a frame number into a 16x1 black/white image. The
// encoding survives binarization and PNG round-trips through the cache,
// which lets the stub engine know which frame a crop belongs to.
func frameTag(frame int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, tagWidth, 1))
	for i := 0; i < tagWidth; i++ {
		if frame&(1<<i) != 0 {
			img.Pix[i] = 0
		} else {
			img.Pix[i] = 255
		}
	}
	return img
}

func decodeTag(img image.Image) int {
	b := img.Bounds()
	frame := 0
	for i := 0; i < tagWidth && i < b.Dx(); i++ {
		r, g, bl, _ := img.At(b.Min.X+i, b.Min.Y).RGBA()
		if (r+g+bl)/3 < 0x8000 {
			frame |= 1 << i
		}
	}
	return frame
}

// stubEngine replays canned OCR lines per frame, keyed by the tag baked
// into each crop.
type stubEngine struct {
	text  map[int][]string
	tc    map[int][]string
	calls int
}

func newStubEngine() *stubEngine {
	return &stubEngine{
		text: make(map[int][]string),
		tc:   make(map[int][]string),
	}
}

func (s *stubEngine) Recognize(img image.Image, profile ocr.Profile) ([]string, error) {
	s.calls++
	frame := decodeTag(img)
	if profile == ocr.StrictTimecode {
		return s.tc[frame], nil
	}
	return s.text[frame], nil
}

func newTestCache(t *testing.T) *frames.Cache {
	t.Helper()
	c := frames.NewCache(t.TempDir())
	require.NoError(t, c.Init())
	return c
}

// seedTextFrame writes tagged text and timecode crops for a frame.
func seedTextFrame(t *testing.T, c *frames.Cache, frame int) {
	t.Helper()
	require.NoError(t, c.SaveTextCrop(frame, frameTag(frame)))
	require.NoError(t, c.SaveTCCrop(frame, frameTag(frame)))
}

// seedSceneStill writes a tagged raw border still for a frame.
func seedSceneStill(t *testing.T, c *frames.Cache, frame int) {
	t.Helper()
	require.NoError(t, c.SaveSceneFrame(frame, frameTag(frame)))
}
