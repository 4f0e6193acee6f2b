// Package frames implements the frame-scan side of the pipeline: binarizing
// frames, cropping the regions of interest, deciding which frames are likely
// to carry burned-in text, sampling candidate frames from scene ranges, and
// the on-disk crop cache shared between the scan and extraction phases.
package frames

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/video"
)

const (
	// BinarizeThreshold is the grayscale intensity above which a pixel is
	// treated as background. Burned-in production text sits on near-white
	// plates, so everything darker becomes foreground ink.
	BinarizeThreshold = 245

	// DefaultPixelThreshold is the minimum number of foreground pixels in
	// the text region for a full-resolution frame to be flagged as likely
	// containing text. Tuned to keep false negatives rare; false positives
	// only cost a speculative OCR call.
	DefaultPixelThreshold = 2000
)

// Classification is the result of probing one frame.
type Classification struct {
	TextCrop   *image.Gray
	TCCrop     *image.Gray
	Foreground int
	HasText    bool
}

// Classifier binarizes frames and crops the two regions of interest.
type Classifier struct {
	TextRegion     video.Region
	TCRegion       video.Region
	PixelThreshold int
}

// NewClassifier builds a classifier for the given regions with the default
// foreground threshold.
func NewClassifier(textRegion, tcRegion video.Region) *Classifier {
	return &Classifier{
		TextRegion:     textRegion,
		TCRegion:       tcRegion,
		PixelThreshold: DefaultPixelThreshold,
	}
}

// Classify binarizes the whole frame once, crops both regions from the same
// thresholded image and counts foreground pixels in the text region.
func (c *Classifier) Classify(frame image.Image) Classification {
	binary := Binarize(frame)
	textCrop := cropGray(binary, c.TextRegion.Rect())
	tcCrop := cropGray(binary, c.TCRegion.Rect())
	fg := CountForeground(textCrop)
	return Classification{
		TextCrop:   textCrop,
		TCCrop:     tcCrop,
		Foreground: fg,
		HasText:    fg >= c.PixelThreshold,
	}
}

// Binarize converts a frame to grayscale and applies an inverse binary
// threshold: pixels darker than BinarizeThreshold become foreground (black),
// everything else background (white).
func Binarize(frame image.Image) *image.Gray {
	gray := imaging.Grayscale(frame)
	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		srcRow := gray.Pix[y*gray.Stride:]
		dstRow := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			// Grayscale output has equal R, G and B; red carries the value.
			if srcRow[x*4] < BinarizeThreshold {
				dstRow[x] = 0
			} else {
				dstRow[x] = 255
			}
		}
	}
	return out
}

// BinarizeCrop binarizes a frame and returns the crop of a single region.
// Used by the extraction phase to re-derive timecodes from scene stills.
func BinarizeCrop(frame image.Image, r video.Region) *image.Gray {
	return cropGray(Binarize(frame), r.Rect())
}

// CountForeground counts the foreground (black) pixels of a binarized crop.
func CountForeground(g *image.Gray) int {
	b := g.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-g.Rect.Min.Y)*g.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[x-g.Rect.Min.X] == 0 {
				n++
			}
		}
	}
	return n
}

func cropGray(g *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(g.Bounds())
	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		src := g.Pix[(r.Min.Y+y-g.Rect.Min.Y)*g.Stride+(r.Min.X-g.Rect.Min.X):]
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()], src[:r.Dx()])
	}
	return out
}
