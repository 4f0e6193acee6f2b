// Package testutil generates synthetic video frames with burned-in text
// for tests, so no real footage or OCR engine is needed.
package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FrameConfig describes a synthetic frame with burned-in annotations.
type FrameConfig struct {
	Width      int
	Height     int
	Background color.Color
	Foreground color.Color
	FontFace   font.Face

	// Text burned into the annotation area, empty for a clean frame.
	Text string
	// TextPos is the baseline origin of the annotation text.
	TextPos image.Point

	// Timecode burned into the timecode area, empty for none.
	Timecode string
	// TimecodePos is the baseline origin of the timecode text.
	TimecodePos image.Point
}

// DefaultFrameConfig returns a frame layout with the annotation at the
// bottom left and the timecode at the top right, as review footage
// typically burns them in.
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		Width:       640,
		Height:      360,
		Background:  color.White,
		Foreground:  color.Black,
		FontFace:    basicfont.Face7x13,
		TextPos:     image.Pt(20, 340),
		TimecodePos: image.Pt(480, 20),
	}
}

// GenerateFrame renders a synthetic frame from the configuration.
func GenerateFrame(cfg FrameConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{cfg.Background}, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{cfg.Foreground},
		Face: cfg.FontFace,
	}
	if cfg.Text != "" {
		drawer.Dot = fixed.P(cfg.TextPos.X, cfg.TextPos.Y)
		drawer.DrawString(cfg.Text)
	}
	if cfg.Timecode != "" {
		drawer.Dot = fixed.P(cfg.TimecodePos.X, cfg.TimecodePos.Y)
		drawer.DrawString(cfg.Timecode)
	}
	return img
}

// BurnedFrame renders a frame with the given annotation and timecode at
// the default layout positions.
func BurnedFrame(text, timecode string) *image.RGBA {
	cfg := DefaultFrameConfig()
	cfg.Text = text
	cfg.Timecode = timecode
	return GenerateFrame(cfg)
}

// CleanFrame renders a frame with no burned-in text.
func CleanFrame() *image.RGBA {
	return GenerateFrame(DefaultFrameConfig())
}

// TextExtent measures the pixel box a string occupies when rendered from
// the given baseline origin, for building crop regions around burned-in
// text in tests.
func TextExtent(face font.Face, s string, origin image.Point) image.Rectangle {
	width := font.MeasureString(face, s).Ceil()
	metrics := face.Metrics()
	return image.Rect(
		origin.X,
		origin.Y-metrics.Ascent.Ceil(),
		origin.X+width,
		origin.Y+metrics.Descent.Ceil(),
	)
}

// LoadImageFile loads an image from the specified path.
func LoadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: test fixture path
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}
