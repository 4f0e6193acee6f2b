package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

const (
	freeTextAllowlist = " 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz?!:"
	timecodeAllowlist = ":0123456789"
)

// Tesseract is an Engine backed by the Tesseract OCR engine. The
// dictionary dawgs are disabled since burned-in production text is not
// natural language and dictionary correction only hurts timecodes.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates a Tesseract-backed recognizer for English text.
func NewTesseract() (*Tesseract, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("set ocr language: %w", err)
	}
	for _, v := range []gosseract.SettableVariable{"load_system_dawg", "load_freq_dawg"} {
		if err := client.SetVariable(v, "F"); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("set ocr variable %s: %w", v, err)
		}
	}
	return &Tesseract{client: client}, nil
}

// Recognize runs OCR on the image with the profile's segmentation mode
// and character allow-list, returning non-empty lines.
func (t *Tesseract) Recognize(img image.Image, profile Profile) ([]string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image for ocr: %w", err)
	}
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set ocr image: %w", err)
	}
	switch profile {
	case StrictTimecode:
		if err := t.client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
			return nil, fmt.Errorf("set ocr segmentation: %w", err)
		}
		if err := t.client.SetWhitelist(timecodeAllowlist); err != nil {
			return nil, fmt.Errorf("set ocr whitelist: %w", err)
		}
	default:
		if err := t.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
			return nil, fmt.Errorf("set ocr segmentation: %w", err)
		}
		if err := t.client.SetWhitelist(freeTextAllowlist); err != nil {
			return nil, fmt.Errorf("set ocr whitelist: %w", err)
		}
	}
	text, err := t.client.Text()
	if err != nil {
		return nil, fmt.Errorf("ocr %s: %w", profile, err)
	}
	return SplitLines(text), nil
}

// Close releases the Tesseract client.
func (t *Tesseract) Close() error {
	return t.client.Close()
}
