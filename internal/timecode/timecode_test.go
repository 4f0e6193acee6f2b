package timecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFrame(t *testing.T) {
	tests := []struct {
		name     string
		frame    int
		fps      float64
		expected string
	}{
		{"zero", 0, 24, "00:00:00:00"},
		{"one second at 24", 24, 24, "00:00:01:00"},
		{"ten seconds at 24", 240, 24, "00:00:10:00"},
		{"one minute at 24", 1440, 24, "00:01:00:00"},
		{"ten minutes at 24", 14400, 24, "00:10:00:00"},
		{"one hour at 24", 86400, 24, "01:00:00:00"},
		{"last frame of first second at 24", 23, 24, "00:00:00:23"},
		{"ten seconds at 25", 250, 25, "00:00:10:00"},
		{"one minute at 25", 1500, 25, "00:01:00:00"},
		{"one hour at 25", 90000, 25, "01:00:00:00"},
		{"last frame of first second at 25", 24, 25, "00:00:00:24"},
		{"rollover at 25", 25, 25, "00:00:01:00"},
		{"fractional fps truncates", 23, 23.976, "00:00:01:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromFrame(tt.frame, tt.fps))
		})
	}
}

// Incrementing a frame number then converting must agree with converting
// then incrementing the timecode, including across rollover boundaries.
func TestFromFrameAgreesWithAddFrame(t *testing.T) {
	for _, fps := range []float64{24, 25, 30} {
		for frame := 0; frame < 3*60*int(fps); frame += 7 {
			viaFrame := FromFrame(frame+1, fps)
			viaTC, err := AddFrame(FromFrame(frame, fps), fps)
			require.NoError(t, err)
			assert.Equal(t, viaFrame, viaTC, "fps=%v frame=%d", fps, frame)
		}
	}
}

func TestAddFrame(t *testing.T) {
	tests := []struct {
		name     string
		tc       string
		fps      float64
		expected string
	}{
		{"simple", "00:00:00:00", 24, "00:00:00:01"},
		{"frame rollover 24", "00:00:00:23", 24, "00:00:01:00"},
		{"mid second", "00:00:15:15", 24, "00:00:15:16"},
		{"minute rollover 24", "00:00:59:23", 24, "00:01:00:00"},
		{"hour rollover 24", "00:59:59:23", 24, "01:00:00:00"},
		{"frame rollover 25", "00:00:00:24", 25, "00:00:01:00"},
		{"minute rollover 25", "00:00:59:24", 25, "00:01:00:00"},
		{"hour rollover 25", "00:59:59:24", 25, "01:00:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddFrame(tt.tc, tt.fps)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAddFrameSentinelsPassThrough(t *testing.T) {
	for _, tc := range []string{Wrong, Empty} {
		got, err := AddFrame(tc, 24)
		require.NoError(t, err)
		assert.Equal(t, tc, got)
	}
}

func TestAddFrameMalformed(t *testing.T) {
	tests := []string{"", "00:00:00", "garbage", "aa:bb:cc:dd"}
	for _, tc := range tests {
		got, err := AddFrame(tc, 24)
		require.Error(t, err)
		// The input comes back unchanged so callers can keep the last
		// good reading instead of failing the event.
		assert.Equal(t, tc, got)
	}
}

func TestSanitizeOCR(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected string
	}{
		{"no text", nil, Empty},
		{"empty first line", []string{""}, Empty},
		{"clean", []string{"01:02:03:20"}, "01:02:03:20"},
		{"spaces instead of separators", []string{"10 04 05:12"}, "10:04:05:12"},
		{"missing separator", []string{"0020 03:12"}, "00:20:03:12"},
		{"all digits", []string{"12345678"}, "12:34:56:78"},
		{"single digit field", []string{"12:02:8:10"}, Wrong},
		{"too few runs", []string{"12:02 10"}, Wrong},
		{"single char", []string{"1"}, Wrong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeOCR(tt.lines, 0))
		})
	}
}
