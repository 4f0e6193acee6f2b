package pipeline

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleProgressCallback(t *testing.T) {
	var buf bytes.Buffer
	cb := NewConsoleProgressCallback(&buf, "scan: ").WithWidth(10)

	cb.OnStart(4)
	cb.OnProgress(2, 4)
	cb.OnProgress(4, 4)
	cb.OnComplete()

	out := buf.String()
	assert.Contains(t, out, "scan: 0/4 (0.0%)")
	assert.Contains(t, out, "4/4 (100.0%)")
	assert.Contains(t, out, "done in")
}

func TestConsoleProgressCallbackError(t *testing.T) {
	var buf bytes.Buffer
	cb := NewConsoleProgressCallback(&buf, "")
	cb.OnStart(10)
	cb.OnError(3, errors.New("ocr failed"))
	assert.Contains(t, buf.String(), "error at frame 3: ocr failed")
}

func TestLogProgressCallbackInterval(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cb := NewLogProgressCallback(logger, slog.LevelInfo, "adr: ").WithInterval(5)

	cb.OnStart(10)
	for i := 1; i <= 10; i++ {
		cb.OnProgress(i, 10)
	}
	cb.OnComplete()

	out := buf.String()
	assert.Contains(t, out, "adr: phase started")
	assert.Contains(t, out, "adr: phase complete")
	// interval 5 over 10 items: updates at 5 and 10 only
	assert.Equal(t, 2, strings.Count(out, "adr: progress"))
}

func TestMultiProgressCallback(t *testing.T) {
	var a, b bytes.Buffer
	multi := NewMultiProgressCallback(
		NewConsoleProgressCallback(&a, "a: "),
	)
	multi.Add(NewConsoleProgressCallback(&b, "b: "))

	multi.OnStart(2)
	multi.OnProgress(2, 2)
	multi.OnComplete()

	assert.Contains(t, a.String(), "a: 0/2")
	assert.Contains(t, b.String(), "b: 0/2")
	assert.Contains(t, a.String(), "2/2 (100.0%)")
}

func TestNoOpProgressCallback(t *testing.T) {
	var cb ProgressCallback = NoOpProgressCallback{}
	cb.OnStart(1)
	cb.OnProgress(1, 1)
	cb.OnComplete()
	cb.OnError(0, errors.New("ignored"))
}
