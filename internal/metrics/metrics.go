// Package metrics exposes Prometheus instrumentation for the recovery
// pipeline. All collectors are registered on the default registry so an
// optional /metrics listener can serve them without extra wiring.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Frame scanning metrics
	FramesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sceneinfo_frames_scanned_total",
			Help: "Total number of video frames scanned for burned-in text",
		},
	)

	FramesFlagged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sceneinfo_frames_flagged_total",
			Help: "Total number of frames whose text region crossed the pixel threshold",
		},
	)

	// OCR metrics
	OCRCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sceneinfo_ocr_calls_total",
			Help: "Total number of OCR invocations",
		},
		[]string{"profile"}, // profile: free_text, strict_timecode
	)

	OCRDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sceneinfo_ocr_duration_seconds",
			Help:    "OCR invocation duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"profile"},
	)

	// Extraction metrics
	EventsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sceneinfo_events_extracted_total",
			Help: "Total number of annotation events recovered",
		},
		[]string{"kind"}, // kind: vfx, adr
	)

	FramesNotFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sceneinfo_frames_not_found_total",
			Help: "Total number of cached crops that could not be read back",
		},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sceneinfo_scan_duration_seconds",
			Help:    "Duration of the full frame scan pass in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)
)

// ObserveOCR records one OCR invocation for the given profile.
func ObserveOCR(profile string, elapsed time.Duration) {
	OCRCalls.WithLabelValues(profile).Inc()
	OCRDuration.WithLabelValues(profile).Observe(elapsed.Seconds())
}

// Server serves the Prometheus registry over HTTP.
type Server struct {
	srv *http.Server
}

// StartServer begins serving /metrics on addr in a background goroutine.
// A failure to listen is logged, not fatal; metrics are an aid, not a
// prerequisite for extraction.
func StartServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Warn("metrics listener stopped", "addr", addr, "error", err)
		}
	}()
	return &Server{srv: srv}
}

// Close shuts the listener down, waiting briefly for in-flight scrapes.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
