// Package pipeline wires the frame scan, candidate detection, OCR
// reconciliation and event reduction stages into a single run over a
// video file.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/extract"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/frames"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/metrics"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/ocr"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/video"
)

// Config holds configuration for the recovery pipeline and its stages.
type Config struct {
	VideoPath      string
	StartFrame     int
	TextRegion     video.Region
	TCRegion       video.Region
	PixelThreshold int
	VFXSampleCount int
	ADRStride      int
	TempBase       string
	KeepTemp       bool
	MetricsAddr    string
}

// DefaultConfig returns a pipeline config with stage defaults.
func DefaultConfig() Config {
	return Config{
		StartFrame:     0,
		PixelThreshold: frames.DefaultPixelThreshold,
		VFXSampleCount: extract.DefaultVFXSampleCount,
		ADRStride:      extract.DefaultADRStride,
		TempBase:       ".",
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg      Config
	source   video.Source
	engine   ocr.Engine
	progress ProgressCallback
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithConfig replaces the whole configuration at once.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithVideoPath sets the video file to scan.
func (b *Builder) WithVideoPath(path string) *Builder {
	if path != "" {
		b.cfg.VideoPath = path
	}
	return b
}

// WithStartFrame sets the first frame of interest; scene ranges ending
// before it are dropped.
func (b *Builder) WithStartFrame(frame int) *Builder {
	if frame >= 0 {
		b.cfg.StartFrame = frame
	}
	return b
}

// WithRegions sets the burned-in text region and the timecode region.
func (b *Builder) WithRegions(text, tc video.Region) *Builder {
	b.cfg.TextRegion = text
	b.cfg.TCRegion = tc
	return b
}

// WithPixelThreshold sets the foreground pixel count above which a frame
// is flagged as likely containing text.
func (b *Builder) WithPixelThreshold(n int) *Builder {
	if n > 0 {
		b.cfg.PixelThreshold = n
	}
	return b
}

// WithVFXSampleCount sets how many frames are sampled per scene range.
func (b *Builder) WithVFXSampleCount(n int) *Builder {
	if n > 0 {
		b.cfg.VFXSampleCount = n
	}
	return b
}

// WithADRStride sets the probe stride over flagged frames.
func (b *Builder) WithADRStride(n int) *Builder {
	if n > 0 {
		b.cfg.ADRStride = n
	}
	return b
}

// WithTempBase sets the directory under which the crop cache lives.
func (b *Builder) WithTempBase(dir string) *Builder {
	if dir != "" {
		b.cfg.TempBase = dir
	}
	return b
}

// WithKeepTemp keeps the crop cache on disk after the run.
func (b *Builder) WithKeepTemp(keep bool) *Builder {
	b.cfg.KeepTemp = keep
	return b
}

// WithMetricsAddr enables a Prometheus /metrics listener on addr.
func (b *Builder) WithMetricsAddr(addr string) *Builder {
	b.cfg.MetricsAddr = addr
	return b
}

// WithSource injects a frame source, bypassing video file opening.
func (b *Builder) WithSource(src video.Source) *Builder {
	b.source = src
	return b
}

// WithEngine injects an OCR engine. The pipeline does not close injected
// engines.
func (b *Builder) WithEngine(engine ocr.Engine) *Builder {
	b.engine = engine
	return b
}

// WithProgressCallback sets the progress reporter for scan and extraction.
func (b *Builder) WithProgressCallback(callback ProgressCallback) *Builder {
	b.progress = callback
	return b
}

// Config returns a copy of the current config.
func (b *Builder) Config() Config { return b.cfg }

// Validate checks that the configuration looks sane.
func (b *Builder) Validate() error {
	if b.cfg.VideoPath == "" && b.source == nil {
		return errors.New("video path is empty")
	}
	if b.cfg.TextRegion.Empty() {
		return errors.New("text region is empty")
	}
	if b.cfg.TCRegion.Empty() {
		return errors.New("timecode region is empty")
	}
	if b.cfg.StartFrame < 0 {
		return errors.New("start frame must be >= 0")
	}
	if b.cfg.PixelThreshold <= 0 {
		return errors.New("pixel threshold must be > 0")
	}
	if b.cfg.VFXSampleCount <= 0 {
		return errors.New("sample count must be > 0")
	}
	if b.cfg.ADRStride <= 0 {
		return errors.New("stride must be > 0")
	}
	return nil
}

// Pipeline runs the scan and extraction stages over one video.
type Pipeline struct {
	cfg      Config
	source   video.Source
	engine   ocr.Engine
	closer   interface{ Close() error }
	cache    *frames.Cache
	progress ProgressCallback
	metrics  *metrics.Server

	closeOnce sync.Once
	closeErr  error
}

// Build initializes the pipeline stages.
func (b *Builder) Build() (*Pipeline, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:      b.cfg,
		source:   b.source,
		engine:   b.engine,
		progress: b.progress,
		cache:    frames.NewCache(b.cfg.TempBase),
	}
	if p.progress == nil {
		p.progress = NoOpProgressCallback{}
	}
	if p.source == nil {
		src, err := video.Open(b.cfg.VideoPath)
		if err != nil {
			return nil, fmt.Errorf("open video: %w", err)
		}
		p.source = src
	}
	if p.engine == nil {
		t, err := ocr.NewTesseract()
		if err != nil {
			_ = p.source.Close()
			return nil, fmt.Errorf("init ocr engine: %w", err)
		}
		p.engine = t
		p.closer = t
	}
	p.engine = meteredEngine{p.engine}

	if b.cfg.MetricsAddr != "" {
		p.metrics = metrics.StartServer(b.cfg.MetricsAddr)
	}
	return p, nil
}

// Close releases the video source, the owned OCR engine and the metrics
// listener, and removes the crop cache unless KeepTemp is set. It is safe
// to call more than once.
func (p *Pipeline) Close() error {
	p.closeOnce.Do(func() {
		if err := p.source.Close(); err != nil {
			p.closeErr = err
		}
		if p.closer != nil {
			if err := p.closer.Close(); err != nil && p.closeErr == nil {
				p.closeErr = err
			}
		}
		if p.metrics != nil {
			if err := p.metrics.Close(); err != nil && p.closeErr == nil {
				p.closeErr = err
			}
		}
		if !p.cfg.KeepTemp {
			if err := p.cache.Remove(); err != nil && p.closeErr == nil {
				p.closeErr = err
			}
		}
	})
	return p.closeErr
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Run scans the video once and reduces what it finds into a merged,
// timestamp-annotated timeline. The scenes are the shot boundaries
// reported by the external scene detector.
func (p *Pipeline) Run(scenes []frames.SceneRange) (*Results, error) {
	if err := p.cache.Init(); err != nil {
		return nil, fmt.Errorf("init crop cache: %w", err)
	}

	scanStart := time.Now()
	flagged, err := p.scan()
	if err != nil {
		return nil, fmt.Errorf("frame scan: %w", err)
	}
	metrics.ScanDuration.Observe(time.Since(scanStart).Seconds())
	slog.Info("frame scan complete",
		"frames", p.source.FrameCount()-p.cfg.StartFrame,
		"flagged", len(flagged))

	ranges := frames.FilterByStartFrame(scenes, p.cfg.StartFrame)
	candidates := frames.CandidateRanges(ranges, flagged)
	slog.Info("candidate scenes selected", "scenes", len(ranges), "candidates", len(candidates))

	if err := p.saveSceneStills(candidates); err != nil {
		return nil, fmt.Errorf("scene stills: %w", err)
	}

	fps := p.source.FPS()
	var notFound []int

	vfx := extract.NewVFXExtractor(p.cache, p.engine, p.cfg.TCRegion, fps)
	vfx.SampleCount = p.cfg.VFXSampleCount
	vfx.OnProgress = p.progress.OnProgress
	p.progress.OnStart(len(candidates))
	vfxEvents, vfxMissing, err := vfx.Extract(candidates)
	if err != nil {
		p.progress.OnError(0, err)
		return nil, fmt.Errorf("vfx extraction: %w", err)
	}
	p.progress.OnComplete()
	notFound = append(notFound, vfxMissing...)

	adr := extract.NewADRExtractor(p.cache, p.engine, fps)
	adr.Stride = p.cfg.ADRStride
	adr.OnProgress = p.progress.OnProgress
	p.progress.OnStart(len(flagged))
	adrEvents, adrMissing, err := adr.Extract(flagged)
	if err != nil {
		p.progress.OnError(0, err)
		return nil, fmt.Errorf("adr extraction: %w", err)
	}
	p.progress.OnComplete()
	notFound = append(notFound, adrMissing...)

	metrics.EventsExtracted.WithLabelValues("vfx").Add(float64(len(vfxEvents)))
	metrics.EventsExtracted.WithLabelValues("adr").Add(float64(len(adrEvents)))
	metrics.FramesNotFound.Add(float64(len(notFound)))

	timeline := extract.Merge(vfxEvents, adrEvents)
	extract.AnnotateRealTimestamps(timeline, fps)

	return &Results{
		Video:          p.cfg.VideoPath,
		FPS:            fps,
		Events:         timeline,
		FramesNotFound: dedupeSorted(notFound),
	}, nil
}

// meteredEngine wraps an engine with Prometheus observation.
type meteredEngine struct {
	inner ocr.Engine
}

func (m meteredEngine) Recognize(img image.Image, profile ocr.Profile) ([]string, error) {
	start := time.Now()
	lines, err := m.inner.Recognize(img, profile)
	metrics.ObserveOCR(profile.String(), time.Since(start))
	return lines, err
}

func dedupeSorted(frames []int) []int {
	if len(frames) == 0 {
		return nil
	}
	sort.Ints(frames)
	out := frames[:1]
	for _, f := range frames[1:] {
		if f != out[len(out)-1] {
			out = append(out, f)
		}
	}
	return out
}
