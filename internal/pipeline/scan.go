package pipeline

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/frames"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/metrics"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/video"
)

// thumbnailDivisor is the downscale factor for candidate scene thumbnails.
const thumbnailDivisor = 4

// scan reads the video sequentially from the start frame, classifies
// every frame and caches the text and timecode crops of the flagged
// ones. It returns the flagged frame numbers in ascending order.
func (p *Pipeline) scan() ([]int, error) {
	classifier := frames.NewClassifier(p.cfg.TextRegion, p.cfg.TCRegion)
	classifier.PixelThreshold = p.cfg.PixelThreshold

	total := p.source.FrameCount() - p.cfg.StartFrame
	if total < 0 {
		total = 0
	}
	p.progress.OnStart(total)

	if err := p.source.Seek(p.cfg.StartFrame); err != nil {
		return nil, fmt.Errorf("seek to frame %d: %w", p.cfg.StartFrame, err)
	}

	var flagged []int
	done := 0
	for {
		frame, n, ok := p.source.Read()
		if !ok {
			break
		}
		metrics.FramesScanned.Inc()

		c := classifier.Classify(frame)
		if c.HasText {
			metrics.FramesFlagged.Inc()
			flagged = append(flagged, n)
			if err := p.cache.SaveTextCrop(n, c.TextCrop); err != nil {
				return nil, fmt.Errorf("cache text crop %d: %w", n, err)
			}
			if err := p.cache.SaveTCCrop(n, c.TCCrop); err != nil {
				return nil, fmt.Errorf("cache timecode crop %d: %w", n, err)
			}
		}
		done++
		p.progress.OnProgress(done, total)
	}
	p.progress.OnComplete()
	return flagged, nil
}

// saveSceneStills caches the raw first and last frames of every
// candidate range, plus a downscaled thumbnail of the first frame. The
// VFX pass re-reads the stills for the sharper timecode-region OCR.
func (p *Pipeline) saveSceneStills(candidates []frames.SceneRange) error {
	for _, r := range candidates {
		first, err := video.ReadAt(p.source, r.Start)
		if err != nil {
			return fmt.Errorf("read frame %d: %w", r.Start, err)
		}
		if err := p.cache.SaveSceneFrame(r.Start, first); err != nil {
			return fmt.Errorf("cache scene frame %d: %w", r.Start, err)
		}

		w := first.Bounds().Dx() / thumbnailDivisor
		if w < 1 {
			w = 1
		}
		thumb := imaging.Resize(first, w, 0, imaging.Lanczos)
		if err := p.cache.SaveThumbnail(r.Start, thumb); err != nil {
			return fmt.Errorf("cache thumbnail %d: %w", r.Start, err)
		}

		last := r.End - 1
		if last == r.Start {
			continue
		}
		img, err := video.ReadAt(p.source, last)
		if err != nil {
			return fmt.Errorf("read frame %d: %w", last, err)
		}
		if err := p.cache.SaveSceneFrame(last, img); err != nil {
			return fmt.Errorf("cache scene frame %d: %w", last, err)
		}
	}
	return nil
}
