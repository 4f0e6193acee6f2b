package frames

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ErrCropMissing marks a crop that the scan phase was expected to have
// written but that cannot be read back. Extraction skips the frame and
// records it in the diagnostics list instead of aborting.
var ErrCropMissing = errors.New("cached crop not found")

// ProcessingError reports a failed image operation together with the
// frame it concerned.
type ProcessingError struct {
	Op    string
	Frame int
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s for frame %d: %v", e.Op, e.Frame, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Cache is the on-disk store of intermediate crops, keyed by frame number.
// The directory layout and file naming are a contract between the scan
// phase that writes crops and the extraction phases that read them back:
//
//	{base}/temp/text_imgs/frame_{N}.png                binarized text-region crop
//	{base}/temp/tc_imgs/frame_{N}.png                  binarized timecode-region crop
//	{base}/temp/thumbnails/{N}.png                     quarter-scale scene thumbnail
//	{base}/temp/first_last_scene_frames/{N}.png        raw scene border still
//	{base}/temp/first_last_scene_frames/frame_{N}.png  reprocessed timecode crop of a still
type Cache struct {
	base string
}

// NewCache returns a cache rooted at base (the files save directory).
func NewCache(base string) *Cache {
	return &Cache{base: base}
}

// TempDir returns the root of the ephemeral cache tree.
func (c *Cache) TempDir() string {
	return filepath.Join(c.base, "temp")
}

// Init creates a fresh cache tree, removing any leftovers from a
// previous run.
func (c *Cache) Init() error {
	for _, dir := range []string{"text_imgs", "tc_imgs", "thumbnails", "first_last_scene_frames"} {
		path := filepath.Join(c.TempDir(), dir)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("reset cache dir %s: %w", path, err)
		}
		if err := os.MkdirAll(path, 0o750); err != nil {
			return fmt.Errorf("create cache dir %s: %w", path, err)
		}
	}
	return nil
}

// Remove deletes the whole cache tree. Callers decide whether to keep it
// for inspection after a failed run.
func (c *Cache) Remove() error {
	return os.RemoveAll(c.TempDir())
}

func (c *Cache) textCropPath(frame int) string {
	return filepath.Join(c.TempDir(), "text_imgs", fmt.Sprintf("frame_%d.png", frame))
}

func (c *Cache) tcCropPath(frame int) string {
	return filepath.Join(c.TempDir(), "tc_imgs", fmt.Sprintf("frame_%d.png", frame))
}

func (c *Cache) thumbnailPath(frame int) string {
	return filepath.Join(c.TempDir(), "thumbnails", fmt.Sprintf("%d.png", frame))
}

func (c *Cache) sceneFramePath(frame int) string {
	return filepath.Join(c.TempDir(), "first_last_scene_frames", fmt.Sprintf("%d.png", frame))
}

func (c *Cache) sceneTCCropPath(frame int) string {
	return filepath.Join(c.TempDir(), "first_last_scene_frames", fmt.Sprintf("frame_%d.png", frame))
}

// SaveTextCrop stores the binarized text-region crop of a frame.
func (c *Cache) SaveTextCrop(frame int, img image.Image) error {
	return save("save text crop", c.textCropPath(frame), frame, img)
}

// SaveTCCrop stores the binarized timecode-region crop of a frame.
func (c *Cache) SaveTCCrop(frame int, img image.Image) error {
	return save("save timecode crop", c.tcCropPath(frame), frame, img)
}

// SaveThumbnail stores the scaled-down scene thumbnail for the report.
func (c *Cache) SaveThumbnail(frame int, img image.Image) error {
	return save("save thumbnail", c.thumbnailPath(frame), frame, img)
}

// SaveSceneFrame stores a raw first/last still of a candidate scene.
func (c *Cache) SaveSceneFrame(frame int, img image.Image) error {
	return save("save scene still", c.sceneFramePath(frame), frame, img)
}

// SaveSceneTCCrop stores the reprocessed timecode crop of a scene still.
func (c *Cache) SaveSceneTCCrop(frame int, img image.Image) error {
	return save("save scene timecode crop", c.sceneTCCropPath(frame), frame, img)
}

// LoadTextCrop reads back the text-region crop of a frame.
func (c *Cache) LoadTextCrop(frame int) (image.Image, error) {
	return load("load text crop", c.textCropPath(frame), frame)
}

// LoadTCCrop reads back the timecode-region crop of a frame.
func (c *Cache) LoadTCCrop(frame int) (image.Image, error) {
	return load("load timecode crop", c.tcCropPath(frame), frame)
}

// LoadSceneFrame reads back a raw scene border still.
func (c *Cache) LoadSceneFrame(frame int) (image.Image, error) {
	return load("load scene still", c.sceneFramePath(frame), frame)
}

// LoadSceneTCCrop reads back a reprocessed timecode crop of a still.
func (c *Cache) LoadSceneTCCrop(frame int) (image.Image, error) {
	return load("load scene timecode crop", c.sceneTCCropPath(frame), frame)
}

func save(op, path string, frame int, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return &ProcessingError{Op: op, Frame: frame, Err: err}
	}
	return nil
}

func load(op, path string, frame int) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ProcessingError{Op: op, Frame: frame, Err: ErrCropMissing}
		}
		return nil, &ProcessingError{Op: op, Frame: frame, Err: err}
	}
	return img, nil
}
