package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
)

// Surface is where a live chart is shown. Size reports the enclosing
// container; Present shows a drawn chart inside it at frame.
type Surface interface {
	Size() (width, height int)
	Present(img image.Image, frame Frame) error
	Clear() error
}

// ImageSurface keeps the last presented chart in memory.
type ImageSurface struct {
	mu       sync.Mutex
	width    int
	height   int
	img      image.Image
	frame    Frame
	presents int
}

// NewImageSurface returns a surface with the given container size.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{width: width, height: height}
}

func (s *ImageSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize changes the container size. Call Chart.Refresh to re-fit.
func (s *ImageSurface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

func (s *ImageSurface) Present(img image.Image, frame Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img, s.frame = img, frame
	s.presents++
	return nil
}

func (s *ImageSurface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img, s.frame = nil, Frame{}
	return nil
}

// Image returns the chart currently shown, or nil.
func (s *ImageSurface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

// Frame returns the frame of the chart currently shown.
func (s *ImageSurface) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Presents returns how many times a chart was presented.
func (s *ImageSurface) Presents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

// FileSurface writes the presented chart to a PNG file, replacing it
// atomically, so an image viewer watching the file always sees a whole image.
type FileSurface struct {
	Path   string
	Width  int
	Height int
}

func (s *FileSurface) Size() (int, int) { return s.Width, s.Height }

func (s *FileSurface) Present(img image.Image, _ Frame) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preview dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".preview-*.png")
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode preview: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

func (s *FileSurface) Clear() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
