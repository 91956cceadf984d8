package render

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview", "chart.png")
	s := &FileSurface{Path: path, Width: 640, Height: 480}

	if w, h := s.Size(); w != 640 || h != 480 {
		t.Errorf("Size() = %d, %d", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	if err := s.Present(img, Frame{Width: 32, Height: 16}); err != nil {
		t.Fatalf("Present() error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("preview not written: %v", err)
	}
	got, err := png.Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if got.Bounds().Dx() != 32 || got.Bounds().Dy() != 16 {
		t.Errorf("preview bounds = %v", got.Bounds())
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("preview dir has %d entries, want only the preview", len(entries))
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Clear() should remove the preview")
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error: %v", err)
	}
}
