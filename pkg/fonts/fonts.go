// Package fonts resolves the TrueType font used to draw chart text.
//
// Charts use go-chart's bundled default font unless the user configures a
// TTF file. Parsed fonts are cached for the life of the process, so repeated
// renders with the same font do not re-read the file.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
)

var (
	defaultFont     *truetype.Font
	defaultFontErr  error
	defaultFontOnce sync.Once

	mu     sync.Mutex
	loaded = map[string]*truetype.Font{}
)

// Default returns go-chart's bundled font. The result is cached after first use.
func Default() (*truetype.Font, error) {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = gochart.GetDefaultFont()
	})
	return defaultFont, defaultFontErr
}

// Load returns the font at path, or Default when path is empty.
func Load(path string) (*truetype.Font, error) {
	if path == "" {
		return Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("font path: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if f, ok := loaded[abs]; ok {
		return f, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	loaded[abs] = f
	return f, nil
}

// Parse parses TrueType font data.
func Parse(data []byte) (*truetype.Font, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return f, nil
}
