package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	xclipboard "golang.design/x/clipboard"

	"github.com/matzehuels/grap/pkg/errors"
)

// Clipboard receives PNG images.
type Clipboard interface {
	WriteImage(ctx context.Context, png []byte) error
}

// FilePlaceholder in Tool.Args is replaced with the path of a temporary PNG
// file. Tools without it receive the image on stdin.
const FilePlaceholder = "{file}"

// Tool is an external command that puts an image/png on the clipboard.
type Tool struct {
	Name string
	Args []string
}

func (t Tool) usesFile() bool {
	for _, a := range t.Args {
		if strings.Contains(a, FilePlaceholder) {
			return true
		}
	}
	return false
}

// DefaultTools returns the clipboard tools tried on the current platform, in
// order of preference.
func DefaultTools() []Tool {
	if runtime.GOOS == "darwin" {
		return []Tool{{
			Name: "osascript",
			Args: []string{"-e", `set the clipboard to (read (POSIX file "` + FilePlaceholder + `") as «class PNGf»)`},
		}}
	}
	return []Tool{
		{Name: "wl-copy", Args: []string{"--type", "image/png"}},
		{Name: "xclip", Args: []string{"-selection", "clipboard", "-t", "image/png", "-i"}},
	}
}

// NewSystemClipboard returns the platform clipboard: the native clipboard
// library with the external tools as fallback. On Linux the library serves the
// X11 selection from this process and has no Wayland support, so wl-copy and
// xclip, which keep the selection after grap exits, are tried first there.
func NewSystemClipboard() Chain {
	tools := &ToolClipboard{Tools: DefaultTools()}
	if runtime.GOOS == "linux" {
		return Chain{tools, NativeClipboard{}}
	}
	return Chain{NativeClipboard{}, tools}
}

// Chain tries each Clipboard in order until one accepts the image. Only
// EXPORT_UNAVAILABLE moves on to the next; other errors are returned.
type Chain []Clipboard

func (c Chain) WriteImage(ctx context.Context, png []byte) error {
	var err error = errors.New(errors.ErrCodeExportUnavailable, "no clipboard configured")
	for _, clip := range c {
		err = clip.WriteImage(ctx, png)
		if err == nil || !errors.Is(err, errors.ErrCodeExportUnavailable) {
			return err
		}
	}
	return err
}

// NativeClipboard writes through golang.design/x/clipboard. It needs cgo, and
// X11 on Linux; without them every write is EXPORT_UNAVAILABLE.
type NativeClipboard struct{}

func (NativeClipboard) WriteImage(ctx context.Context, png []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := xclipboard.Init(); err != nil {
		return errors.Wrap(errors.ErrCodeExportUnavailable, err, "native clipboard")
	}
	if xclipboard.Write(xclipboard.FmtImage, png) == nil {
		return errors.New(errors.ErrCodeExportUnavailable, "native clipboard rejected the image")
	}
	return nil
}

// ToolClipboard writes images through the first installed Tool.
// Every failure is reported as EXPORT_UNAVAILABLE.
type ToolClipboard struct {
	Tools []Tool
}

func (c *ToolClipboard) WriteImage(ctx context.Context, png []byte) error {
	for _, tool := range c.Tools {
		path, err := exec.LookPath(tool.Name)
		if err != nil {
			continue
		}
		if err := run(ctx, path, tool, png); err != nil {
			return errors.Wrap(errors.ErrCodeExportUnavailable, err, "%s failed", tool.Name)
		}
		return nil
	}
	return errors.New(errors.ErrCodeExportUnavailable, "no clipboard tool found")
}

func run(ctx context.Context, path string, tool Tool, png []byte) error {
	args := tool.Args
	var stdin *bytes.Reader
	if tool.usesFile() {
		f, err := os.CreateTemp("", "grap-clip-*.png")
		if err != nil {
			return err
		}
		defer os.Remove(f.Name())
		if _, err := f.Write(png); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		args = make([]string, len(tool.Args))
		for i, a := range tool.Args {
			args[i] = strings.ReplaceAll(a, FilePlaceholder, f.Name())
		}
	} else {
		stdin = bytes.NewReader(png)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// NoClipboard is a Clipboard that is never available.
type NoClipboard struct{}

func (NoClipboard) WriteImage(context.Context, []byte) error {
	return errors.New(errors.ErrCodeExportUnavailable, "clipboard disabled")
}
