package render

import (
	"errors"
	"image"
	"sync"

	"github.com/matzehuels/grap/pkg/chart"
)

// ErrUnmounted is returned by operations on a chart after Unmount.
var ErrUnmounted = errors.New("render: chart is unmounted")

// Chart is a live chart bound to a surface. All methods are safe for
// concurrent use; state transitions are serialized.
type Chart struct {
	mu      sync.Mutex
	surface Surface
	opts    []Option
	spec    chart.Spec
	inst    *instance
	gen     int
	mounted bool
}

// instance is one drawing of one spec at one frame.
type instance struct {
	spec  chart.Spec
	frame Frame
	img   image.Image
}

func (i *instance) destroy() {
	i.img = nil
}

// Mount draws spec on surface and returns the live handle.
func Mount(surface Surface, spec chart.Spec, opts ...Option) (*Chart, error) {
	if surface == nil {
		return nil, errors.New("render: nil surface")
	}
	c := &Chart{surface: surface, opts: opts, mounted: true}
	if err := c.replace(spec); err != nil {
		return nil, err
	}
	return c, nil
}

// Update draws spec and, once the surface shows it, destroys the previous
// drawing. If drawing or presenting spec fails, the previous drawing stays.
func (c *Chart) Update(spec chart.Spec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return ErrUnmounted
	}
	return c.replaceLocked(spec)
}

// Refresh re-reads the surface size and redraws the current spec.
func (c *Chart) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return ErrUnmounted
	}
	return c.replaceLocked(c.spec)
}

// Unmount tears down the drawing and clears the surface. It is idempotent.
func (c *Chart) Unmount() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return nil
	}
	c.mounted = false
	if c.inst != nil {
		c.inst.destroy()
		c.inst = nil
	}
	return c.surface.Clear()
}

// Spec returns the spec currently shown.
func (c *Chart) Spec() chart.Spec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec
}

// Frame returns the frame of the current drawing.
func (c *Chart) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inst == nil {
		return Frame{}
	}
	return c.inst.frame
}

// Mounted reports whether the chart is mounted.
func (c *Chart) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// Generation counts drawing instances created over the chart's lifetime.
func (c *Chart) Generation() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Chart) replace(spec chart.Spec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.replaceLocked(spec)
}

func (c *Chart) replaceLocked(spec chart.Spec) error {
	cw, ch := c.surface.Size()
	frame := FitFrame(cw, ch, spec.Ratio())

	opts := append(append([]Option(nil), c.opts...), WithSize(frame.Width, frame.Height))
	img, err := Image(spec, opts...)
	if err != nil {
		return err
	}

	next := &instance{spec: spec.Clone(), frame: frame, img: img}
	if err := c.surface.Present(img, frame); err != nil {
		return err
	}
	if c.inst != nil {
		c.inst.destroy()
	}
	c.inst = next
	c.spec = next.spec
	c.gen++
	return nil
}
