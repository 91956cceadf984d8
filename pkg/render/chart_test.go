package render

import (
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/matzehuels/grap/pkg/chart"
)

func TestChartLifecycle(t *testing.T) {
	surface := NewImageSurface(800, 800)
	s0 := chart.Build(sampleTable(), chart.DefaultOptions())

	c, err := Mount(surface, s0)
	if err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	if !c.Mounted() || c.Generation() != 1 || surface.Presents() != 1 {
		t.Fatalf("after Mount: mounted=%v gen=%d presents=%d", c.Mounted(), c.Generation(), surface.Presents())
	}
	if want := FitFrame(800, 800, s0.Ratio()); c.Frame() != want || surface.Frame() != want {
		t.Errorf("Frame() = %+v, want %+v", c.Frame(), want)
	}

	s1 := chart.Build(sampleTable(), chart.DefaultOptions().WithType(chart.TypeBar).WithAspectRatio(chart.AspectSquare))
	if err := c.Update(s1); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if c.Generation() != 2 || surface.Presents() != 2 {
		t.Errorf("after Update: gen=%d presents=%d", c.Generation(), surface.Presents())
	}
	if c.Spec().Type != chart.TypeBar {
		t.Errorf("Spec().Type = %s, want bar", c.Spec().Type)
	}
	if f := c.Frame(); f.Width != f.Height {
		t.Errorf("square frame = %+v", f)
	}

	if err := c.Unmount(); err != nil {
		t.Fatalf("Unmount() error: %v", err)
	}
	if surface.Image() != nil {
		t.Error("surface should be cleared after Unmount")
	}
	if err := c.Unmount(); err != nil {
		t.Errorf("second Unmount() error: %v", err)
	}
	if err := c.Update(s0); !errors.Is(err, ErrUnmounted) {
		t.Errorf("Update after Unmount = %v, want ErrUnmounted", err)
	}
	if err := c.Refresh(); !errors.Is(err, ErrUnmounted) {
		t.Errorf("Refresh after Unmount = %v, want ErrUnmounted", err)
	}
}

func TestChartUpdateIsolatesSpec(t *testing.T) {
	surface := NewImageSurface(400, 300)
	spec := chart.Build(sampleTable(), chart.DefaultOptions())
	c, err := Mount(surface, spec)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Unmount()

	spec.Labels[0] = "changed"
	if c.Spec().Labels[0] != "jan" {
		t.Error("chart shares label storage with caller")
	}
}

func TestChartRefresh(t *testing.T) {
	surface := NewImageSurface(1000, 1000)
	c, err := Mount(surface, chart.Build(sampleTable(), chart.DefaultOptions()))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Unmount()

	before := c.Frame()
	surface.Resize(500, 500)
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if after := c.Frame(); after.Width >= before.Width {
		t.Errorf("frame after shrink = %+v, before %+v", after, before)
	}
}

func TestChartConcurrentUpdates(t *testing.T) {
	surface := NewImageSurface(300, 200)
	c, err := Mount(surface, chart.Build(sampleTable(), chart.DefaultOptions()))
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for _, typ := range chart.Types {
		wg.Add(1)
		go func(typ chart.Type) {
			defer wg.Done()
			if err := c.Update(chart.Build(sampleTable(), chart.DefaultOptions().WithType(typ))); err != nil {
				t.Errorf("Update(%s) error: %v", typ, err)
			}
		}(typ)
	}
	wg.Wait()

	if got := c.Generation(); got != len(chart.Types)+1 {
		t.Errorf("Generation() = %d, want %d", got, len(chart.Types)+1)
	}
	if err := c.Unmount(); err != nil {
		t.Fatal(err)
	}
}

// flakySurface rejects presents while broken is set.
type flakySurface struct {
	*ImageSurface
	broken bool
}

func (s *flakySurface) Present(img image.Image, frame Frame) error {
	if s.broken {
		return errors.New("surface gone")
	}
	return s.ImageSurface.Present(img, frame)
}

func TestChartFailedPresentKeepsDrawing(t *testing.T) {
	surface := &flakySurface{ImageSurface: NewImageSurface(800, 800)}
	c, err := Mount(surface, chart.Build(sampleTable(), chart.DefaultOptions()))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Unmount()
	frame, gen, inst := c.Frame(), c.Generation(), c.inst

	surface.broken = true
	square := chart.Build(sampleTable(), chart.DefaultOptions().WithAspectRatio(chart.AspectSquare))
	if err := c.Update(square); err == nil {
		t.Fatal("Update() should report the present failure")
	}
	if c.Frame() != frame || c.Generation() != gen {
		t.Errorf("failed update changed state: frame %+v gen %d, want %+v gen %d", c.Frame(), c.Generation(), frame, gen)
	}
	if c.inst != inst || inst.img == nil {
		t.Error("failed update destroyed the shown drawing")
	}
	if c.Spec().AspectRatio == chart.AspectSquare {
		t.Error("failed update replaced the spec")
	}

	surface.broken = false
	if err := c.Update(square); err != nil {
		t.Fatalf("Update() after recovery: %v", err)
	}
	if inst.img != nil {
		t.Error("replaced drawing was not destroyed")
	}
}

func TestMountNilSurface(t *testing.T) {
	if _, err := Mount(nil, chart.Spec{}); err == nil {
		t.Error("Mount(nil) should fail")
	}
}
