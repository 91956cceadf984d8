package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/grap/pkg/cache"
	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/color"
	"github.com/matzehuels/grap/pkg/errors"
	"github.com/matzehuels/grap/pkg/export"
	"github.com/matzehuels/grap/pkg/pipeline"
	"github.com/matzehuels/grap/pkg/render"
)

func newTestPanel(t *testing.T) (panelModel, string) {
	t.Helper()
	input := writeCSV(t, salesCSV)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, log.New(io.Discard))
	runner.Exporter = export.NewExporter(nil, export.WithBaseWidth(160), export.WithClipboard(export.NoClipboard{}))

	opts := pipeline.Options{Source: input, Chart: chart.DefaultOptions()}
	m, err := newPanelModel(context.Background(), runner, opts, render.NewImageSurface(320, 240))
	if err != nil {
		t.Fatal(err)
	}
	m.exportDir = t.TempDir()
	return m, input
}

func press(t *testing.T, m panelModel, keys ...string) panelModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(panelModel)
	}
	return m
}

func TestPanelCycleType(t *testing.T) {
	m, _ := newTestPanel(t)
	gen := m.chart.Generation()

	m = press(t, m, "right")
	if got := m.chart.Spec().Type; got != chart.TypeBar {
		t.Errorf("after right: type = %s, want bar", got)
	}
	if m.chart.Generation() <= gen {
		t.Error("cycling did not redraw the chart")
	}

	m = press(t, m, "left", "left")
	if got := m.chart.Spec().Type; got != chart.TypeFunnel {
		t.Errorf("after left twice: type = %s, want funnel", got)
	}
}

func TestPanelCycleTheme(t *testing.T) {
	m, _ := newTestPanel(t)
	m = press(t, m, "down", "enter")
	if got := m.chart.Spec().Theme; got != chart.ThemeDark {
		t.Errorf("theme = %s, want dark", got)
	}
}

func TestPanelCycleHueAndOpacity(t *testing.T) {
	m, _ := newTestPanel(t)
	start := m.chart.Spec().SeriesColor

	m.cursor = fieldHue
	m = press(t, m, "right")
	hsva := start.HSVA()
	hsva.H += hueStep
	if got, want := m.chart.Spec().SeriesColor, color.FromHSVA(hsva); got != want {
		t.Errorf("after hue right: color = %s, want %s", got, want)
	}

	m.cursor = fieldOpacity
	m = press(t, m, "left", "left")
	if got := m.chart.Spec().SeriesColor.Opacity(); got != 100-2*opacityStep {
		t.Errorf("opacity = %d, want %d", got, 100-2*opacityStep)
	}
	if !strings.Contains(m.View(), "80%") {
		t.Error("view does not show the new opacity")
	}

	m = press(t, m, "right", "right", "right")
	if got := m.chart.Spec().SeriesColor.Opacity(); got != 100 {
		t.Errorf("opacity = %d, want clamped to 100", got)
	}
}

func TestPanelEditTitle(t *testing.T) {
	m, _ := newTestPanel(t)
	m.cursor = fieldTitle

	m = press(t, m, "enter")
	if !m.editing {
		t.Fatal("enter on a text field should start editing")
	}
	m = press(t, m, "Q", "3", "enter")
	if m.editing {
		t.Error("enter should finish editing")
	}
	if got := m.chart.Spec().Title; got != "Q3" {
		t.Errorf("title = %q, want Q3", got)
	}
}

func TestPanelEditCancel(t *testing.T) {
	m, _ := newTestPanel(t)
	m.cursor = fieldXAxisLabel
	m = press(t, m, "enter", "x", "esc")
	if m.editing || m.chart.Spec().XAxisLabel != "" {
		t.Errorf("esc should discard the edit, got %q", m.chart.Spec().XAxisLabel)
	}
}

func TestPanelInvalidColor(t *testing.T) {
	m, _ := newTestPanel(t)
	before := m.chart.Spec().SeriesColor
	m.cursor = fieldSeriesColor

	m = press(t, m, "enter")
	m.input.SetValue("nope")
	m = press(t, m, "enter")
	if !m.failed {
		t.Error("invalid color should set the failed status")
	}
	if m.chart.Spec().SeriesColor != before {
		t.Error("invalid color changed the chart")
	}
}

func TestPanelReload(t *testing.T) {
	m, input := newTestPanel(t)

	if err := os.WriteFile(input, []byte("a,\"b\n1,2"), 0o644); err != nil {
		t.Fatal(err)
	}
	m = press(t, m, "u")
	if !m.failed || m.status != errors.ParseMessage {
		t.Errorf("status = %q (failed=%v), want the parse message", m.status, m.failed)
	}
	if got := len(m.chart.Spec().Labels); got != 3 {
		t.Errorf("failed reload replaced the chart: %d labels", got)
	}

	if err := os.WriteFile(input, []byte("k,v\na,1\nb,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m = press(t, m, "u")
	if m.failed {
		t.Fatalf("reload failed: %s", m.status)
	}
	if got := len(m.chart.Spec().Labels); got != 2 {
		t.Errorf("labels after reload = %d, want 2", got)
	}
}

func TestPanelExportAndCopy(t *testing.T) {
	m, _ := newTestPanel(t)

	m = press(t, m, "e")
	if m.failed {
		t.Fatalf("export failed: %s", m.status)
	}
	if _, err := os.Stat(filepath.Join(m.exportDir, "chart-landscape.png")); err != nil {
		t.Errorf("export not written: %v", err)
	}

	m = press(t, m, "c")
	if m.failed || m.status != "" {
		t.Errorf("copy without a clipboard should be skipped silently, got %q", m.status)
	}
}

type memClipboard struct{ data []byte }

func (c *memClipboard) WriteImage(_ context.Context, png []byte) error {
	c.data = png
	return nil
}

func TestPanelCopyDelivered(t *testing.T) {
	m, _ := newTestPanel(t)
	clip := &memClipboard{}
	m.exporter = export.NewExporter(nil, export.WithBaseWidth(160), export.WithClipboard(clip))

	m = press(t, m, "c")
	if m.failed || m.status != "Sent to clipboard" {
		t.Errorf("status = %q (failed=%v), want the sent message", m.status, m.failed)
	}
	if len(clip.data) == 0 {
		t.Error("nothing reached the clipboard")
	}
}

func TestPanelQuit(t *testing.T) {
	m, _ := newTestPanel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if next.(panelModel).chart.Mounted() {
		t.Error("q should unmount the chart")
	}
}

func TestPanelView(t *testing.T) {
	m, _ := newTestPanel(t)
	view := m.View()
	for _, want := range []string{"Chart type", "line", "(none)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q", want)
		}
	}
}
