package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/color"
	"github.com/matzehuels/grap/pkg/errors"
	"github.com/matzehuels/grap/pkg/export"
	"github.com/matzehuels/grap/pkg/pipeline"
	"github.com/matzehuels/grap/pkg/render"
	"github.com/matzehuels/grap/pkg/table"
)

// Default preview container size.
const (
	defaultPreviewWidth  = 1200
	defaultPreviewHeight = 800
)

// panelCommand creates the interactive control panel command.
func (c *CLI) panelCommand() *cobra.Command {
	var (
		flags   chartFlags
		preview string
		width   int
		height  int
		dir     string
	)

	cmd := &cobra.Command{
		Use:   "panel <file.csv>",
		Short: "Tune a chart interactively with a live preview image",
		Long: `Tune a chart interactively with a live preview image.

The panel lists every chart option. Each change redraws the chart into the
preview PNG; open it in an image viewer that reloads on change.

Keys:
  ↑/↓       select an option
  ←/→       cycle chart type, theme, text size, aspect ratio,
            series hue and opacity
  enter     edit title, axis labels or series color
  e         export chart-<ratio>.png
  c         copy the export image to the clipboard
  u         reload the CSV file
  q         quit`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: csvCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == pipeline.StdinSource {
				return errors.New(errors.ErrCodeInvalidInput, "panel needs a file; stdin is used by the terminal")
			}
			ctx := cmd.Context()

			e, err := c.open(ctx, false)
			if err != nil {
				return err
			}
			defer e.Close()

			// Log lines would tear the full-screen UI.
			quiet := log.NewWithOptions(io.Discard, log.Options{})
			e.runner.Logger = quiet

			opts, err := e.pipelineOptions(args[0], &flags, cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dir") && e.cfg.Render.OutputDir != "" {
				dir = e.cfg.Render.OutputDir
			}

			surface := &render.FileSurface{Path: preview, Width: width, Height: height}
			m, err := newPanelModel(ctx, e.runner, opts, surface)
			if err != nil {
				return userError(err)
			}
			m.exporter = export.NewExporter(quiet, export.WithFont(e.font), export.WithLiveFrame(m.chart.Frame))
			m.exportDir = dir

			final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			if fm, ok := final.(panelModel); ok {
				_ = fm.chart.Unmount()
			} else {
				_ = m.chart.Unmount()
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&preview, "preview", filepath.Join(os.TempDir(), "grap-preview.png"), "preview image path")
	cmd.Flags().IntVar(&width, "preview-width", defaultPreviewWidth, "preview container width")
	cmd.Flags().IntVar(&height, "preview-height", defaultPreviewHeight, "preview container height")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "export directory (default: config output_dir, else current directory)")

	return cmd
}

// =============================================================================
// Panel Model
// =============================================================================

// panelField is one row of the panel.
type panelField int

const (
	fieldType panelField = iota
	fieldTheme
	fieldTextSize
	fieldAspectRatio
	fieldHue
	fieldOpacity
	fieldTitle
	fieldXAxisLabel
	fieldYAxisLabel
	fieldSeriesColor
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Chart type", "Theme", "Text size", "Aspect ratio", "Hue", "Opacity",
	"Title", "X axis label", "Y axis label", "Series color",
}

// Steps for the series color rows.
const (
	hueStep     = 15
	opacityStep = 10
)

// editable reports whether the field takes free text rather than cycling.
func (f panelField) editable() bool { return f >= fieldTitle }

// panelModel is the bubbletea model of the control panel. It owns one live
// chart; every option change rebuilds the spec and updates the chart.
type panelModel struct {
	ctx       context.Context
	runner    *pipeline.Runner
	exporter  *export.Exporter
	exportDir string
	opts      pipeline.Options
	table     *table.Table
	chart     *render.Chart
	preview   string

	cursor  panelField
	editing bool
	input   textinput.Model
	status  string
	failed  bool
}

// newPanelModel ingests the CSV and mounts the chart on surface.
func newPanelModel(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, surface render.Surface) (panelModel, error) {
	tbl, err := runner.Ingest(ctx, opts)
	if err != nil {
		return panelModel{}, err
	}
	var ropts []render.Option
	if opts.Font != nil {
		ropts = append(ropts, render.WithFont(opts.Font))
	}
	ch, err := render.Mount(surface, pipeline.Build(ctx, tbl, opts), ropts...)
	if err != nil {
		return panelModel{}, err
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 120

	m := panelModel{
		ctx:      ctx,
		runner:   runner,
		exporter: runner.Exporter,
		opts:     opts,
		table:    tbl,
		chart:    ch,
		input:    input,
	}
	if fs, ok := surface.(*render.FileSurface); ok {
		m.preview = fs.Path
	}
	return m, nil
}

func (m panelModel) Init() tea.Cmd {
	return nil
}

func (m panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.editing {
		return m.updateEditing(key)
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		_ = m.chart.Unmount()
		return m, tea.Quit
	case "up", "k", "shift+tab":
		m.cursor = (m.cursor + fieldCount - 1) % fieldCount
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % fieldCount
	case "left", "h":
		m.cycle(-1)
	case "right", "l":
		m.cycle(1)
	case "enter":
		if !m.cursor.editable() {
			m.cycle(1)
			break
		}
		m.editing = true
		m.input.SetValue(m.textValue(m.cursor))
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "e":
		m.export()
	case "c":
		m.copy()
	case "u":
		m.reload()
	}
	return m, nil
}

func (m panelModel) updateEditing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		_ = m.chart.Unmount()
		return m, tea.Quit
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		m.commit(m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// cycle steps the enumerated option under the cursor.
func (m *panelModel) cycle(delta int) {
	o := m.opts.Chart
	switch m.cursor {
	case fieldType:
		o = o.WithType(chart.Cycle(chart.Types, o.Type, delta))
	case fieldTheme:
		o = o.WithTheme(chart.Cycle(chart.Themes, o.Theme, delta))
	case fieldTextSize:
		o = o.WithTextSize(chart.Cycle(chart.TextSizes, o.TextSize, delta))
	case fieldAspectRatio:
		o = o.WithAspectRatio(chart.Cycle(chart.AspectRatios, o.AspectRatio, delta))
	case fieldHue:
		hsva := o.SeriesColor.HSVA()
		hsva.H += float64(hueStep * delta)
		o = o.WithSeriesColor(color.FromHSVA(hsva))
	case fieldOpacity:
		o = o.WithSeriesColor(o.SeriesColor.WithOpacity(o.SeriesColor.Opacity() + opacityStep*delta))
	default:
		return
	}
	m.apply(o)
}

// commit applies an edited text value to the field under the cursor.
func (m *panelModel) commit(v string) {
	o := m.opts.Chart
	switch m.cursor {
	case fieldTitle:
		o = o.WithTitle(v)
	case fieldXAxisLabel:
		o = o.WithXAxisLabel(v)
	case fieldYAxisLabel:
		o = o.WithYAxisLabel(v)
	case fieldSeriesColor:
		c, err := color.ParseHex(v)
		if err != nil {
			m.fail(err)
			return
		}
		o = o.WithSeriesColor(c)
	default:
		return
	}
	m.apply(o)
}

// apply rebuilds the spec from o and updates the live chart.
func (m *panelModel) apply(o chart.Options) {
	m.opts.Chart = o
	if err := m.chart.Update(pipeline.Build(m.ctx, m.table, m.opts)); err != nil {
		m.fail(err)
		return
	}
	m.ok("")
}

func (m *panelModel) export() {
	path, err := m.exporter.ExportPNG(m.ctx, m.exportDir, m.chart.Spec(), m.opts.Chart.AspectRatio)
	if err != nil {
		m.fail(err)
		return
	}
	m.ok("Exported " + path)
}

func (m *panelModel) copy() {
	copied, err := m.exporter.Copy(m.ctx, m.chart.Spec(), m.opts.Chart.AspectRatio)
	if err != nil {
		m.fail(err)
		return
	}
	if copied {
		m.ok("Sent to clipboard")
	} else {
		m.ok("")
	}
}

// reload re-reads the CSV file. On failure the previous chart stays.
func (m *panelModel) reload() {
	opts := m.opts
	opts.Refresh = true
	tbl, err := m.runner.Ingest(m.ctx, opts)
	if err != nil {
		m.fail(err)
		return
	}
	m.table = tbl
	m.apply(m.opts.Chart)
	if !m.failed {
		m.ok(fmt.Sprintf("Reloaded %s", plural(tbl.Len(), "row")))
	}
}

func (m *panelModel) ok(status string) {
	m.status, m.failed = status, false
}

func (m *panelModel) fail(err error) {
	m.status, m.failed = errors.UserMessage(err), true
}

// textValue returns the current value of a field as shown in the panel.
func (m panelModel) textValue(f panelField) string {
	o := m.opts.Chart
	switch f {
	case fieldType:
		return string(o.Type)
	case fieldTheme:
		return string(o.Theme)
	case fieldTextSize:
		return string(o.TextSize)
	case fieldAspectRatio:
		return string(o.AspectRatio)
	case fieldHue:
		return fmt.Sprintf("%.0f°", o.SeriesColor.HSVA().H)
	case fieldOpacity:
		return fmt.Sprintf("%d%%", o.SeriesColor.Opacity())
	case fieldTitle:
		return o.Title
	case fieldXAxisLabel:
		return o.XAxisLabel
	case fieldYAxisLabel:
		return o.YAxisLabel
	case fieldSeriesColor:
		return o.SeriesColor.Hex()
	}
	return ""
}

// =============================================================================
// View
// =============================================================================

var (
	panelLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	panelCursorStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

func (m panelModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("grap") + StyleDim.Render(" · "+displayName(m.opts.Source)))
	b.WriteString("\n")
	if m.preview != "" {
		f := m.chart.Frame()
		b.WriteString(StyleDim.Render(fmt.Sprintf("preview %s (%d×%d)", m.preview, f.Width, f.Height)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for f := panelField(0); f < fieldCount; f++ {
		cursor := "  "
		label := panelLabelStyle.Render(fieldLabels[f])
		if f == m.cursor {
			cursor = panelCursorStyle.Render("▸ ")
			label = panelLabelStyle.Foreground(colorCyan).Render(fieldLabels[f])
		}

		var value string
		switch {
		case f == m.cursor && m.editing:
			value = m.input.View()
		case f.editable():
			v := m.textValue(f)
			if v == "" {
				value = StyleDim.Render("(none)")
			} else {
				value = StyleValue.Render(v)
			}
			if f == fieldSeriesColor {
				swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(m.opts.Chart.SeriesColor.Hex()[:7]))
				value = swatch.Render("■ ") + value
			}
		case f == m.cursor:
			value = StyleDim.Render("‹ ") + StyleHighlight.Render(m.textValue(f)) + StyleDim.Render(" ›")
		default:
			value = StyleValue.Render(m.textValue(f))
		}
		b.WriteString(cursor + label + " " + value + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.status == "":
		b.WriteString("\n")
	case m.failed:
		b.WriteString(styleIconError.Render(iconError) + " " + StyleError.Render(m.status) + "\n")
	default:
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + m.status + "\n")
	}
	b.WriteString(StyleDim.Render("↑/↓ select  ←/→ change  ⏎ edit  e export  c copy  u reload  q quit"))
	b.WriteString("\n")
	return b.String()
}
