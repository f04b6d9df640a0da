package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spectromap/pkg/overlay"
	"github.com/matzehuels/spectromap/pkg/spectro"
	"github.com/matzehuels/spectromap/pkg/store"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listPulseStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

func (c *CLI) browseCommand() *cobra.Command {
	var scaledWidth, scaledHeight float64
	cmd := &cobra.Command{
		Use:   "browse <recording.json>",
		Short: "Browse a recording's annotations and their polygons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecording(args[0])
			if err != nil {
				return err
			}
			if err := rec.Layout.Validate(); err != nil {
				return err
			}
			m := NewBrowseModel(rec, rec.Layout.Scaled(scaledWidth, scaledHeight))
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().Float64Var(&scaledWidth, "scaled-width", 0, "display width in pixels (0 = native)")
	cmd.Flags().Float64Var(&scaledHeight, "scaled-height", 0, "display height in pixels (0 = native)")
	return cmd
}

// =============================================================================
// BrowseModel - Interactive annotation list
// =============================================================================

// annotationRow is one pulse or sequence with its polygon.
type annotationRow struct {
	annotation spectro.Annotation
	id         int64
	polygon    spectro.Polygon
}

// BrowseModel is the bubbletea model of the browse command. Moving the
// cursor onto a pulse selects it and redraws the overlay into an in-memory
// sink, the way an editor highlights the active annotation.
type BrowseModel struct {
	Recording store.Recording
	Display   spectro.View
	Rows      []annotationRow
	Cursor    int
	Offset    int
	Height    int

	frames *overlay.Recorder
	frame  overlay.Frame
	err    error
}

// NewBrowseModel lists every pulse followed by every sequence of rec.
func NewBrowseModel(rec store.Recording, view spectro.View) BrowseModel {
	rows := make([]annotationRow, 0, len(rec.Pulses)+len(rec.Sequences))
	for _, p := range rec.Pulses {
		rows = append(rows, annotationRow{annotation: p, id: p.ID, polygon: spectro.PulsePolygon(p, view)})
	}
	for _, s := range rec.Sequences {
		rows = append(rows, annotationRow{
			annotation: s,
			id:         s.ID,
			polygon:    spectro.SequencePolygon(s, view, spectro.WithBand(spectro.SequenceBand)),
		})
	}
	m := BrowseModel{
		Recording: rec,
		Display:   view,
		Rows:      rows,
		Height:    15,
		frames:    &overlay.Recorder{},
	}
	m.redraw()
	return m
}

// selected is the pulse under the cursor, if any.
func (m BrowseModel) selected() *int64 {
	if m.Cursor >= len(m.Rows) || m.Rows[m.Cursor].annotation.Kind() != spectro.KindPulse {
		return nil
	}
	id := m.Rows[m.Cursor].id
	return &id
}

func (m *BrowseModel) redraw() {
	m.frame, m.err = overlay.Redraw(context.Background(), m.frames, overlay.Input{
		View:      m.Display,
		Pulses:    m.Recording.Pulses,
		Sequences: m.Recording.Sequences,
		Selected:  m.selected(),
	})
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
				m.redraw()
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
				m.redraw()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	title := m.Recording.Name
	if title == "" {
		title = m.Recording.ID
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s layout, %s × %s px",
		m.Display.Form(), formatNum(m.Display.EffectiveWidth()), formatNum(m.Display.EffectiveHeight()))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  no annotations"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		rows = append(rows, m.rowCells(i))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Kind", "ID", "Time (ms)", "Detail", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			style := lipgloss.NewStyle()
			if !m.Rows[idx].polygon.Renderable() {
				style = style.Foreground(colorDim)
			} else if col == 1 && m.Rows[idx].annotation.Kind() == spectro.KindPulse {
				style = listPulseStyle
			}
			if idx == m.Cursor {
				style = style.Bold(true)
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func (m BrowseModel) rowCells(i int) []string {
	r := m.Rows[i]
	cursor := "  "
	if i == m.Cursor {
		cursor = "▸ "
	}
	start, end := r.annotation.Span()
	var detail string
	switch a := r.annotation.(type) {
	case spectro.Pulse:
		detail = fmt.Sprintf("%s–%s Hz", formatNum(a.LowFreq), formatNum(a.HighFreq))
	case spectro.Sequence:
		labels := make([]string, 0, len(a.Species))
		for _, sp := range a.Species {
			labels = append(labels, sp.Label())
		}
		detail = strings.Join(labels, ", ")
	}
	status := "✓"
	if !r.polygon.Renderable() {
		status = "✗"
	}
	return []string{cursor, r.annotation.Kind().String(), fmt.Sprint(r.id),
		formatNum(start) + "–" + formatNum(end), detail, status}
}

// detail describes the polygon under the cursor and the last redraw.
func (m BrowseModel) detail() string {
	var b strings.Builder
	r := m.Rows[m.Cursor]
	if r.polygon.IsSentinel() {
		b.WriteString(StyleWarning.Render("  not representable in this layout"))
		b.WriteString("\n")
	} else {
		xmin, ymin, xmax, ymax := r.polygon.Bounds()
		fmt.Fprintf(&b, "  %s x %s…%s  y %s…%s\n", listDimStyle.Render("polygon"),
			formatNum(xmin), formatNum(xmax), formatNum(ymin), formatNum(ymax))
		fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render("centroid"), formatPoint(spectro.Centroid(r.polygon)))
	}
	if m.err != nil {
		b.WriteString(StyleWarning.Render("  redraw failed: " + m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}
	fmt.Fprintf(&b, "  %s %d rects · %d ticks · %d labels", listDimStyle.Render("overlay"),
		len(m.frame.Rects), len(m.frame.Lines), len(m.frame.Texts))
	if m.frame.Dropped > 0 {
		fmt.Fprintf(&b, " · %s", StyleWarning.Render(fmt.Sprintf("%d not drawn", m.frame.Dropped)))
	}
	b.WriteString("\n")
	return b.String()
}
