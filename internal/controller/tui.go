package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "github.com/fleetops/queryfix/internal/model"
)

// TUI implements UI for interactive terminals. Short reports print directly;
// a report taller than the terminal opens a Bubble Tea pager.
type TUI struct {
	*SimpleUI
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{
		SimpleUI: NewSimpleUI(cmd),
		output:   cmd.OutOrStdout(),
	}
}

// DisplayPlatformReport shows the frequency report, paging when it does not
// fit the terminal.
func (t *TUI) DisplayPlatformReport(ctx context.Context, report m.PlatformReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rendered := RenderPlatformReport(report)
	model := newReportPagerModel(rendered)

	// Get initial terminal size
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
		}
	}

	// If the report is short, just print and exit
	if !model.needsPagination() {
		_, err := fmt.Fprint(t.output, rendered)
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// reportPagerModel is the Bubble Tea model that scrolls a rendered report.
type reportPagerModel struct {
	lines    []string
	height   int
	width    int
	offset   int
	quitting bool
}

func newReportPagerModel(rendered string) reportPagerModel {
	return reportPagerModel{
		lines: strings.Split(strings.TrimRight(rendered, "\n"), "\n"),
	}
}

// statusLines is the space reserved for the pager status bar.
const statusLines = 2

func (p reportPagerModel) needsPagination() bool {
	return p.height > 0 && len(p.lines)+statusLines > p.height
}

func (p reportPagerModel) visibleLines() int {
	visible := p.height - statusLines
	if visible < 1 {
		visible = 1
	}

	return visible
}

func (p reportPagerModel) maxOffset() int {
	max := len(p.lines) - p.visibleLines()
	if max < 0 {
		max = 0
	}

	return max
}

// Init implements tea.Model.
func (p reportPagerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p reportPagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height

		if p.offset > p.maxOffset() {
			p.offset = p.maxOffset()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			p.quitting = true
			return p, tea.Quit

		case "up", "k":
			if p.offset > 0 {
				p.offset--
			}

		case "down", "j":
			if p.offset < p.maxOffset() {
				p.offset++
			}

		case "pgup":
			p.offset -= p.visibleLines()
			if p.offset < 0 {
				p.offset = 0
			}

		case "pgdown", " ":
			p.offset += p.visibleLines()
			if p.offset > p.maxOffset() {
				p.offset = p.maxOffset()
			}

		case "home", "g":
			p.offset = 0

		case "end", "G":
			p.offset = p.maxOffset()
		}
	}

	return p, nil
}

// View implements tea.Model.
func (p reportPagerModel) View() string {
	if p.quitting {
		return ""
	}

	var b strings.Builder

	end := p.offset + p.visibleLines()
	if end > len(p.lines) {
		end = len(p.lines)
	}

	for _, line := range p.lines[p.offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n  %d-%d/%d  ↑/↓ scroll · q quit", p.offset+1, end, len(p.lines))

	return b.String()
}
