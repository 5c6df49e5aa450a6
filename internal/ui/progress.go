// Package ui renders pipeline progress with Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cppforge/internal/runpipeline"
)

// stageRow tracks one pipeline stage in display order.
type stageRow struct {
	stage   runpipeline.Stage
	status  runpipeline.Status
	elapsed time.Duration
}

type progressModel struct {
	title   string
	source  string
	events  <-chan runpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []stageRow
	width   int
	done    bool
	failed  bool
}

type eventMsg runpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders the given
// pipeline stages for a single source file.
func NewProgressModel(title, source string, stages []runpipeline.Stage, events <-chan runpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	rows := make([]stageRow, 0, len(stages))
	for _, stage := range stages {
		rows = append(rows, stageRow{stage: stage, status: runpipeline.StatusQueued})
	}
	return &progressModel{
		title:   title,
		source:  source,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    rows,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(runpipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		barModel, cmd := m.bar.Update(msg)
		m.bar = barModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	nameWidth := m.width - 20
	if nameWidth < 20 {
		nameWidth = 20
	}
	header := fmt.Sprintf("%s %s", m.title, truncate(m.source, nameWidth))
	switch {
	case m.done && m.failed:
		header = "failed: " + header
	case m.done:
		header = "done: " + header
	default:
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	for _, row := range m.rows {
		label := stageVerb(row.stage, row.status)
		b.WriteString(fmt.Sprintf("  %s %-10s", statusMark(row.status), label))
		if row.elapsed > 0 && (row.status == runpipeline.StatusDone || row.status == runpipeline.StatusError) {
			b.WriteString(fmt.Sprintf("  %.1f ms", float64(row.elapsed)/float64(time.Millisecond)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done && !m.failed {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev runpipeline.Event) tea.Cmd {
	// Pipeline-scoped and file-scoped events carry the same stage
	// transitions; applying both is harmless.
	idx := -1
	for i := range m.rows {
		if m.rows[i].stage == ev.Stage {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	m.rows[idx].status = ev.Status
	if ev.Elapsed > 0 {
		m.rows[idx].elapsed = ev.Elapsed
	}
	if ev.Status == runpipeline.StatusError {
		m.failed = true
	}

	completed := 0.0
	for _, row := range m.rows {
		switch row.status {
		case runpipeline.StatusDone, runpipeline.StatusError:
			completed += 1.0
		case runpipeline.StatusWorking:
			completed += 0.5
		}
	}
	return m.bar.SetPercent(completed / float64(len(m.rows)))
}

// stageVerb renders a stage as its activity label, collapsing to the
// past tense once the stage finishes.
func stageVerb(stage runpipeline.Stage, status runpipeline.Status) string {
	if status == runpipeline.StatusDone {
		switch stage {
		case runpipeline.StageResolve:
			return "resolved"
		case runpipeline.StageCompile:
			return "compiled"
		case runpipeline.StageRun:
			return "ran"
		}
	}
	switch stage {
	case runpipeline.StageResolve:
		return "resolving"
	case runpipeline.StageCompile:
		return "compiling"
	case runpipeline.StageRun:
		return "running"
	default:
		return string(stage)
	}
}

func statusMark(status runpipeline.Status) string {
	switch status {
	case runpipeline.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("✓")
	case runpipeline.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("✗")
	case runpipeline.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Render("›")
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("·")
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
