package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// stageMsg carries the name of the stage the pipeline just entered.
type stageMsg string

// stagesClosedMsg is sent when the stage channel is closed.
type stagesClosedMsg struct{}

// stageModel is the Bubble Tea model for showing update progress.
type stageModel struct {
	spinner  spinner.Model
	progress progress.Model
	label    string
	steps    []string
	seen     []string
	current  string
	done     bool
	nagged   bool
	stageCh  <-chan string
}

func newStageModel(label string, steps []string, ch <-chan string) stageModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleHighlight
	return stageModel{
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		label:    label,
		steps:    steps,
		stageCh:  ch,
	}
}

func (m stageModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForStage(m.stageCh))
}

func waitForStage(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return stagesClosedMsg{}
		}
		return stageMsg(s)
	}
}

func (m stageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// An update cannot be interrupted once started.
		if msg.String() == "ctrl+c" {
			m.nagged = true
		}
		return m, nil

	case stageMsg:
		if m.current != "" {
			m.seen = append(m.seen, m.current)
		}
		m.current = string(msg)
		return m, waitForStage(m.stageCh)

	case stagesClosedMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-4, 60)
		return m, nil
	}
	return m, nil
}

func (m stageModel) percent() float64 {
	if len(m.steps) == 0 {
		return 0
	}
	n := len(m.seen)
	if m.current != "" {
		n++
	}
	return min(float64(n)/float64(len(m.steps)), 1)
}

func (m stageModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), StyleHeader.Render(m.label))
	for _, s := range m.seen {
		fmt.Fprintf(&b, "  %s %s\n", StyleCached.Render("✓"), s)
	}
	if m.current != "" {
		fmt.Fprintf(&b, "  %s %s\n", StyleHighlight.Render("›"), m.current)
	}
	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")
	if m.nagged {
		b.WriteString(StyleHelp.Render("an update cannot be cancelled once started; waiting for it to finish"))
		b.WriteString("\n")
	}
	return b.String()
}

// ShowStages renders a spinner and stage list until stages is closed.
// steps lists the expected stage names in order and sizes the bar.
func ShowStages(label string, steps []string, stages <-chan string) error {
	p := tea.NewProgram(newStageModel(label, steps, stages))
	_, err := p.Run()
	return err
}
