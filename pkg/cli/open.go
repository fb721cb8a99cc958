package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/usecase"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

var (
	jarTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)
	jarBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(1, 2).
			Width(56)
	jarHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	jarDateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("219")).
			Italic(true)
)

type openState int

const (
	stateShaking openState = iota
	stateOpening
	stateRevealed
	stateEmpty
	stateLocked
	stateFailed
)

type revealedMsg struct {
	memory *model.Memory
	err    error
}

// openModel is the terminal rendition of the jar: tap to shake, then the
// memory pops out.
type openModel struct {
	ctx      context.Context
	reveal   *usecase.RevealUseCase
	loc      *time.Location
	detector *model.ShakeDetector
	bar      progress.Model

	state  openState
	status model.DailyStatus
	memory *model.Memory
	err    error
}

func newOpenModel(ctx context.Context, uc *usecase.UseCases, status model.DailyStatus) openModel {
	m := openModel{
		ctx:      ctx,
		reveal:   uc.Reveal,
		loc:      uc.Location(),
		detector: model.NewShakeDetector(),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		status:   status,
	}
	if status.IsLocked {
		m.state = stateLocked
		m.memory = status.LockedMemory
	}
	return m
}

func (m openModel) revealCmd() tea.Cmd {
	return func() tea.Msg {
		memory, err := m.reveal.Reveal(m.ctx)
		return revealedMsg{memory: memory, err: err}
	}
}

func (m openModel) Init() tea.Cmd {
	return nil
}

func (m openModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case " ", "enter", "s":
			if m.state != stateShaking {
				return m, tea.Quit
			}
			if m.detector.Tap() {
				m.state = stateOpening
				return m, m.revealCmd()
			}
		}
		return m, nil

	case revealedMsg:
		switch {
		case msg.err != nil:
			m.state = stateFailed
			m.err = msg.err
		case msg.memory == nil:
			m.state = stateEmpty
		default:
			m.state = stateRevealed
			m.memory = msg.memory
		}
		return m, nil
	}

	return m, nil
}

func (m openModel) View() string {
	var b strings.Builder
	b.WriteString(jarTitleStyle.Render("The Memory Jar"))
	b.WriteString("\n")

	switch m.state {
	case stateShaking:
		b.WriteString(fmt.Sprintf("Shake the jar! (%d/%d)\n\n", m.detector.Count(), m.detector.Required))
		b.WriteString(m.bar.ViewAs(m.detector.Progress()))
		b.WriteString("\n\n")
		b.WriteString(jarHintStyle.Render("space/enter: tap  q: quit"))
	case stateOpening:
		b.WriteString("Opening...")
	case stateRevealed, stateLocked:
		if m.state == stateLocked {
			b.WriteString(jarHintStyle.Render(fmt.Sprintf("Already opened today. Next memory in %s", m.status.Countdown())))
			b.WriteString("\n\n")
		}
		if m.memory != nil {
			b.WriteString(m.renderMemory())
			b.WriteString("\n")
		}
		b.WriteString(jarHintStyle.Render("any key: close"))
	case stateEmpty:
		b.WriteString(model.MsgAllSeen)
		b.WriteString("\n")
		b.WriteString(jarHintStyle.Render("any key: close"))
	case stateFailed:
		b.WriteString(fmt.Sprintf("Something went wrong: %v\n", m.err))
		b.WriteString(jarHintStyle.Render("any key: close"))
	}

	b.WriteString("\n")
	return b.String()
}

func (m openModel) renderMemory() string {
	body := jarDateStyle.Render(m.memory.Date(m.loc).Format(memoryDateLayout)) + "\n\n" + m.memory.Text
	if m.memory.ImageURL != "" {
		body += "\n\n" + jarHintStyle.Render(m.memory.ImageURL)
	}
	return jarBoxStyle.Render(body)
}

func cmdOpen() *cli.Command {
	var env jarEnv

	return &cli.Command{
		Name:  "open",
		Usage: "Shake the jar in the terminal to open today's memory",
		Flags: env.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.Configure(ctx)
			if err != nil {
				return err
			}
			defer closer()

			status, err := uc.Reveal.Status(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to get daily status")
			}

			if !term.IsTerminal(int(os.Stdout.Fd())) { // #nosec G115
				return goerr.New("open needs an interactive terminal, use reveal instead")
			}

			p := tea.NewProgram(newOpenModel(ctx, uc, status), tea.WithContext(ctx))
			result, err := p.Run()
			if err != nil {
				return goerr.Wrap(err, "failed to run jar")
			}
			if final, ok := result.(openModel); ok && final.err != nil {
				return final.err
			}
			return nil
		},
	}
}
