package tui

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lululau/calgrid/internal/calendar"
	"github.com/lululau/calgrid/internal/events"
	appLog "github.com/lululau/calgrid/internal/log"
	"github.com/lululau/calgrid/internal/render"
)

var (
	noColorMode bool // Global flag to disable all color output
)

// SetNoColor sets the global no-color flag
func SetNoColor(disable bool) {
	noColorMode = disable
}

// Options configures Run.
type Options struct {
	// EventsFile is watched and reloaded on change when set.
	EventsFile        string
	HolidayCacheValid bool
}

// eventsLoadedMsg carries a reload of the events file.
type eventsLoadedMsg struct {
	events []calendar.Event
	err    error
}

// Run starts the interactive Bubble Tea UI.
func Run(svc *calendar.Service, state *calendar.PeriodState, opts Options) error {
	if svc == nil {
		svc = calendar.NewService()
	}
	// Log lines would tear the alternate screen.
	appLog.SetOutput(io.Discard)
	defer appLog.SetOutput(os.Stderr)

	m := newModel(svc, state, opts.HolidayCacheValid)
	prog := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if opts.EventsFile != "" {
		go func() {
			err := events.Watch(ctx, opts.EventsFile, state.Location(), func(evs []calendar.Event, err error) {
				prog.Send(eventsLoadedMsg{events: evs, err: err})
			})
			if err != nil {
				prog.Send(eventsLoadedMsg{err: err})
			}
		}()
	}

	_, err := prog.Run()
	return err
}

type model struct {
	svc               *calendar.Service
	state             *calendar.PeriodState
	width             int
	prompting         bool
	input             textinput.Model
	statusMsg         string
	holidayCacheValid bool
}

func newModel(svc *calendar.Service, state *calendar.PeriodState, holidayCacheValid bool) model {
	ti := textinput.New()
	ti.Placeholder = "2024-06-15"
	ti.CharLimit = 32
	ti.Prompt = "> "
	return model{
		svc:               svc,
		state:             state,
		input:             ti,
		holidayCacheValid: holidayCacheValid,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case eventsLoadedMsg:
		if msg.err != nil {
			m.statusMsg = "日程加载失败: " + msg.err.Error()
			break
		}
		m.svc.SetEvents(msg.events)
		m.statusMsg = ""
	case tea.KeyMsg:
		if m.prompting {
			return m.handleInputKey(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "k", "[":
			m.state.Previous()
			m.statusMsg = ""
		case "j", "]":
			m.state.Next()
			m.statusMsg = ""
		case ".":
			m.state.Current()
			m.statusMsg = ""
		case "w":
			m.state.SetMode(calendar.ModeWeek)
			m.state.CurrentWeek()
			m.statusMsg = ""
		case "m":
			m.state.SetMode(calendar.ModeMonth)
			m.state.CurrentMonth()
			m.statusMsg = ""
		case "g":
			m.activateInput()
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.prompting {
		return m.inputView()
	}

	body, err := m.renderCalendar()
	status := m.statusMsg
	if err != nil {
		status = err.Error()
	}

	sb := strings.Builder{}
	sb.WriteString(body)
	sb.WriteString("\n\n")
	sb.WriteString(render.HelpLine())
	if status != "" {
		sb.WriteString("\n")
		if noColorMode {
			sb.WriteString(status)
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316")).Render(status))
		}
	}
	if !m.holidayCacheValid {
		sb.WriteString("\n")
		warningMsg := "\n尚未下载节假日数据或节假日数据超过 6 个月未更新，运行  calgrid -u 获取最新数据"
		if noColorMode {
			sb.WriteString(warningMsg)
		} else {
			warningStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
			sb.WriteString(warningStyle.Render(warningMsg))
		}
	}
	return sb.String()
}

func (m model) renderCalendar() (string, error) {
	view, err := m.svc.View(m.state)
	if err != nil {
		return "", err
	}
	blocks, err := render.BuildBlocks([]calendar.View{view})
	if err != nil {
		return "", err
	}
	return render.Layout(blocks, m.width), nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.statusMsg = ""
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.applyInput()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) activateInput() {
	m.prompting = true
	m.input.SetValue("")
	m.input.CursorEnd()
	m.input.Focus()
	m.statusMsg = ""
}

// applyInput rebuilds the state around the entered date, keeping mode,
// week start and locale.
func (m *model) applyInput() {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.statusMsg = "请输入日期"
		return
	}
	date, _, err := events.ParseDate(value, m.state.Location())
	if err != nil {
		m.statusMsg = "无效的日期"
		return
	}
	state, err := calendar.New(m.state.Config(date))
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	*m.state = *state
	m.statusMsg = ""
	m.prompting = false
	m.input.Blur()
}

func (m model) inputView() string {
	label := "输入日期 (回车确认 / Esc 取消)"
	if noColorMode {
		return label + "\n\n" + m.input.View()
	}
	return lipgloss.NewStyle().
		Bold(true).
		Render(label) + "\n\n" + m.input.View()
}
