// Package console is the terminal front end of the clinical chat. It
// draws the conversation log and forwards key presses to the conversation
// state machine.
package console

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dskvich/clinical-console/pkg/conversation"
)

const (
	title       = "Medical GPT-OSS 20B Clinical Console"
	placeholder = "Örneğin: 58 yaşında diyabetik hastada göğüs ağrısı ve nefes darlığı."
	helpText    = "enter send • alt+enter newline • ctrl+t thinking • ctrl+l clear • esc quit"

	inputHeight = 3
)

type replyMsg struct {
	raw string
	err error
}

type Model struct {
	ctx   context.Context
	relay conversation.Relay
	conv  *conversation.Conversation

	input   textarea.Model
	log     viewport.Model
	spinner spinner.Model

	showThinking bool
	width        int
	height       int
	ready        bool
}

func NewModel(ctx context.Context, relay conversation.Relay) *Model {
	input := textarea.New()
	input.Placeholder = placeholder
	input.ShowLineNumbers = false
	input.SetHeight(inputHeight)
	input.CharLimit = 0
	input.KeyMap.InsertNewline.SetKeys("alt+enter")
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		ctx:     ctx,
		relay:   relay,
		conv:    conversation.New(relay),
		input:   input,
		log:     viewport.New(0, 0),
		spinner: sp,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.conv.Pending() {
			m.refresh()
		}
		return m, cmd

	case replyMsg:
		m.conv.Resolve(msg.raw, msg.err)
		m.input.SetValue(m.conv.Snapshot().Draft)
		m.refresh()
		return m, m.input.Focus()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "ctrl+l":
		m.conv.Clear()
		m.input.Reset()
		m.refresh()
		return m, nil

	case "ctrl+t":
		m.showThinking = !m.showThinking
		m.refresh()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd

	case "enter":
		return m, m.submit()
	}

	if m.conv.Pending() {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a round trip for the current input. The input stays
// disabled until the reply arrives.
func (m *Model) submit() tea.Cmd {
	if m.conv.Pending() {
		return nil
	}

	m.conv.SetDraft(m.input.Value())
	message, err := m.conv.Begin()
	m.refresh()
	if err != nil {
		return nil
	}

	m.input.Blur()

	ctx, relay := m.ctx, m.relay
	return func() tea.Msg {
		raw, err := relay.Send(ctx, message)
		return replyMsg{raw: raw, err: err}
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.ready = true

	m.input.SetWidth(width)
	m.log.Width = width
	// title, error line, input and help
	m.log.Height = max(1, height-1-1-inputHeight-1)
	m.refresh()
}

func (m *Model) refresh() {
	state := m.conv.Snapshot()
	m.log.SetContent(renderLog(state.Messages, renderOptions{
		width:        m.log.Width,
		showThinking: m.showThinking,
		pending:      state.Pending,
		spinner:      m.spinner.View(),
	}))
	m.log.GotoBottom()
}

func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	state := m.conv.Snapshot()

	errLine := ""
	if state.LastError != "" {
		errLine = errorStyle.Render(state.LastError)
	}

	sections := []string{
		titleStyle.Render(title),
		m.log.View(),
		errLine,
		m.input.View(),
		dimStyle.Render(helpText),
	}
	return strings.TrimRight(lipgloss.JoinVertical(lipgloss.Left, sections...), "\n")
}
