package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/klemjul/dobbychat/internal/format"
	"github.com/klemjul/dobbychat/internal/llm"
)

// ChatTUIModel is the terminal counterpart of the browser widget. The
// transcript is display only: every message is sent to the bot on its own.
type ChatTUIModel struct {
	textInput   textinput.Model
	viewport    viewport.Model
	messages    []llm.Message
	title       string
	personaName string
	waiting     bool

	getBotResponse func(message string) tea.Cmd
}

const (
	CHAT_INPUT_PLACEHOLDER = "Type a message..."
	CHAT_FAILURE_MESSAGE   = "⚠️ Something went wrong."
)

var (
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	botStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	titleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)
	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true)
)

func TypingIndicator(personaName string) string {
	return fmt.Sprintf("> ⏳ %s is typing...", personaName)
}

type InitialModelOptions struct {
	Title          string
	PersonaName    string
	GetBotResponse func(message string) tea.Cmd
	Messages       []llm.Message
}

func InitialModel(opts InitialModelOptions) ChatTUIModel {
	ti := textinput.New()
	ti.Placeholder = CHAT_INPUT_PLACEHOLDER
	ti.Focus()

	return ChatTUIModel{
		textInput:      ti,
		viewport:       viewport.New(0, 0),
		title:          opts.Title,
		personaName:    opts.PersonaName,
		getBotResponse: opts.GetBotResponse,
		messages:       opts.Messages,
	}
}

func (m ChatTUIModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.EnableMouseCellMotion,
	)
}

func (m ChatTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		titleLines := (len(m.title) / msg.Width) + 1
		m.viewport = viewport.New(msg.Width, msg.Height-(3+titleLines))
		m.updateViewport()

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.viewport.ScrollUp(1)
			case tea.MouseButtonWheelDown:
				m.viewport.ScrollDown(1)
			}
		}

	case llm.Message:
		m.waiting = false
		m.messages = append(m.messages, msg)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			cmd = tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.textInput.Value())
			if text != "" && !m.waiting {
				m.messages = append(m.messages, llm.Message{Role: llm.User, Content: text})
				m.waiting = true
				m.textInput.SetValue("")
				m.updateViewport()

				cmd = m.getBotResponse(text)
			}
		}
	}

	m.textInput, _ = m.textInput.Update(msg)

	if m.waiting {
		m.textInput.Blur()
	} else {
		m.textInput.Focus()
	}

	return m, cmd
}

func (m *ChatTUIModel) updateViewport() {
	displayedMessages := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		switch msg.Role {
		case llm.Assistant:
			out, err := format.FormatMarkdownWidth(msg.Content, m.viewport.Width)
			if err != nil {
				out = msg.Content
			}
			displayedMessages = append(displayedMessages,
				botStyle.Render(fmt.Sprintf("%s: %s", m.personaName, strings.TrimSpace(out))))
		case llm.User:
			displayedMessages = append(displayedMessages, userStyle.Render(fmt.Sprintf("> %s", msg.Content)))
		}
	}

	m.viewport.SetContent(strings.Join(displayedMessages, "\n\n"))
	m.viewport.GotoBottom()
}

func (m ChatTUIModel) View() string {
	input := m.textInput.View()

	if m.waiting {
		input = TypingIndicator(m.personaName)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Width(m.viewport.Width).Render(m.title),
		m.viewport.View(),
		inputStyle.Width(m.viewport.Width).Render(input),
	)
}
