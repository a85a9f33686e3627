// Package tui implements the interactive question session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	docsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	answerBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBox    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// answerMsg carries the result of an Ask call back into Update.
type answerMsg struct {
	answer domain.Answer
	err    error
}

// Model is the Bubble Tea model for the question session.
type Model struct {
	ctx    context.Context
	asker  driving.AskService
	docs   driving.DocumentService
	input  textinput.Model
	output viewport.Model

	answer  domain.Answer
	status  string
	asking  bool
	ready   bool
	hasBody bool
}

// NewModel creates the session model.
func NewModel(ctx context.Context, asker driving.AskService, docs driving.DocumentService) Model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Type a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		ctx:    ctx,
		asker:  asker,
		docs:   docs,
		input:  ti,
		output: viewport.New(0, 0),
		status: "Ready.",
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, oh := answerBox.GetFrameSize()
		_, ih := inputBox.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // header + docs line, spacer, input frame, status
		vh := msg.Height - reserved - oh
		if vh < 3 {
			vh = 3
		}
		m.output.Width = maxInt(20, msg.Width-2)
		m.output.Height = vh
		m.output.SetContent(m.renderAnswer())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "q":
			if m.input.Value() == "" {
				return m, tea.Quit
			}
		case "enter":
			query := strings.TrimSpace(m.input.Value())
			if query == "" || m.asking {
				return m, nil
			}
			m.asking = true
			m.status = "Thinking..."
			return m, m.askCmd(query)
		case "up":
			m.output.LineUp(1)
			return m, nil
		case "down":
			m.output.LineDown(1)
			return m, nil
		}

	case answerMsg:
		m.asking = false
		if msg.err != nil {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
			return m, nil
		}
		m.answer = msg.answer
		m.hasBody = true
		m.status = "Answered. Ask another question or press Esc to quit."
		m.input.SetValue("")
		m.output.SetContent(m.renderAnswer())
		m.output.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the session layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("askdoc session")
	docs := docsStyle.Render(m.documentLine())
	out := answerBox.Render(m.output.View())
	in := inputBox.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + docs + "\n" + out + "\n" + in + "\n" + status
}

// askCmd runs the query off the UI goroutine.
func (m Model) askCmd(query string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.asker.Ask(m.ctx, query)
		return answerMsg{answer: answer, err: err}
	}
}

func (m Model) renderAnswer() string {
	if !m.hasBody {
		return "No questions asked yet."
	}
	var b strings.Builder
	b.WriteString(m.answer.Text)
	if m.answer.Source != "" {
		b.WriteString("\n\n")
		b.WriteString(sourceStyle.Render(
			fmt.Sprintf("Source: %s (confidence %.2f)", m.answer.Source, m.answer.Confidence)))
	}
	if m.answer.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(docsStyle.Render("Note: " + m.answer.Explanation))
	}
	return b.String()
}

func (m Model) documentLine() string {
	infos, err := m.docs.List(m.ctx)
	if err != nil || len(infos) == 0 {
		return "No documents uploaded."
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = fmt.Sprintf("%s (%d chunks)", info.Name, info.Chunks)
	}
	return "Documents: " + strings.Join(names, ", ")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
