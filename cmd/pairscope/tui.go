package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quillnlp/pairtext/pkg/classifier"
	"github.com/quillnlp/pairtext/pkg/textdata"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("142")).Bold(true)
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// model is the Bubble Tea model for the interactive classifier console.
type model struct {
	clf    *classifier.PairClassifier
	first  textinput.Model
	second textinput.Model
	focus  int
	scores []textdata.Label
	status string
	errMsg string
}

func newModel(clf *classifier.PairClassifier) model {
	first := textinput.New()
	first.Prompt = "first  > "
	first.Placeholder = "First text"
	first.Focus()
	first.CharLimit = 0

	second := textinput.New()
	second.Prompt = "second > "
	second.Placeholder = "Second text"
	second.CharLimit = 0

	return model{
		clf:    clf,
		first:  first,
		second: second,
		status: fmt.Sprintf("Predicting %q over %s. Tab switches fields, Enter classifies.", clf.LabelType(), strings.Join(clf.Labels().Items(), "/")),
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyShiftTab:
			m.focus = 1 - m.focus
			if m.focus == 0 {
				m.first.Focus()
				m.second.Blur()
			} else {
				m.second.Focus()
				m.first.Blur()
			}
			return m, nil
		case tea.KeyEnter:
			m.classify()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.first, cmd = m.first.Update(msg)
	} else {
		m.second, cmd = m.second.Update(msg)
	}
	return m, cmd
}

func (m *model) classify() {
	first := strings.TrimSpace(m.first.Value())
	second := strings.TrimSpace(m.second.Value())
	if first == "" || second == "" {
		m.errMsg = "Both texts are required."
		return
	}
	scores, err := m.clf.Scores(context.Background(), textdata.NewTextPair(first, second))
	if err != nil {
		m.errMsg = err.Error()
		m.scores = nil
		return
	}
	m.errMsg = ""
	m.scores = scores
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("pairscope · pairwise text classification"))
	sb.WriteString("\n\n")
	sb.WriteString(boxStyle.Render(m.first.View() + "\n" + m.second.View()))
	sb.WriteString("\n")
	sb.WriteString(boxStyle.Render(m.renderScores()))
	sb.WriteString("\n")
	if m.errMsg != "" {
		sb.WriteString(errorStyle.Render(m.errMsg))
	} else {
		sb.WriteString(statusStyle.Render(m.status))
	}
	return sb.String()
}

func (m model) renderScores() string {
	if len(m.scores) == 0 {
		return "No prediction yet."
	}
	rows := make([]string, len(m.scores))
	for i, s := range m.scores {
		bar := strings.Repeat("█", int(s.Score*20))
		rows[i] = fmt.Sprintf("%s %s %s",
			labelStyle.Render(fmt.Sprintf("%-16s", s.Value)),
			scoreStyle.Render(fmt.Sprintf("%.3f", s.Score)),
			bar)
	}
	return strings.Join(rows, "\n")
}
