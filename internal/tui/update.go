package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Update handles events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.Aborted = true
		return m, tea.Quit
	}

	switch m.Step {
	case stepName:
		if key.Type == tea.KeyEnter {
			if strings.TrimSpace(m.NameInput.Value()) == "" {
				m.ErrMsg = "a project name is required"
				return m, nil
			}
			m.ErrMsg = ""
			m.NameInput.Blur()
			m.Step = stepTemplate
			return m, nil
		}
		m.ErrMsg = ""
		m.NameInput, cmd = m.NameInput.Update(msg)
		return m, cmd

	case stepTemplate:
		switch key.String() {
		case "up", "k":
			if m.TemplateIdx > 0 {
				m.TemplateIdx--
			}
		case "down", "j":
			if m.TemplateIdx < len(m.TemplateChoices)-1 {
				m.TemplateIdx++
			}
		case "enter":
			if m.TemplateIdx == 1 {
				m.Step = stepTemplateURL
				return m, m.URLInput.Focus()
			}
			m.Step = stepManager
		}
		return m, nil

	case stepTemplateURL:
		if key.Type == tea.KeyEnter {
			if strings.TrimSpace(m.URLInput.Value()) == "" {
				m.ErrMsg = "a template URL is required"
				return m, nil
			}
			m.ErrMsg = ""
			m.URLInput.Blur()
			m.Step = stepManager
			return m, nil
		}
		m.ErrMsg = ""
		m.URLInput, cmd = m.URLInput.Update(msg)
		return m, cmd

	case stepManager:
		switch key.String() {
		case "up", "k":
			if m.ManagerIdx > 0 {
				m.ManagerIdx--
			}
		case "down", "j":
			if m.ManagerIdx < len(m.ManagerChoices)-1 {
				m.ManagerIdx++
			}
		case "enter":
			m.Done = true
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

// updateInputs forwards non-key messages (blink ticks and the like) to
// whichever text input is active.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.Step {
	case stepName:
		m.NameInput, cmd = m.NameInput.Update(msg)
	case stepTemplateURL:
		m.URLInput, cmd = m.URLInput.Update(msg)
	}
	return m, cmd
}
