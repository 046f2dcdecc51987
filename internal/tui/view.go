package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color("205"))

	unselectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(4).
				Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("deskwrap · new project"))
	b.WriteString("\n\n")

	switch m.Step {
	case stepName:
		b.WriteString(promptStyle.Render("What is your app called?"))
		b.WriteString("\n\n  ")
		b.WriteString(m.NameInput.View())
		b.WriteString("\n")
	case stepTemplate:
		b.WriteString(promptStyle.Render("Start from"))
		b.WriteString("\n\n")
		b.WriteString(renderChoices(m.TemplateChoices, m.TemplateIdx))
	case stepTemplateURL:
		b.WriteString(promptStyle.Render("Template repository URL"))
		b.WriteString("\n\n  ")
		b.WriteString(m.URLInput.View())
		b.WriteString("\n")
	case stepManager:
		b.WriteString(promptStyle.Render("Package manager"))
		b.WriteString("\n\n")
		b.WriteString(renderChoices(m.ManagerChoices, m.ManagerIdx))
	}

	if m.ErrMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  " + m.ErrMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter continue · ↑/↓ select · esc quit"))
	b.WriteString("\n")
	return b.String()
}

func renderChoices(choices []string, selected int) string {
	var b strings.Builder
	for i, choice := range choices {
		if i == selected {
			b.WriteString(selectedItemStyle.Render("› " + choice))
		} else {
			b.WriteString(unselectedItemStyle.Render(choice))
		}
		b.WriteString("\n")
	}
	return b.String()
}
