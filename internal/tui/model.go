// Package tui implements the interactive project wizard behind
// `deskwrap create` when no name is given on the command line. It walks
// through app name, template source, and package manager, then hands the
// collected answers back to the caller.
package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted reports that the user backed out of the wizard.
var ErrAborted = errors.New("project creation aborted")

// Options are the answers collected by the wizard.
type Options struct {
	Name        string
	TemplateURL string
	// Manager is the chosen package manager name, empty for auto-detection.
	Manager string
}

// Wizard steps, in order. stepTemplateURL only runs when the git template
// choice is selected.
const (
	stepName = iota
	stepTemplate
	stepTemplateURL
	stepManager
)

const autoManager = "detect automatically"

// Model holds the wizard state.
type Model struct {
	Step    int
	Aborted bool
	Done    bool

	NameInput textinput.Model
	URLInput  textinput.Model

	TemplateChoices []string
	TemplateIdx     int

	ManagerChoices []string
	ManagerIdx     int

	ErrMsg string
}

// InitialModel returns the wizard positioned on the name prompt.
func InitialModel() Model {
	name := textinput.New()
	name.Placeholder = "My App"
	name.CharLimit = 64
	name.Width = 32
	name.Focus()

	url := textinput.New()
	url.Placeholder = "https://github.com/you/app-template.git"
	url.CharLimit = 200
	url.Width = 48

	return Model{
		NameInput:       name,
		URLInput:        url,
		TemplateChoices: []string{"Built-in starter (vite)", "Git template"},
		ManagerChoices:  []string{autoManager, "npm", "pnpm", "yarn", "bun"},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Options returns the collected answers. Only meaningful once Done is set.
func (m Model) Options() Options {
	opts := Options{Name: m.NameInput.Value()}
	if m.TemplateIdx == 1 {
		opts.TemplateURL = m.URLInput.Value()
	}
	if choice := m.ManagerChoices[m.ManagerIdx]; choice != autoManager {
		opts.Manager = choice
	}
	return opts
}

// Run executes the wizard and blocks until it finishes.
func Run() (Options, error) {
	p := tea.NewProgram(InitialModel())
	final, err := p.Run()
	if err != nil {
		return Options{}, err
	}
	m, ok := final.(Model)
	if !ok || m.Aborted || !m.Done {
		return Options{}, ErrAborted
	}
	return m.Options(), nil
}
