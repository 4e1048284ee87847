// Package tui provides a terminal user interface for bank2preset
package tui

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/james-see/bank2preset/pkg/converter"
)

// Phosphor color scheme, after the amber and green of an OPL3 tracker
var (
	oplGreen   = lipgloss.Color("#39FF14")
	oplAmber   = lipgloss.Color("#FFB000")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(oplGreen).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(oplGreen).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(oplAmber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(oplGreen).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(oplGreen).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateURIPrefix
	StateFilePicker
	StateConverting
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Format      converter.Format // empty for audition and exit
	Audition    bool
}

var menuItems = []MenuItem{
	{Title: "WOPL → Table", Description: "Write an embeddable preset table (.h)", Format: converter.FormatTable},
	{Title: "WOPL → Presets", Description: "Write an LV2 preset document (.ttl)", Format: converter.FormatPresets},
	{Title: "WOPL → Manifest", Description: "Write an LV2 preset manifest (-manifest.ttl)", Format: converter.FormatManifest},
	{Title: "WOPL → MIDI", Description: "Write a MIDI file auditioning every instrument (.mid)", Audition: true},
	{Title: "Exit", Description: "Exit the application"},
}

// Options seed the model
type Options struct {
	URIPrefix string
	PluginURI string
	Logger    *log.Logger
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	uriInput     textinput.Model
	selectedFile string
	outputFile   string
	instruments  int
	conversion   MenuItem
	pluginURI    string
	logger       *log.Logger
	err          error
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	outputFile  string
	instruments int
	err         error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New(opts Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".wopl", ".WOPL"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(oplGreen)

	ti := textinput.New()
	ti.Placeholder = "http://example.com/presets#"
	ti.CharLimit = 256
	ti.Width = 60
	ti.SetValue(opts.URIPrefix)

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return Model{
		state:      StateMenu,
		filePicker: fp,
		spinner:    s,
		uriInput:   ti,
		pluginURI:  opts.PluginURI,
		logger:     logger,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs every message, including its own read results
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateURIPrefix:
			return m.updateURIPrefix(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.instruments = msg.instruments
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.conversion = menuItems[m.menuIndex]
		if m.conversion.Format.IsDocument() {
			m.state = StateURIPrefix
			return m, m.uriInput.Focus()
		}
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateURIPrefix(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.uriInput.Blur()
		m.state = StateMenu
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		if strings.TrimSpace(m.uriInput.Value()) == "" {
			m.err = converter.ErrMissingURIPrefix
			return m, nil
		}
		m.err = nil
		m.uriInput.Blur()
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	}

	var cmd tea.Cmd
	m.uriInput, cmd = m.uriInput.Update(msg)
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.outputFile = ""
		m.instruments = 0
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performConversion() tea.Cmd {
	item := m.conversion
	input := m.selectedFile
	uriPrefix := strings.TrimSpace(m.uriInput.Value())
	pluginURI := m.pluginURI
	logger := m.logger

	return func() tea.Msg {
		output, n, err := convertFile(item, input, uriPrefix, pluginURI, logger)
		return conversionDoneMsg{outputFile: output, instruments: n, err: err}
	}
}

// convertFile converts input and writes the result next to it
func convertFile(item MenuItem, input, uriPrefix, pluginURI string, logger *log.Logger) (string, int, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	dir := filepath.Dir(input)
	source := converter.SourceName(input)

	if item.Audition {
		banks, err := converter.LoadFiles([]string{input}, logger)
		if err != nil {
			return "", 0, err
		}
		results, _, err := converter.ConvertAll(banks)
		if err != nil {
			return "", 0, err
		}
		output := filepath.Join(dir, source+".mid")
		if err := converter.NewAuditioner().WriteFile(results, output); err != nil {
			return "", 0, err
		}
		return output, len(results), nil
	}

	conv, err := converter.New(item.Format,
		converter.WithURIPrefix(uriPrefix),
		converter.WithPluginURI(pluginURI),
		converter.WithLogger(logger))
	if err != nil {
		return "", 0, err
	}

	var buf bytes.Buffer
	results, err := conv.ConvertFiles(&buf, []string{input})
	if err != nil {
		return "", 0, err
	}

	output := filepath.Join(dir, item.Format.OutputName(source))
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return "", 0, fmt.Errorf("failed to write %s: %w", output, err)
	}
	logger.Info("wrote output", "path", output, "instruments", len(results))
	return output, len(results), nil
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateURIPrefix:
		s.WriteString(m.viewURIPrefix())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT OUTPUT "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(oplAmber).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewURIPrefix() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" PRESET URI PREFIX "))
	s.WriteString("\n\n")
	s.WriteString(m.uriInput.View())
	if m.err != nil {
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(m.err.Error()))
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: continue • esc: back to menu"))

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT WOPL BANK "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Converting %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  wopl → %s", m.conversion.Title)))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Conversion failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Conversion complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:       %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output:      %s\n", filepath.Base(m.outputFile)))
		s.WriteString(fmt.Sprintf("Instruments: %d", m.instruments))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
  ____    _    _   _ _  ______  ____  ____  _____ ____  _____ _____ 
 | __ )  / \  | \ | | |/ /___ \|  _ \|  _ \| ____/ ___|| ____|_   _|
 |  _ \ / _ \ |  \| | ' /  __) | |_) | |_) |  _| \___ \|  _|   | |  
 | |_) / ___ \| |\  | . \ / __/|  __/|  _ <| |___ ___) | |___  | |  
 |____/_/   \_\_| \_|_|\_\_____|_|   |_| \_\_____|____/|_____| |_|  
`
	return lipgloss.NewStyle().Foreground(oplGreen).Render(logo)
}

// Run starts the TUI application
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
