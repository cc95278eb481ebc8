package onboarding

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"maxy/internal/middleware"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Styles ---

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle   = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1).
			Bold(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Padding(0, 1)

	windowStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1)
)

// --- Types ---

type state int

const (
	stateDataDir state = iota
	stateTelegram
	stateOwner
	stateModel
	stateMiddlewares
	stateDone
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

type TUIModel struct {
	state         state
	dataDir       string
	telegramToken string
	ownerID       string
	model         string
	middlewares   []MiddlewareSetting

	list     list.Model
	input    textinput.Model
	quitting bool
	width    int
	height   int

	cursor int // for middleware list
}

// --- Ollama Discovery ---

type ollamaModel struct {
	Name string `json:"name"`
}

type ollamaResponse struct {
	Models []ollamaModel `json:"models"`
}

func fetchOllamaModels() []item {
	off := item{title: "disabled", desc: "Canned fallback replies only"}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://localhost:11434/api/tags")
	if err != nil {
		return []item{off, {title: "llama3.2", desc: "Default fallback (Ollama not responding)"}}
	}
	defer resp.Body.Close()

	var data ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return []item{off, {title: "llama3.2", desc: "Error parsing models"}}
	}

	items := []item{off}
	for _, m := range data.Models {
		items = append(items, item{title: m.Name, desc: "Local Ollama model"})
	}
	return items
}

// --- Initial Model ---

func NewTUIModel() TUIModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Prompt = "Data directory: "
	ti.Placeholder = "data"
	ti.Focus()

	mwList := middleware.Registered()
	settings := make([]MiddlewareSetting, len(mwList))
	for i, mw := range mwList {
		settings[i] = MiddlewareSetting{
			ID:      mw.ID(),
			Enabled: true,
			EnvVars: make(map[string]string),
		}
	}

	return TUIModel{
		state:       stateDataDir,
		list:        l,
		input:       ti,
		middlewares: settings,
	}
}

func (m TUIModel) Init() tea.Cmd {
	return nil
}

func (m TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-10, msg.Height-15)
	}

	var cmd tea.Cmd

	switch m.state {
	case stateDataDir:
		m.input, cmd = m.input.Update(msg)
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
			m.dataDir = strings.TrimSpace(m.input.Value())
			if m.dataDir == "" {
				m.dataDir = "data"
			}
			m.state = stateTelegram
			m.input.Prompt = "Telegram Bot Token (optional): "
			m.input.Placeholder = ""
			m.input.SetValue("")
		}

	case stateTelegram:
		m.input, cmd = m.input.Update(msg)
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
			m.telegramToken = strings.TrimSpace(m.input.Value())
			m.state = stateOwner
			m.input.Prompt = "Owner user ID (manages FAQs): "
			m.input.SetValue("")
		}

	case stateOwner:
		m.input, cmd = m.input.Update(msg)
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
			m.ownerID = strings.TrimSpace(m.input.Value())
			m.state = stateModel
			listItems := fetchOllamaModels()
			items := make([]list.Item, len(listItems))
			for i, it := range listItems {
				items[i] = it
			}
			m.list.SetItems(items)
			m.list.Title = "Model fallback when no FAQ matches"
		}

	case stateModel:
		m.list, cmd = m.list.Update(msg)
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
			i, ok := m.list.SelectedItem().(item)
			if ok {
				if i.title != "disabled" {
					m.model = i.title
				}
				m.state = stateMiddlewares
			}
		}

	case stateMiddlewares:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.middlewares)-1 {
					m.cursor++
				}
			case " ":
				m.middlewares[m.cursor].Enabled = !m.middlewares[m.cursor].Enabled
			case "enter":
				m.state = stateDone
				return m, m.saveConfig()
			}
		}

	case stateDone:
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

func (m TUIModel) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(" Maxy Setup Wizard "))
	s.WriteString("\n\n")

	tabs := []string{"Storage", "Telegram", "Owner", "Model", "Middlewares", "Finish"}
	var renderedTabs []string
	for i, t := range tabs {
		if i == int(m.state) {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(t))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(t))
		}
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...))
	s.WriteString("\n\n")

	var content string
	switch m.state {
	case stateModel:
		content = m.list.View()
	case stateDataDir, stateTelegram, stateOwner:
		content = "\n" + m.input.View() + "\n\n" + helpStyle.Render("Press enter to continue")
	case stateMiddlewares:
		var mwView strings.Builder
		mwView.WriteString("Toggle middlewares with [SPACE], Press [ENTER] to finish.\n\n")
		for i, mw := range m.middlewares {
			cursor := " "
			if m.cursor == i {
				cursor = ">"
			}
			checked := " "
			if mw.Enabled {
				checked = "x"
			}
			line := fmt.Sprintf("%s [%s] %s", cursor, checked, mw.ID)
			if m.cursor == i {
				mwView.WriteString(focusedStyle.Render(line) + "\n")
			} else {
				mwView.WriteString(line + "\n")
			}
		}
		content = mwView.String()
	case stateDone:
		content = "\nSaving configuration to ~/.maxy/config.json...\nDone! Press any key to exit."
	}

	s.WriteString(windowStyle.Width(m.width - 10).Height(m.height - 15).Render(content))

	if m.state != stateDone {
		s.WriteString("\n\n" + helpStyle.Render("ctrl+c: quit • ↑/↓: navigate • enter: select"))
	}

	return docStyle.Render(s.String())
}

func (m TUIModel) saveConfig() tea.Cmd {
	return func() tea.Msg {
		cfg := Config{
			DataDir:       m.dataDir,
			TelegramToken: m.telegramToken,
			OwnerID:       m.ownerID,
			LLMFallback:   m.model != "",
			LLMModel:      m.model,
			Middlewares:   m.middlewares,
		}

		if err := cfg.SaveToFile(DefaultConfigPath); err != nil {
			return err
		}
		return nil
	}
}

// --- Runner ---

func RunTUI() error {
	p := tea.NewProgram(NewTUIModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
