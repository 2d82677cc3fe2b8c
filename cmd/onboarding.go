package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	sourceLocal  = "local"
	sourceRemote = "remote"
)

type OnboardingSettings struct {
	Completed bool   `json:"completed"`
	Source    string `json:"source"`
	APIURL    string `json:"api_url,omitempty"`
}

func onboardingPath(configDir string) string {
	return filepath.Join(configDir, "onboarding.json")
}

func loadOnboardingSettings(configDir string) (OnboardingSettings, error) {
	path := onboardingPath(configDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return OnboardingSettings{}, nil
		}
		return OnboardingSettings{}, err
	}

	var settings OnboardingSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return OnboardingSettings{}, err
	}
	return settings, nil
}

func saveOnboardingSettings(configDir string, settings OnboardingSettings) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(onboardingPath(configDir), data, 0644)
}

func secureTokenPath(configDir string) string {
	return filepath.Join(configDir, "api_token")
}

func saveSecureAPIToken(configDir, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	// Owner read/write only.
	return os.WriteFile(secureTokenPath(configDir), []byte(strings.TrimSpace(token)+"\n"), 0600)
}

func loadSecureAPIToken(configDir string) (string, error) {
	data, err := os.ReadFile(secureTokenPath(configDir))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func shouldRunOnboarding(settings OnboardingSettings) bool {
	if settings.Completed {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type onboardingStep int

const (
	stepSource onboardingStep = iota
	stepURL
	stepToken
	stepDone
)

type onboardingModel struct {
	step       onboardingStep
	remote     bool
	urlInput   textinput.Model
	tokenInput textinput.Model
	settings   OnboardingSettings
	token      string
	status     string
	width      int
	height     int
}

var (
	obColorMuted   = lipgloss.Color("#7E8C80")
	obColorText    = lipgloss.Color("#D6E0D3")
	obColorAccent  = lipgloss.Color("#8FA082")
	obColorDanger  = lipgloss.Color("#f38ba8")

	obTitleStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obHeaderStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabInactive = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 2)

	obTabActive = lipgloss.NewStyle().
			Foreground(obColorText).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	obPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorMuted).
			Padding(1, 2)

	obInputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorAccent).
			Padding(0, 1)

	obLabelStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obMutedStyle = lipgloss.NewStyle().
			Foreground(obColorMuted)

	obOptionStyle = lipgloss.NewStyle().
			Foreground(obColorText)

	obOptionSelected = lipgloss.NewStyle().
				Foreground(obColorAccent).
				Bold(true)

	obWarnStyle = lipgloss.NewStyle().
			Foreground(obColorDanger)

	obFooterStyle = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(obColorMuted)
)

func newInput(prompt, placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 300
	in.Prompt = prompt
	in.TextStyle = lipgloss.NewStyle().Foreground(obColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(obColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(obColorText).Background(obColorAccent)
	return in
}

func newOnboardingModel() onboardingModel {
	token := newInput("token> ", "Paste the erp-api bearer token (optional)")
	token.EchoMode = textinput.EchoPassword
	token.EchoCharacter = '•'

	return onboardingModel{
		step:       stepSource,
		urlInput:   newInput("url> ", "http://127.0.0.1:8080"),
		tokenInput: token,
		settings: OnboardingSettings{
			Completed: true,
			Source:    sourceLocal,
		},
	}
}

func (m onboardingModel) Init() tea.Cmd { return nil }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.step {
		case stepSource:
			switch msg.String() {
			case "r", "R":
				m.remote = true
				return m.nextStep()
			case "l", "L":
				m.remote = false
				return m.nextStep()
			case "up", "k":
				m.remote = false
				return m, nil
			case "down", "j":
				m.remote = true
				return m, nil
			case "enter":
				// Enter commits the currently selected option
				return m.nextStep()
			case "ctrl+c", "q":
				m.settings.Source = sourceLocal
				m.status = "Setup canceled. Using the local demo database."
				m.step = stepDone
				return m, tea.Quit
			default:
				return m, nil
			}
		case stepURL:
			switch msg.String() {
			case "enter":
				raw := strings.TrimSpace(m.urlInput.Value())
				if err := validateBaseURL(raw); err != nil {
					m.status = err.Error()
					return m, nil
				}
				m.settings.APIURL = strings.TrimRight(raw, "/")
				m.status = ""
				m.step = stepToken
				m.urlInput.Blur()
				cmd := m.tokenInput.Focus()
				return m, cmd
			case "esc", "ctrl+c":
				m.settings.Source = sourceLocal
				m.status = "Skipped server setup. Using the local demo database."
				m.step = stepDone
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.urlInput, cmd = m.urlInput.Update(msg)
			return m, cmd
		case stepToken:
			switch msg.String() {
			case "enter", "esc":
				m.token = strings.TrimSpace(m.tokenInput.Value())
				m.settings.Source = sourceRemote
				m.status = "Connected to " + m.settings.APIURL
				if m.token == "" {
					m.status += " without a token"
				}
				m.step = stepDone
				return m, tea.Quit
			case "ctrl+c":
				m.settings.Source = sourceLocal
				m.status = "Setup canceled. Using the local demo database."
				m.step = stepDone
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.tokenInput, cmd = m.tokenInput.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m onboardingModel) nextStep() (tea.Model, tea.Cmd) {
	if !m.remote {
		m.settings.Source = sourceLocal
		m.status = "Using the local demo database."
		m.step = stepDone
		return m, tea.Quit
	}
	m.step = stepURL
	cmd := m.urlInput.Focus()
	return m, cmd
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter an http(s) URL such as http://127.0.0.1:8080")
	}
	return nil
}

func (m onboardingModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	tabs := m.renderTabs(width)
	footer := m.renderFooter(width)

	contentHeight := height - 6
	if contentHeight < 8 {
		contentHeight = 8
	}
	content := m.renderContent(width, contentHeight)
	ui := lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)

	return lipgloss.NewStyle().
		Foreground(obColorText).
		Width(width).
		Height(height).
		Render(ui)
}

func (m onboardingModel) renderHeader(width int) string {
	left := "  " + obTitleStyle.Render("erp") + " " + obMutedStyle.Render("› Setup")
	right := obMutedStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "
	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return obHeaderStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m onboardingModel) renderTabs(width int) string {
	names := []struct {
		step onboardingStep
		name string
	}{
		{stepSource, "Data Source"},
		{stepURL, "Server"},
		{stepToken, "Token"},
	}
	tabs := []string{"  "}
	for _, n := range names {
		style := obTabInactive
		if m.step == n.step {
			style = obTabActive
		}
		tabs = append(tabs, style.Render(n.name))
	}
	return obTabsStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, tabs...))
}

func (m onboardingModel) renderFooter(width int) string {
	switch m.step {
	case stepSource:
		return obFooterStyle.Width(width).Render("↑↓/jk to navigate  l/r enter to confirm  q cancel")
	case stepURL:
		return obFooterStyle.Width(width).Render("enter next  esc use local data")
	case stepToken:
		return obFooterStyle.Width(width).Render("enter save  esc skip token")
	default:
		return obFooterStyle.Width(width).Render("Setup complete")
	}
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var body string
	switch m.step {
	case stepSource:
		question := obLabelStyle.Render("Where should erp read users, orders and categories from?")
		local := "Local demo database (~/.erp/erp.db)"
		remote := "Remote erp-api server"

		var localDisplay, remoteDisplay string
		if !m.remote {
			localDisplay = "  " + obOptionSelected.Render("→ "+local)
			remoteDisplay = "    " + obOptionStyle.Render(remote)
		} else {
			localDisplay = "    " + obOptionStyle.Render(local)
			remoteDisplay = "  " + obOptionSelected.Render("→ "+remote)
		}

		body = lipgloss.JoinVertical(
			lipgloss.Left,
			question,
			"",
			localDisplay,
			remoteDisplay,
			"",
			obMutedStyle.Render("Use arrow keys or j/k to navigate, l/r or Enter to confirm"),
			obMutedStyle.Render("You can change this later in ~/.erp/config.yaml or with -api"),
		)
	case stepURL:
		input := obInputStyle.Width(max(30, cardWidth-14)).Render(m.urlInput.View())
		lines := []string{
			obLabelStyle.Render("erp-api base URL"),
			"",
			obMutedStyle.Render("Start a server with: erp-api -config ~/.erp/config.yaml"),
			"",
			input,
		}
		if m.status != "" {
			lines = append(lines, "", obWarnStyle.Render(m.status))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
	case stepToken:
		input := obInputStyle.Width(max(30, cardWidth-14)).Render(m.tokenInput.View())
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			obLabelStyle.Render("Bearer token"),
			"",
			obMutedStyle.Render("Issue one with: erp-api -issue-token <name>"),
			obMutedStyle.Render("Stored in ~/.erp/api_token, readable only by you."),
			"",
			input,
		)
	default:
		msg := obMutedStyle.Render(m.status)
		if strings.Contains(strings.ToLower(m.status), "canceled") {
			msg = obWarnStyle.Render(m.status)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, obLabelStyle.Render("Onboarding Complete"), "", msg)
	}

	card := obPanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runOnboarding(configDir string) (OnboardingSettings, error) {
	model := newOnboardingModel()
	prog := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return OnboardingSettings{}, fmt.Errorf("onboarding tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return OnboardingSettings{}, fmt.Errorf("unexpected onboarding model type")
	}
	if m.settings.Source == sourceRemote {
		if err := saveSecureAPIToken(configDir, m.token); err != nil {
			return OnboardingSettings{}, err
		}
	}
	if err := saveOnboardingSettings(configDir, m.settings); err != nil {
		return OnboardingSettings{}, err
	}
	return m.settings, nil
}
