package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hybridsat/hybrid-satellite/internal/version"
	"github.com/hybridsat/hybrid-satellite/internal/web"
)

// defaultPollInterval is how often the dashboard refreshes the status
// endpoint unless the caller picks a rate.
const defaultPollInterval = time.Second

// statusMsg carries one poll result back into the update loop.
type statusMsg struct {
	status *web.Status
	err    error
}

// tickMsg schedules the next poll.
type tickMsg time.Time

// keyMap defines the dashboard key bindings.
type keyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings shown in the help footer
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Refresh, k.Quit}}
}

// Model is the monitor dashboard: it polls a running satellite's status
// endpoint and renders the result.
type Model struct {
	url      string
	client   *http.Client
	interval time.Duration

	status *web.Status
	err    error
	lastOK time.Time

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width  int
	height int
}

// NewModel creates a dashboard polling the satellite at baseURL
// (e.g. "http://127.0.0.1:8765"). A non-positive interval selects the
// default rate.
func NewModel(baseURL string, interval time.Duration) Model {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	width, height := GetTerminalSize()

	return Model{
		url:      strings.TrimRight(baseURL, "/") + "/api/status",
		client:   &http.Client{Timeout: 2 * time.Second},
		interval: interval,
		spinner:  s,
		help:     help.New(),
		keys:     defaultKeyMap(),
		width:    width,
		height:   height,
	}
}

// Init starts the spinner and the poll loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(), m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetch polls the status endpoint once.
func (m Model) fetch() tea.Cmd {
	url, client := m.url, m.client
	return func() tea.Msg {
		resp, err := client.Get(url)
		if err != nil {
			return statusMsg{err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return statusMsg{err: fmt.Errorf("status endpoint returned %s", resp.Status)}
		}
		var status web.Status
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return statusMsg{err: fmt.Errorf("decode status: %w", err)}
		}
		return statusMsg{status: &status}
	}
}

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width < MinTerminalWidth {
			m.width = MinTerminalWidth
		}
		if m.width > MaxContentWidth {
			m.width = MaxContentWidth
		}
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.fetch()
		}

	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case statusMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = msg.status
			m.err = nil
			m.lastOK = time.Now()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	title := TitleStyle.Render("HYBRID SATELLITE MONITOR")
	tag := SubtitleStyle.Render("v" + version.Version)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, title, " ", tag))
	b.WriteString("\n\n")

	switch {
	case m.status == nil && m.err == nil:
		b.WriteString(m.spinner.View() + " connecting to " + m.url)
		b.WriteString("\n")
	case m.status == nil:
		b.WriteString(BadStyle.Render(MarkerDown+" satellite unreachable") + "\n")
		b.WriteString(ValueStyle.Render("  " + m.err.Error()))
		b.WriteString("\n")
	default:
		if m.err != nil {
			b.WriteString(WarnStyle.Render("poll failed, showing data from " +
				m.lastOK.Format("15:04:05") + ": " + m.err.Error()))
			b.WriteString("\n")
		}
		b.WriteString(m.renderPanels())
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderPanels() string {
	st := m.status
	panel := PanelStyle(m.width)

	link := strings.Join([]string{
		PanelTitleStyle.Render("LINK"),
		row("Hub link", marker(st.HAConnected, "connected", "waiting for hub")),
		row("Device sessions", fmt.Sprintf("%d", st.DeviceSessions)),
		row("Server version", st.Version),
		row("Uptime", (time.Duration(st.UptimeSeconds) * time.Second).String()),
	}, "\n")

	mic := GoodStyle.Render(MarkerUp + " live")
	if st.MicMuted {
		mic = WarnStyle.Render(MarkerDown + " muted")
	}
	browsers := strings.Join([]string{
		PanelTitleStyle.Render("BROWSERS"),
		row("Connected clients", fmt.Sprintf("%d", st.Clients)),
		row("Active wake word", st.ActiveWakeWord),
		row("Microphone", mic),
	}, "\n")

	audio := strings.Join([]string{
		PanelTitleStyle.Render("AUDIO"),
		row("Buffered", fmt.Sprintf("%.1f s (%d chunks, %d KiB)",
			st.Audio.BufferedSeconds, st.Audio.BufferedChunks, st.Audio.BufferedBytes/1024)),
		row("Stream format", fmt.Sprintf("%d Hz, %d ch, %d-bit",
			st.Config.SampleRate, st.Config.Channels, st.Config.SampleWidth*8)),
	}, "\n")

	return strings.Join([]string{
		panel.Render(link),
		panel.Render(browsers),
		panel.Render(audio),
	}, "\n")
}

func row(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

func marker(ok bool, up, down string) string {
	if ok {
		return GoodStyle.Render(MarkerUp + " " + up)
	}
	return BadStyle.Render(MarkerDown + " " + down)
}
