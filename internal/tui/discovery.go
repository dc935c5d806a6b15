package tui

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ledctl/internal/discovery"
	"github.com/muurk/ledctl/internal/ledconfig"
)

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualKeyMap defines key bindings for manual address entry
type manualKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

func (k manualKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k manualKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// deviceItem wraps a Device for use with bubbles/list
type deviceItem struct {
	device *discovery.Device
}

func (d deviceItem) FilterValue() string {
	return d.device.Instance + " " + d.device.IP + " " + d.device.Hostname
}

func (d deviceItem) Title() string {
	return d.device.Instance
}

func (d deviceItem) Description() string {
	return d.device.Endpoint().URL()
}

// deviceDelegate renders one device per two lines
type deviceDelegate struct{}

func (d deviceDelegate) Height() int                             { return 2 }
func (d deviceDelegate) Spacing() int                            { return 1 }
func (d deviceDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d deviceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	di, ok := item.(deviceItem)
	if !ok {
		return
	}
	title := "  " + di.Title()
	if index == m.Index() {
		title = SelectedListItemStyle.Render("→ " + di.Title())
	}
	fmt.Fprintf(w, "%s\n    %s", title, OptionStyle.Render(di.Description()))
}

// DiscoveryModel is the controller discovery screen
type DiscoveryModel struct {
	Scanning    bool
	ScanTimeout time.Duration
	DeviceList  list.Model
	Err         error

	// Selected is set once the user picks a controller
	Selected *ledconfig.Endpoint
	// SelectedDevice is the picked mDNS result; nil for manual entry
	SelectedDevice *discovery.Device

	ManualMode bool
	HostInput  textinput.Model
	ManualErr  error

	Width   int
	Height  int
	Spinner spinner.Model
	Help    help.Model
	Keys    discoveryKeyMap
	Manual  manualKeyMap
}

// NewDiscoveryModel creates the discovery screen
func NewDiscoveryModel(timeout time.Duration) DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	input := textinput.New()
	input.Placeholder = "192.168.100.12:5000"
	input.CharLimit = 253
	input.Width = 40

	deviceList := list.New([]list.Item{}, deviceDelegate{}, DefaultWidth-4, DefaultHeight-10)
	deviceList.Title = "LED controllers"
	deviceList.SetShowStatusBar(false)
	deviceList.SetShowHelp(false)
	deviceList.Styles.Title = TitleStyle

	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	return DiscoveryModel{
		ScanTimeout: timeout,
		DeviceList:  deviceList,
		HostInput:   input,
		Spinner:     s,
		Help:        help.New(),
		Keys: discoveryKeyMap{
			Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
			Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
			Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "configure")),
			Rescan: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
			Manual: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "enter address")),
			Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		},
		Manual: manualKeyMap{
			Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect")),
			Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		},
	}
}

// Init starts scanning immediately
func (m DiscoveryModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanDevicesCmd(m.ScanTimeout),
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		if !m.Scanning || key.Matches(msg, m.Keys.Quit, m.Keys.Manual) {
			return m.updateNormalMode(msg)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.DeviceList.SetSize(msg.Width-8, msg.Height-12)
		return m, nil

	case scanStartMsg:
		m.Scanning = true
		m.Err = nil
		return m, nil

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.devices))
		for i, dev := range msg.devices {
			items[i] = deviceItem{device: dev}
		}
		return m, m.DeviceList.SetItems(items)

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.ManualErr = nil
		cmd := m.HostInput.Focus()
		return m, cmd

	case key.Matches(msg, m.Keys.Rescan):
		m.DeviceList.SetItems(nil)
		return m, m.Init()

	case key.Matches(msg, m.Keys.Enter):
		if item, ok := m.DeviceList.SelectedItem().(deviceItem); ok {
			ep := item.device.Endpoint()
			m.Selected = &ep
			m.SelectedDevice = item.device
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.DeviceList, cmd = m.DeviceList.Update(msg)
	return m, cmd
}

func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.Manual.Cancel):
		m.ManualMode = false
		m.HostInput.Blur()
		return m, nil

	case key.Matches(msg, m.Manual.Confirm):
		ep, err := ParseManualEndpoint(m.HostInput.Value())
		if err != nil {
			m.ManualErr = err
			return m, nil
		}
		m.Selected = &ep
		m.ManualMode = false
		m.HostInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.HostInput, cmd = m.HostInput.Update(msg)
	return m, cmd
}

// ParseManualEndpoint parses a typed address such as "10.0.0.5",
// "10.0.0.5:8080" or "https://strip.local/api". A plain http address
// without a port gets the controller's default port.
func ParseManualEndpoint(input string) (ledconfig.Endpoint, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return ledconfig.Endpoint{}, ledconfig.NewValidationError("address is empty")
	}
	if !strings.Contains(raw, "://") {
		raw = ledconfig.DefaultScheme + "://" + raw
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme == "http" && u.Port() == "" && u.Hostname() != "" {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(ledconfig.DefaultPort))
		raw = u.String()
	}
	return ledconfig.ParseEndpoint(raw)
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	var content, footer string

	switch {
	case m.ManualMode:
		lines := []string{
			RenderTitle("CONNECT TO A CONTROLLER"),
			"Address:",
			m.HostInput.View(),
		}
		if m.ManualErr != nil {
			lines = append(lines, "", ErrorLineStyle.Render(m.ManualErr.Error()))
		}
		content = lipgloss.JoinVertical(lipgloss.Left, lines...)
		footer = m.Help.View(m.Manual)

	case m.Scanning:
		content = lipgloss.JoinVertical(lipgloss.Left,
			RenderTitle("DISCOVERING LED CONTROLLERS"),
			fmt.Sprintf("%s Browsing %s for %s...", m.Spinner.View(), discovery.ServiceType, m.ScanTimeout),
		)
		footer = m.Help.View(m.Keys)

	case len(m.DeviceList.Items()) == 0:
		lines := []string{RenderTitle("NO CONTROLLERS FOUND")}
		if m.Err != nil {
			lines = append(lines, ErrorLineStyle.Render(m.Err.Error()), "")
		}
		lines = append(lines,
			"Make sure the controller is powered on and on this network,",
			"then press r to scan again or m to enter its address.",
		)
		content = lipgloss.JoinVertical(lipgloss.Left, lines...)
		footer = m.Help.View(m.Keys)

	default:
		content = m.DeviceList.View()
		footer = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, footer, m.Width, m.Height)
}
