package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/ledctl/internal/controller"
	"github.com/muurk/ledctl/internal/discovery"
	"github.com/muurk/ledctl/internal/ledconfig"
	"github.com/muurk/ledctl/internal/logging"
)

// Screen represents the active screen
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenConfig    Screen = "config"
)

// Options configures the application
type Options struct {
	// Endpoint is the controller to configure. Ignored when Scan is set.
	Endpoint ledconfig.Endpoint

	// Timeout bounds each request; 0 means no timeout
	Timeout time.Duration

	// Swatches is the color palette; empty uses the defaults
	Swatches []string

	// Watch subscribes to the controller's push channel
	Watch bool

	// Scan starts on the discovery screen
	Scan        bool
	ScanTimeout time.Duration
}

// AppModel is the top-level model. It starts on discovery or directly on
// the configuration screen and owns the transition between the two.
type AppModel struct {
	CurrentScreen Screen
	Options       Options

	DiscoveryModel DiscoveryModel
	ConfigModel    ConfigModel

	// SelectedDevice is the controller picked on the discovery screen
	SelectedDevice *discovery.Device

	Width  int
	Height int
}

// NewAppModel creates the application for opts
func NewAppModel(opts Options) AppModel {
	m := AppModel{Options: opts}
	if opts.Scan {
		m.CurrentScreen = ScreenDiscovery
		m.DiscoveryModel = NewDiscoveryModel(opts.ScanTimeout)
	} else {
		m.CurrentScreen = ScreenConfig
		m.ConfigModel = m.newConfigModel(opts.Endpoint)
	}
	return m
}

// newConfigModel wires a client and a controller for ep
func (m AppModel) newConfigModel(ep ledconfig.Endpoint) ConfigModel {
	client := ledconfig.NewClientForEndpoint(ep)
	client.SetTimeout(m.Options.Timeout)

	ctrl := controller.New(client, ledconfig.NewDeviceConfig(m.Options.Swatches))

	opts := ConfigOptions{
		Endpoint: ep.URL(),
		Swatches: m.Options.Swatches,
	}
	if m.Options.Watch {
		opts.Watcher = client
	}

	logging.Info("Opening configuration screen", zap.String("endpoint", ep.URL()), zap.Bool("watch", m.Options.Watch))
	return NewConfigModel(ctrl, opts)
}

// Init initializes the current screen
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.Init()
	case ScreenConfig:
		return m.ConfigModel.Init()
	}
	return nil
}

// Update routes messages to the current screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.Width = size.Width
		m.Height = size.Height
	}

	switch m.CurrentScreen {
	case ScreenDiscovery:
		updated, cmd := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = updated.(DiscoveryModel)
		if m.DiscoveryModel.Selected != nil {
			return m.openConfig(*m.DiscoveryModel.Selected)
		}
		return m, cmd

	case ScreenConfig:
		updated, cmd := m.ConfigModel.Update(msg)
		m.ConfigModel = updated.(ConfigModel)
		return m, cmd
	}

	return m, nil
}

func (m AppModel) openConfig(ep ledconfig.Endpoint) (tea.Model, tea.Cmd) {
	m.SelectedDevice = m.DiscoveryModel.SelectedDevice
	m.CurrentScreen = ScreenConfig
	m.ConfigModel = m.newConfigModel(ep)
	m.ConfigModel.Width = m.Width
	m.ConfigModel.Height = m.Height
	m.ConfigModel.Help.Width = m.Width
	return m, m.ConfigModel.Init()
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.View()
	case ScreenConfig:
		return m.ConfigModel.View()
	}
	return "Unknown screen"
}

// Run starts the application in the alternate screen and returns the final
// model once the user quits.
func Run(opts Options) (AppModel, error) {
	final, err := tea.NewProgram(NewAppModel(opts), tea.WithAltScreen()).Run()
	if err != nil {
		return AppModel{}, err
	}
	m := final.(AppModel)
	if m.CurrentScreen == ScreenConfig {
		m.ConfigModel.Close()
	}
	return m, nil
}
