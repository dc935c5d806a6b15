package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/ledctl/internal/controller"
	"github.com/muurk/ledctl/internal/ledconfig"
	"github.com/muurk/ledctl/internal/logging"
	"github.com/muurk/ledctl/internal/ui"
)

// Field is the focusable row on the configuration screen
type Field int

const (
	FieldMode Field = iota
	FieldColor
	FieldBrightness
	FieldSubmit
	fieldCount
)

// brightnessStep is how far one left/right press moves brightness
const brightnessStep = 5

// configKeyMap defines key bindings for the configuration screen
type configKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Swatch key.Binding
	Submit key.Binding
	Retry  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k configKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Submit, k.Retry, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k configKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Enter, k.Swatch, k.Submit, k.Retry},
		{k.Help, k.Quit},
	}
}

func newConfigKeyMap() configKeyMap {
	return configKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "tab"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "-"),
			key.WithHelp("←/→", "change"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "+"),
			key.WithHelp("→/l", "next"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "edit/apply"),
		),
		Swatch: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "swatch"),
		),
		Submit: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "submit"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ConfigOptions configures a ConfigModel
type ConfigOptions struct {
	// Endpoint is shown under the title
	Endpoint string

	// Swatches is the palette offered on the color row
	Swatches []string

	// Watcher, if set, feeds configurations pushed by the controller back
	// into the screen
	Watcher Watcher
}

// ConfigModel is the LED configuration screen. It renders the controller's
// state and turns key presses into controller calls; network calls run in
// tea.Cmd goroutines.
type ConfigModel struct {
	ctrl        *controller.Controller
	watcher     Watcher
	ctx         context.Context
	cancel      context.CancelFunc
	changes     chan struct{}
	unsubscribe func()

	Endpoint string
	Swatches []string

	// State is the last controller snapshot
	State controller.State

	Focus        Field
	EditingColor bool
	ColorInput   textinput.Model
	Status       string
	Watching     bool

	Width  int
	Height int

	Spinner spinner.Model
	Help    help.Model
	Keys    configKeyMap
}

// NewConfigModel creates the configuration screen for ctrl
func NewConfigModel(ctrl *controller.Controller, opts ConfigOptions) ConfigModel {
	ctx, cancel := context.WithCancel(context.Background())

	// One pending notification is enough: the screen always re-reads the
	// latest snapshot.
	changes := make(chan struct{}, 1)
	unsubscribe := ctrl.Subscribe(func(controller.State) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	input := textinput.New()
	input.Placeholder = "#rrggbb"
	input.CharLimit = 7
	input.Width = 10

	swatches := opts.Swatches
	if len(swatches) == 0 {
		swatches = ledconfig.DefaultSwatches
	}

	return ConfigModel{
		ctrl:        ctrl,
		watcher:     opts.Watcher,
		ctx:         ctx,
		cancel:      cancel,
		changes:     changes,
		unsubscribe: unsubscribe,
		Endpoint:    opts.Endpoint,
		Swatches:    swatches,
		State:       ctrl.Snapshot(),
		Watching:    opts.Watcher != nil,
		ColorInput:  input,
		Spinner:     s,
		Help:        help.New(),
		Keys:        newConfigKeyMap(),
	}
}

// Init starts the initial fetch, the change listener and, if configured,
// the push channel.
func (m ConfigModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		listenForChanges(m.ctx, m.changes),
		initializeCmd(m.ctx, m.ctrl),
		m.Spinner.Tick,
	}
	if m.watcher != nil {
		cmds = append(cmds, watchCmd(m.ctx, m.ctrl, m.watcher))
	}
	return tea.Batch(cmds...)
}

// Close cancels outstanding requests and stops listening for changes
func (m ConfigModel) Close() {
	m.unsubscribe()
	m.cancel()
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case stateChangedMsg:
		m.State = m.ctrl.Snapshot()
		return m, listenForChanges(m.ctx, m.changes)

	case operationDoneMsg:
		m.State = m.ctrl.Snapshot()
		m.Status = statusFor(msg, m.State)
		return m, nil

	case watchEndedMsg:
		m.Watching = false
		if msg.err != nil && !ledconfig.IsCanceled(msg.err) {
			logging.Warn("Push channel ended", zap.Error(msg.err))
			m.Status = "Live updates stopped: " + ledconfig.GetShortErrorMessage(msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.EditingColor {
			return m.updateColorEditor(msg)
		}
		return m.updateNormalMode(msg)
	}

	return m, nil
}

// statusFor describes a finished operation. Failures are rendered from
// State.LastError instead.
func statusFor(msg operationDoneMsg, state controller.State) string {
	switch {
	case errors.Is(msg.err, controller.ErrSubmitInFlight):
		return "A submit is already in progress"
	case msg.err != nil:
		return ""
	case msg.op == controller.OpSubmit:
		return ui.SuccessMarker + " Applied " + state.Config.Summary()
	case msg.op == controller.OpInitialize:
		return "Loaded from controller"
	}
	return ""
}

func (m ConfigModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll

	case key.Matches(msg, m.Keys.Up):
		m.Focus = (m.Focus + fieldCount - 1) % fieldCount

	case key.Matches(msg, m.Keys.Down):
		m.Focus = (m.Focus + 1) % fieldCount

	case key.Matches(msg, m.Keys.Left):
		m.adjust(-1)

	case key.Matches(msg, m.Keys.Right):
		m.adjust(+1)

	case key.Matches(msg, m.Keys.Swatch):
		idx := int(msg.Runes[0] - '1')
		if idx < len(m.Swatches) {
			m.apply(m.ctrl.SetColor(m.Swatches[idx]))
		}

	case key.Matches(msg, m.Keys.Submit):
		return m.submit()

	case key.Matches(msg, m.Keys.Retry):
		if m.State.CanRetry() {
			m.Status = ""
			return m, retryCmd(m.ctx, m.ctrl, m.State.LastFailed)
		}

	case key.Matches(msg, m.Keys.Enter):
		switch m.Focus {
		case FieldMode:
			m.adjust(+1)
		case FieldColor:
			m.EditingColor = true
			m.ColorInput.SetValue(m.State.Config.Color)
			m.ColorInput.CursorEnd()
			cmd := m.ColorInput.Focus()
			return m, cmd
		case FieldSubmit:
			return m.submit()
		}
	}

	return m, nil
}

func (m ConfigModel) submit() (tea.Model, tea.Cmd) {
	m.Status = ""
	return m, submitCmd(m.ctx, m.ctrl)
}

// adjust moves the focused field one step in dir
func (m *ConfigModel) adjust(dir int) {
	config := m.State.Config
	switch m.Focus {
	case FieldMode:
		modes := ledconfig.Modes()
		i := indexOf(len(modes), func(i int) bool { return modes[i] == config.Mode })
		m.apply(m.ctrl.SetMode(modes[wrap(i+dir, len(modes))]))

	case FieldColor:
		i := indexOf(len(m.Swatches), func(i int) bool { return strings.EqualFold(m.Swatches[i], config.Color) })
		if i < 0 && dir < 0 {
			i = 0
		}
		m.apply(m.ctrl.SetColor(m.Swatches[wrap(i+dir, len(m.Swatches))]))

	case FieldBrightness:
		m.ctrl.SetBrightness(config.Brightness + dir*brightnessStep)
		m.apply(nil)
	}
}

// apply refreshes the snapshot after a local edit and reports a rejected one
func (m *ConfigModel) apply(err error) {
	m.State = m.ctrl.Snapshot()
	if err != nil {
		m.Status = ledconfig.GetShortErrorMessage(err)
	}
}

// updateColorEditor handles typing a hex color. Each valid intermediate
// value only updates the preview; enter commits it.
func (m ConfigModel) updateColorEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.Close()
		return m, tea.Quit

	case tea.KeyEsc:
		m.EditingColor = false
		m.ColorInput.Blur()
		// Drop the preview
		_ = m.ctrl.PreviewColor(m.State.Config.Color)
		m.State = m.ctrl.Snapshot()
		return m, nil

	case tea.KeyEnter:
		if err := m.ctrl.SetColor(m.ColorInput.Value()); err != nil {
			m.Status = err.Error()
			return m, nil
		}
		m.EditingColor = false
		m.ColorInput.Blur()
		m.Status = ""
		m.State = m.ctrl.Snapshot()
		return m, nil
	}

	var cmd tea.Cmd
	m.ColorInput, cmd = m.ColorInput.Update(msg)
	if ledconfig.ValidateColor(m.ColorInput.Value()) == nil {
		_ = m.ctrl.PreviewColor(m.ColorInput.Value())
		m.State = m.ctrl.Snapshot()
	}
	return m, cmd
}

// View renders the configuration screen
func (m ConfigModel) View() string {
	keys := m.Keys
	keys.Retry.SetEnabled(m.State.CanRetry())
	return RenderApplicationContainer(m.renderContent(), m.Help.View(keys), m.Width, m.Height)
}

func (m ConfigModel) renderContent() string {
	config := m.State.Config
	sections := []string{RenderTitle("LED CONFIGURATION")}
	if m.Endpoint != "" {
		subtitle := SubtitleStyle.Render(m.Endpoint)
		if m.Watching {
			subtitle += " " + StatusStyle.Render(ui.ChangeMarker+" live")
		}
		sections = append(sections, subtitle, "")
	}

	sections = append(sections,
		RenderField("Mode", m.renderModes(), m.Focus == FieldMode),
		RenderField("Color", m.renderColor(), m.Focus == FieldColor),
		RenderField("Brightness", ui.RenderBrightnessBar(config, 30)+" "+ValueStyle.Render(fmt.Sprintf("%3d%%", config.Brightness)), m.Focus == FieldBrightness),
		"",
		RenderField("Preview", m.renderPreview(), false),
		"",
		m.renderSubmitButton(),
		"",
	)

	switch {
	case m.State.Loading:
		sections = append(sections, m.Spinner.View()+" Syncing with controller...")
	case m.State.LastError != nil:
		line := ui.FailureMarker + " " + ledconfig.GetShortErrorMessage(m.State.LastError)
		if m.State.CanRetry() {
			line += fmt.Sprintf(" (press r to retry %s)", m.State.LastFailed)
		}
		sections = append(sections, ErrorLineStyle.Render(line))
	}
	if m.Status != "" {
		sections = append(sections, StatusStyle.Render(m.Status))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) renderModes() string {
	var parts []string
	for _, mode := range ledconfig.Modes() {
		if mode == m.State.Config.Mode {
			parts = append(parts, SelectedOptionStyle.Render("["+mode.String()+"]"))
		} else {
			parts = append(parts, OptionStyle.Render(" "+mode.String()+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (m ConfigModel) renderColor() string {
	if m.EditingColor {
		return m.ColorInput.View() + " " + ui.RenderSwatch(m.State.Accent, ui.SwatchWidth)
	}
	color := m.State.Config.Color
	return ui.RenderSwatchRow(m.Swatches, color) + "  " +
		ValueStyle.Render(fmt.Sprintf("%s (%s)", color, ledconfig.ColorName(color)))
}

// renderPreview shows the accent color at the selected brightness, or
// black when the strip is off
func (m ConfigModel) renderPreview() string {
	preview := ledconfig.DeviceConfig{
		Mode:       m.State.Config.Mode,
		Color:      m.State.Accent,
		Brightness: m.State.Config.Brightness,
	}.EffectiveColor()
	return ui.RenderSwatch(preview, ui.SwatchWidth*2) + " " + OptionStyle.Render(preview)
}

func (m ConfigModel) renderSubmitButton() string {
	style := ButtonStyle
	if m.Focus == FieldSubmit {
		style = FocusedButtonStyle
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(style.Render("Submit"))
}

func indexOf(n int, match func(int) bool) int {
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return -1
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
