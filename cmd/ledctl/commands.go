package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ledctl/internal/config"
	"github.com/muurk/ledctl/internal/controller"
	"github.com/muurk/ledctl/internal/discovery"
	"github.com/muurk/ledctl/internal/ledconfig"
	"github.com/muurk/ledctl/internal/logging"
	"github.com/muurk/ledctl/internal/tui"
	"github.com/muurk/ledctl/internal/ui"
)

// Global flags
var (
	configPath     string
	controllerURL  string
	controllerHost string
	controllerPort int
	scheme         string
	resourcePath   string
	deviceName     string
	timeoutSeconds int
	logLevel       string
)

// Command flags
var (
	outputFormat   string
	modeFlag       string
	colorFlag      string
	brightnessFlag int
	scanTimeout    int
	useInstance    string
	scanFirst      bool
	watchChanges   bool
	forceInit      bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Settings file (default is the per-user config directory)")
	flags.StringVar(&controllerURL, "url", "", "Controller endpoint URL, e.g. http://192.168.100.12:5000/api")
	flags.StringVar(&controllerHost, "host", "", "Controller host or IP address")
	flags.IntVar(&controllerPort, "port", config.DefaultPort, "Controller HTTP port")
	flags.StringVar(&scheme, "scheme", ledconfig.DefaultScheme, "Controller URL scheme (http or https)")
	flags.StringVar(&resourcePath, "path", ledconfig.DefaultPath, "Configuration resource path")
	flags.StringVar(&deviceName, "device", "", "Use a controller remembered by 'ledctl scan'")
	flags.IntVar(&timeoutSeconds, "timeout", 0, "Request timeout in seconds (0 waits indefinitely)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when empty")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// loadSettings reads the settings file named by --config or the default one
func loadSettings() (*config.Settings, string, error) {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return nil, "", err
		}
	}
	settings, err := config.LoadFrom(path)
	if err != nil {
		return nil, "", err
	}
	return settings, path, nil
}

// resolveEndpoint layers the endpoint sources: settings file, then --device
// (remembered, else browsed for), then --url, then the individual flags.
func resolveEndpoint(cmd *cobra.Command, settings *config.Settings) (ledconfig.Endpoint, error) {
	ep := settings.ControllerEndpoint()

	if deviceName != "" {
		if device, ok := settings.Devices[deviceName]; ok {
			ep.Host = device.LastHost
			ep.Port = device.LastPort
		} else {
			found, err := lookupDevice(cmd.Context(), settings, deviceName)
			if err != nil {
				return ledconfig.Endpoint{}, err
			}
			ep = found.Endpoint()
		}
	}

	if controllerURL != "" {
		parsed, err := ledconfig.ParseEndpoint(controllerURL)
		if err != nil {
			return ledconfig.Endpoint{}, err
		}
		ep = parsed
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		ep.Host = controllerHost
	}
	if flags.Changed("port") {
		ep.Port = controllerPort
	}
	if flags.Changed("scheme") {
		ep.Scheme = scheme
	}
	if flags.Changed("path") {
		ep.Path = resourcePath
	}

	// Round trip through the parser to validate the combination
	return ledconfig.ParseEndpoint(ep.URL())
}

// lookupDevice browses mDNS for a controller that is not remembered yet
func lookupDevice(ctx context.Context, settings *config.Settings, name string) (*discovery.Device, error) {
	scanner := discovery.NewScanner()
	scanner.Timeout = discoverTimeout(settings)

	logging.Info("Device not remembered, browsing the network", zap.String("device", name))
	device, err := scanner.WaitForDevice(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("unknown device %q: %w (run 'ledctl scan' to list controllers)", name, err)
	}
	return device, nil
}

// resolveTimeout prefers --timeout over the settings file
func resolveTimeout(cmd *cobra.Command, settings *config.Settings) time.Duration {
	if cmd.Flags().Changed("timeout") {
		return time.Duration(timeoutSeconds) * time.Second
	}
	return settings.Timeout()
}

// newClient builds a sync client from settings and flags
func newClient(cmd *cobra.Command) (*ledconfig.Client, *config.Settings, error) {
	settings, _, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	ep, err := resolveEndpoint(cmd, settings)
	if err != nil {
		return nil, nil, err
	}

	client := ledconfig.NewClientForEndpoint(ep)
	client.SetTimeout(resolveTimeout(cmd, settings))
	logging.Debug("Resolved controller endpoint", zap.String("endpoint", ep.URL()))
	return client, settings, nil
}

// tuiCmd opens the interactive screen
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive configuration screen",
	Long: `Open the interactive LED configuration screen.

The screen fetches the controller's configuration, lets you change mode,
color and brightness locally, and pushes the selection when you submit.
With --scan it starts by browsing the network for controllers.`,
	Example: `  # Configure the controller from the settings file
  ledctl tui

  # Pick a controller from the network first
  ledctl tui --scan

  # Follow changes made by other clients
  ledctl tui --host 10.0.0.5 --watch`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&scanFirst, "scan", false, "Start with controller discovery")
	tuiCmd.Flags().BoolVar(&watchChanges, "watch", false, "Follow configurations pushed by the controller")
	tuiCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 0, "Discovery timeout in seconds (default from settings)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	settings, path, err := loadSettings()
	if err != nil {
		return err
	}
	ep, err := resolveEndpoint(cmd, settings)
	if err != nil {
		return err
	}

	final, err := tui.Run(tui.Options{
		Endpoint:    ep,
		Timeout:     resolveTimeout(cmd, settings),
		Swatches:    settings.ColorSwatches(),
		Watch:       watchChanges || settings.Preferences.Watch,
		Scan:        scanFirst,
		ScanTimeout: discoverTimeout(settings),
	})
	if err != nil {
		return fmt.Errorf("interactive screen failed: %w", err)
	}

	if d := final.SelectedDevice; d != nil {
		settings.RememberDevice(d.Instance, d.IP, d.Port)
		settings.SetControllerEndpoint(d.Endpoint())
		if err := settings.SaveTo(path); err != nil {
			logging.Warn("Failed to remember selected controller", zap.Error(err))
		}
	}
	return nil
}

// showCmd prints the controller's configuration
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the controller's configuration",
	Long: `Fetch and print the controller's current mode, color and brightness.`,
	Example: `  # Styled output
  ledctl show

  # One line for scripts
  ledctl show --format compact

  # JSON, exactly as the controller reports it
  ledctl show --host 10.0.0.5 --format json`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	config, err := client.FetchConfig(cmd.Context())
	if err != nil {
		if outputFormat == "detailed" {
			p.PrintError(err)
		}
		return fmt.Errorf("failed to get configuration: %w", err)
	}

	switch outputFormat {
	case "compact":
		p.Println(config.FormatCompact())
	case "json":
		data, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		p.Println(string(data))
	case "detailed":
		p.PrintHeader("LED configuration", "ledctl show", ui.Param{Key: "Controller", Value: client.Endpoint.URL()})
		p.PrintConfig(*config)
	default:
		return fmt.Errorf("unknown format %q (use detailed, compact or json)", outputFormat)
	}

	return nil
}

// setCmd changes the configuration
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change mode, color or brightness",
	Long: `Change one or more configuration values and push them to the controller.

The current configuration is fetched first so that values you do not set
are kept. The controller's acknowledged configuration is printed.`,
	Example: `  # Turn the strip off
  ledctl set --mode off

  # Solid red at half brightness
  ledctl set --mode solid --color "#ff0000" --brightness 50`,
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&modeFlag, "mode", "", "Operating mode (solid, off)")
	setCmd.Flags().StringVar(&colorFlag, "color", "", "Color as #RRGGBB")
	setCmd.Flags().IntVar(&brightnessFlag, "brightness", 0, "Brightness 0-100 (out of range values are clamped)")
}

func runSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("mode") && !flags.Changed("color") && !flags.Changed("brightness") {
		return fmt.Errorf("nothing to set: use --mode, --color or --brightness")
	}

	// Reject bad values before touching the network
	var mode ledconfig.Mode
	if flags.Changed("mode") {
		m, err := ledconfig.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		mode = m
	}
	if flags.Changed("color") {
		if _, err := ledconfig.NormalizeColor(colorFlag); err != nil {
			return err
		}
	}

	client, settings, err := newClient(cmd)
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	ctx := cmd.Context()
	ctrl := controller.New(client, ledconfig.NewDeviceConfig(settings.ColorSwatches()))

	if err := ctrl.Initialize(ctx); err != nil {
		p.PrintError(err)
		return fmt.Errorf("failed to read current configuration: %w", err)
	}
	before := ctrl.Snapshot().Config

	if flags.Changed("mode") {
		if err := ctrl.SetMode(mode); err != nil {
			return err
		}
	}
	if flags.Changed("color") {
		if err := ctrl.SetColor(colorFlag); err != nil {
			return err
		}
	}
	if flags.Changed("brightness") {
		ctrl.SetBrightness(brightnessFlag)
	}

	if err := ctrl.Submit(ctx); err != nil {
		p.PrintError(err)
		return fmt.Errorf("failed to apply configuration: %w", err)
	}

	after := ctrl.Snapshot().Config
	changes := ledconfig.FormatDiff(before, after)
	if changes == "" {
		changes = "none"
	}
	p.PrintResult(ui.NewSuccessResult("Configuration applied",
		ui.Param{Key: "Controller", Value: client.Endpoint.URL()},
		ui.Param{Key: "Mode", Value: after.Mode.String()},
		ui.Param{Key: "Color", Value: fmt.Sprintf("%s (%s)", after.Color, ledconfig.ColorName(after.Color))},
		ui.Param{Key: "Brightness", Value: fmt.Sprintf("%d%%", after.Brightness)},
		ui.Param{Key: "Changes", Value: changes},
	))
	return nil
}

// scanCmd discovers controllers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for LED controllers on the network",
	Long: `Browse mDNS for "_ledctl._tcp" services and list the controllers found.

Every controller found is remembered in the settings file so it can be used
later with --device. With --use, the named controller also becomes the
default endpoint.`,
	Example: `  # Scan with the default timeout
  ledctl scan

  # Quick scan, then make "Kitchen" the default controller
  ledctl scan --scan-timeout 2 --use Kitchen`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 0, "Scan timeout in seconds (default from settings)")
	scanCmd.Flags().StringVar(&useInstance, "use", "", "Make the named controller the default endpoint")
}

func discoverTimeout(settings *config.Settings) time.Duration {
	if scanTimeout > 0 {
		return time.Duration(scanTimeout) * time.Second
	}
	return time.Duration(settings.Preferences.DiscoverTimeout) * time.Second
}

func runScan(cmd *cobra.Command, args []string) error {
	settings, path, err := loadSettings()
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	timeout := discoverTimeout(settings)
	p.PrintHeader("Controller discovery", "ledctl scan",
		ui.Param{Key: "Service", Value: discovery.ServiceType},
		ui.Param{Key: "Timeout", Value: timeout.String()},
	)

	devices, err := discovery.ScanForDevices(cmd.Context(), timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	p.PrintDevices(devices)
	if len(devices) == 0 {
		p.PrintResult(ui.NewFailureResult("Discovery finished without results", nil,
			"Ensure the controller is powered on and on this network",
			"Try a longer --scan-timeout",
			"Use --host to connect without discovery",
		))
		return nil
	}

	var selected *discovery.Device
	for _, d := range devices {
		settings.RememberDevice(d.Instance, d.IP, d.Port)
		if d.Instance == useInstance {
			selected = d
		}
	}
	if useInstance != "" {
		if selected == nil {
			return fmt.Errorf("controller %q was not found", useInstance)
		}
		settings.SetControllerEndpoint(selected.Endpoint())
	}

	if err := settings.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	p.Newline()
	if selected != nil {
		p.Println(ui.MutedStyle.Render(fmt.Sprintf("  Default controller set to %s", selected.Endpoint().URL())))
	} else {
		p.Println(ui.MutedStyle.Render("  Use 'ledctl show --device <instance>' to read a controller"))
	}
	return nil
}

// watchCmd streams configuration changes
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print configuration changes as they happen",
	Long: `Fetch the controller's configuration, then follow its push channel and
print a line every time the configuration changes. Stop with Ctrl+C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	client, settings, err := newClient(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := ui.NewPrinter(cmd.OutOrStdout())
	ctrl := controller.New(client, ledconfig.NewDeviceConfig(settings.ColorSwatches()))

	var last *ledconfig.DeviceConfig
	unsubscribe := ctrl.Subscribe(func(s controller.State) {
		if s.Loading || (last != nil && *last == s.Config) {
			return
		}
		config := s.Config
		last = &config
		p.Println(fmt.Sprintf("%s  %s", time.Now().Format(time.TimeOnly), config.FormatCompact()))
	})
	defer unsubscribe()

	if err := ctrl.Initialize(ctx); err != nil {
		p.PrintError(err)
		return fmt.Errorf("failed to read current configuration: %w", err)
	}

	err = client.WatchConfig(ctx, func(config ledconfig.DeviceConfig) {
		ctrl.ApplyRemote(config)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

// configCmd manages the settings file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with default values",
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			if path, err = config.GetConfigPath(); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing settings file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return err
		}
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	force := forceInit
	if _, err := os.Stat(path); err == nil && !force && ui.IsTerminal(os.Stdin) {
		force = p.Confirm(cmd.InOrStdin(), "Settings file exists",
			[]string{path, "Endpoint, swatches and remembered devices will be reset"},
			"Overwrite it?")
		if !force {
			return nil
		}
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check settings file: %w", err)
	}

	if err := config.CreateDefaultConfig(path, force); err != nil {
		return err
	}
	p.PrintResult(ui.NewSuccessResult("Settings written", ui.Param{Key: "Path", Value: path}))
	return nil
}
