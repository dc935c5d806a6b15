// Ledctl-emulator serves the HTTP interface of an LED controller.
//
// It answers GET and POST on the configuration resource exactly like a real
// controller, pushes accepted configurations to WebSocket watchers, and can
// advertise itself over mDNS so that 'ledctl scan' finds it. Use it to try
// ledctl without hardware or to exercise slow and failing controllers.
//
// Usage:
//
//	ledctl-emulator serve [flags]
//
// See 'ledctl-emulator serve --help' for available options.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ledctl/internal/ledconfig"
	"github.com/muurk/ledctl/internal/logging"
	"github.com/muurk/ledctl/internal/server"
	"github.com/muurk/ledctl/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ledctl-emulator",
	Short: "LED controller emulator",
	Long: `A standalone emulator of an LED controller's HTTP interface.

The emulator keeps one configuration in memory. GET returns it, POST
validates and stores it, and every accepted change is pushed to clients
watching the WebSocket channel on the same path.`,
	Version:      version.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host       string
	port       int
	path       string
	certPath   string
	keyPath    string
	advertise  bool
	instance   string
	latency    time.Duration
	logLevel   string
	initMode   string
	initColor  string
	initBright int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the emulator",
	Long: `Start serving the configuration resource.

HTTPS is used when both --cert and --key are given. With --advertise the
emulator registers a "_ledctl._tcp" mDNS service carrying its scheme and
path in TXT records.`,
	Example: `  # Plain HTTP on the controller's default port
  ledctl-emulator serve

  # Discoverable, starting red at half brightness
  ledctl-emulator serve --advertise --instance Kitchen --color "#ff0000" --brightness 50

  # A slow controller behind TLS
  ledctl-emulator serve --port 8443 --cert cert.pem --key key.pem --latency 2s`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", ledconfig.DefaultPort, "Listen port")
	serveCmd.Flags().StringVar(&path, "path", ledconfig.DefaultPath, "Configuration resource path")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the emulator over mDNS")
	serveCmd.Flags().StringVar(&instance, "instance", "", "mDNS instance name (default \"ledctl emulator\")")
	serveCmd.Flags().DurationVar(&latency, "latency", 0, "Delay added to every response")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&initMode, "mode", string(ledconfig.ModeSolid), "Initial mode")
	serveCmd.Flags().StringVar(&initColor, "color", ledconfig.DefaultSwatches[0], "Initial color")
	serveCmd.Flags().IntVar(&initBright, "brightness", ledconfig.MaxBrightness, "Initial brightness")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	if (certPath != "") != (keyPath != "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}
	if certPath != "" {
		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			return fmt.Errorf("certificate file not found: %s", certPath)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			return fmt.Errorf("private key file not found: %s", keyPath)
		}
	}

	mode, err := ledconfig.ParseMode(initMode)
	if err != nil {
		return err
	}
	color, err := ledconfig.NormalizeColor(initColor)
	if err != nil {
		return err
	}
	initial := ledconfig.DeviceConfig{Mode: mode, Color: color, Brightness: initBright}

	srv, err := server.New(&server.Config{
		Host:      host,
		Port:      port,
		Path:      path,
		CertPath:  certPath,
		KeyPath:   keyPath,
		Advertise: advertise,
		Instance:  instance,
		Initial:   &initial,
		Latency:   latency,
	})
	if err != nil {
		return fmt.Errorf("failed to create emulator: %w", err)
	}

	logging.Info("Initial configuration", zap.String("config", initial.FormatCompact()))
	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String("ledctl-emulator"))
	},
}
