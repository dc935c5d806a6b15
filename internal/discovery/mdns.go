package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/ledctl/internal/ledconfig"
	"github.com/muurk/ledctl/internal/logging"
)

const (
	// ServiceType is the mDNS service type LED controllers advertise
	ServiceType = "_ledctl._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 5 * time.Second

	// TXT record keys
	txtPath   = "path"
	txtScheme = "scheme"
)

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// browse runs an mDNS browse until ctx is done, handing each parsed device to
// fn. fn returning false stops the browse early.
func (s *Scanner) browse(ctx context.Context, fn func(*Device) bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for entry := range entries {
			device := s.parseServiceEntry(entry)
			if device == nil {
				continue
			}
			logging.Debug("Discovered controller",
				zap.String("instance", device.Instance),
				zap.String("endpoint", device.Endpoint().URL()),
			)
			if !fn(device) {
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// The resolver closes entries once it notices ctx is done
	<-done
	return nil
}

// Scan discovers all LED controllers on the local network until the scanner
// timeout elapses or ctx is done. Duplicate announcements are merged.
func (s *Scanner) Scan(ctx context.Context) ([]*Device, error) {
	var devices []*Device
	seen := make(map[string]bool)

	err := s.browse(ctx, func(d *Device) bool {
		key := d.Instance + "|" + d.IP
		if !seen[key] {
			seen[key] = true
			devices = append(devices, d)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// WaitForDevice waits for a controller with the given instance name
// (case-insensitive). Returns an error if none shows up within the timeout.
func (s *Scanner) WaitForDevice(ctx context.Context, instance string) (*Device, error) {
	var found *Device
	err := s.browse(ctx, func(d *Device) bool {
		if strings.EqualFold(d.Instance, instance) {
			found = d
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("controller %q not found within %s", instance, s.Timeout)
	}
	return found, nil
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil if the entry carries no usable address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry == nil {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = ledconfig.DefaultPort
	}

	// TXT records are "key=value"; a bare key has an empty value
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	scheme := metadata[txtScheme]
	if scheme != "https" {
		scheme = ledconfig.DefaultScheme
	}

	path := metadata[txtPath]
	if path == "" {
		path = ledconfig.DefaultPath
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(entry.HostName, ".")
	}

	return &Device{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Scheme:       scheme,
		Path:         path,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForDevices is a convenience function to scan with a custom timeout
func ScanForDevices(ctx context.Context, timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}
