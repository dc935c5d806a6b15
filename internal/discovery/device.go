package discovery

import (
	"fmt"
	"time"

	"github.com/muurk/ledctl/internal/ledconfig"
)

// Device represents an LED controller discovered on the network
type Device struct {
	// Instance is the advertised service instance name (e.g., "Kitchen strip")
	Instance string

	// Hostname is the mDNS hostname (e.g., "ledstrip-3f2a.local.")
	Hostname string

	// IP is the preferred address, IPv4 if one was advertised
	IP string

	// Port is the HTTP port (typically 5000)
	Port int

	// Scheme is "http" unless the TXT record says otherwise
	Scheme string

	// Path is the configuration resource path from the TXT record (default /api)
	Path string

	// Metadata contains all mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("LED controller %q (%s) at %s", d.Instance, d.Hostname, d.Endpoint().URL())
}

// Endpoint returns the sync client endpoint for the device
func (d *Device) Endpoint() ledconfig.Endpoint {
	return ledconfig.Endpoint{
		Scheme: d.Scheme,
		Host:   d.IP,
		Port:   d.Port,
		Path:   d.Path,
	}
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
