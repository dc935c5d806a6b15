package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"

	"github.com/muurk/ledctl/internal/ledconfig"
	"github.com/muurk/ledctl/internal/logging"
)

// Advertisement is a running mDNS registration
type Advertisement struct {
	server *zeroconf.Server
}

// TXTRecords builds the TXT records a controller advertises for its
// configuration resource.
func TXTRecords(scheme, path string) []string {
	if scheme == "" {
		scheme = ledconfig.DefaultScheme
	}
	if path == "" {
		path = ledconfig.DefaultPath
	}
	return []string{txtPath + "=" + path, txtScheme + "=" + scheme}
}

// Advertise registers an LED controller service on all interfaces.
// Call Shutdown to withdraw it.
func Advertise(instance string, port int, scheme, path string) (*Advertisement, error) {
	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, TXTRecords(scheme, path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	logging.LogConnection(fmt.Sprintf("%s.%s%s", instance, ServiceType, ServiceDomain), "advertised")
	return &Advertisement{server: server}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertisement) Shutdown() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
	}
}
