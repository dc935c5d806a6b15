package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func entryFor(instance, host string, port int, ipv4, ipv6 []net.IP, text ...string) *zeroconf.ServiceEntry {
	entry := zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
	entry.HostName = host
	entry.Port = port
	entry.AddrIPv4 = ipv4
	entry.AddrIPv6 = ipv6
	entry.Text = text
	return entry
}

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantInstance string
		wantURL      string
	}{
		{
			name:         "controller with IPv4 and default TXT",
			entry:        entryFor("Kitchen strip", "ledstrip-3f2a.local.", 5000, []net.IP{net.ParseIP("192.168.100.12")}, nil, "path=/api"),
			wantInstance: "Kitchen strip",
			wantURL:      "http://192.168.100.12:5000/api",
		},
		{
			name:         "custom path and https",
			entry:        entryFor("Desk", "desk.local.", 8443, []net.IP{net.ParseIP("10.0.0.5")}, nil, "path=/v2/led", "scheme=https"),
			wantInstance: "Desk",
			wantURL:      "https://10.0.0.5:8443/v2/led",
		},
		{
			name:         "no port falls back to controller default",
			entry:        entryFor("Shelf", "shelf.local.", 0, []net.IP{net.ParseIP("172.16.0.1")}, nil),
			wantInstance: "Shelf",
			wantURL:      "http://172.16.0.1:5000/api",
		},
		{
			name:         "unknown scheme ignored",
			entry:        entryFor("Odd", "odd.local.", 5000, []net.IP{net.ParseIP("10.0.0.9")}, nil, "scheme=gopher"),
			wantInstance: "Odd",
			wantURL:      "http://10.0.0.9:5000/api",
		},
		{
			name:         "missing instance uses hostname",
			entry:        &zeroconf.ServiceEntry{HostName: "bare.local.", Port: 5000, AddrIPv4: []net.IP{net.ParseIP("10.0.0.2")}},
			wantInstance: "bare.local",
			wantURL:      "http://10.0.0.2:5000/api",
		},
		{
			name:         "IPv6 only",
			entry:        entryFor("V6", "v6.local.", 5000, nil, []net.IP{net.ParseIP("fe80::1")}),
			wantInstance: "V6",
			wantURL:      "http://[fe80::1]:5000/api",
		},
		{
			name:         "prefers IPv4",
			entry:        entryFor("Both", "both.local.", 5000, []net.IP{net.ParseIP("192.168.1.50")}, []net.IP{net.ParseIP("fe80::2")}),
			wantInstance: "Both",
			wantURL:      "http://192.168.1.50:5000/api",
		},
		{
			name:    "no IP address",
			entry:   entryFor("Ghost", "ghost.local.", 5000, nil, nil),
			wantNil: true,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}

			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil device")
			}

			if device.Instance != tt.wantInstance {
				t.Errorf("device.Instance = %v, want %v", device.Instance, tt.wantInstance)
			}

			if got := device.Endpoint().URL(); got != tt.wantURL {
				t.Errorf("device.Endpoint().URL() = %v, want %v", got, tt.wantURL)
			}

			if time.Since(device.DiscoveredAt) > time.Second {
				t.Errorf("device.DiscoveredAt is not recent: %v", device.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := entryFor("Kitchen strip", "ledstrip.local.", 5000, []net.IP{net.ParseIP("192.168.4.16")}, nil,
		"path=/api", "fw=1.2.0", "flag", "note=a=b")

	device := scanner.parseServiceEntry(entry)
	if device == nil {
		t.Fatal("parseServiceEntry() = nil, want device")
	}

	expectedMetadata := map[string]string{
		"path": "/api",
		"fw":   "1.2.0",
		"flag": "",
		"note": "a=b",
	}

	if len(device.Metadata) != len(expectedMetadata) {
		t.Errorf("device.Metadata has %d entries, want %d", len(device.Metadata), len(expectedMetadata))
	}

	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := device.Metadata[key]; !ok {
			t.Errorf("device.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("device.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestTXTRecords(t *testing.T) {
	got := TXTRecords("", "")
	if len(got) != 2 || got[0] != "path=/api" || got[1] != "scheme=http" {
		t.Errorf("TXTRecords() = %v", got)
	}

	// An advertised record must parse back into the same endpoint
	entry := entryFor("Loop", "loop.local.", 9000, []net.IP{net.ParseIP("127.0.0.1")}, nil, TXTRecords("https", "/x")...)
	device := NewScanner().parseServiceEntry(entry)
	if got := device.Endpoint().URL(); got != "https://127.0.0.1:9000/x" {
		t.Errorf("round trip URL = %s", got)
	}
}

// Live mDNS browsing needs multicast on the test host and is not exercised here.
