// Package discovery finds LED controllers on the local network with mDNS.
//
// Controllers advertise the "_ledctl._tcp" service. The TXT record carries the
// configuration resource path ("path=/api") and optionally the scheme
// ("scheme=https"). The device emulator uses Advertise to publish itself the
// same way.
//
// # Usage Example
//
//	devices, err := discovery.ScanForDevices(ctx, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range devices {
//	    fmt.Println(d.Instance, d.Endpoint().URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Controllers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
