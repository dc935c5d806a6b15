package discovery

import "testing"

func TestDevice_String(t *testing.T) {
	device := &Device{
		Instance: "Kitchen strip",
		Hostname: "ledstrip-3f2a.local.",
		IP:       "192.168.100.12",
		Port:     5000,
		Path:     "/api",
	}

	expected := `LED controller "Kitchen strip" (ledstrip-3f2a.local.) at http://192.168.100.12:5000/api`
	if device.String() != expected {
		t.Errorf("Device.String() = %v, want %v", device.String(), expected)
	}
}

func TestDevice_Endpoint(t *testing.T) {
	tests := []struct {
		name     string
		device   *Device
		expected string
	}{
		{
			name:     "defaults",
			device:   &Device{IP: "192.168.4.16", Port: 5000},
			expected: "http://192.168.4.16:5000/api",
		},
		{
			name:     "custom",
			device:   &Device{IP: "10.0.0.5", Port: 8443, Scheme: "https", Path: "/led"},
			expected: "https://10.0.0.5:8443/led",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.Endpoint().URL(); got != tt.expected {
				t.Errorf("Device.Endpoint().URL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDevice_GetMetadata(t *testing.T) {
	device := &Device{
		Metadata: map[string]string{
			"path": "/api",
			"fw":   "1.2.0",
		},
	}

	tests := []struct {
		key      string
		expected string
	}{
		{"path", "/api"},
		{"fw", "1.2.0"},
		{"missing", ""},
	}

	for _, tt := range tests {
		if got := device.GetMetadata(tt.key); got != tt.expected {
			t.Errorf("Device.GetMetadata(%v) = %v, want %v", tt.key, got, tt.expected)
		}
	}

	if got := (&Device{}).GetMetadata("anything"); got != "" {
		t.Errorf("Device.GetMetadata() with nil map = %v, want empty string", got)
	}
}
