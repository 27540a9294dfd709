package transport

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointString(t *testing.T) {
	tests := []struct {
		name string
		ep   Endpoint
		want string
	}{
		{"default_port", Endpoint{User: "pi", Host: "pi1", Port: 22}, "pi@pi1"},
		{"unset_port", Endpoint{User: "pi", Host: "pi1"}, "pi@pi1"},
		{"custom_port", Endpoint{User: "pi", Host: "pi1", Port: 2222}, "pi@pi1:2222"},
		{"ipv6_custom_port", Endpoint{User: "pi", Host: "fe80::1", Port: 2222}, "pi@[fe80::1]:2222"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ep.String())
		})
	}
}

func TestEndpointAddress(t *testing.T) {
	assert.Equal(t, "pi1:22", Endpoint{Host: "pi1"}.Address())
	assert.Equal(t, "pi1:2222", Endpoint{Host: "pi1", Port: 2222}.Address())

	addr := Endpoint{Host: "fe80::1"}.Address()
	assert.Equal(t, "[fe80::1]:22", addr)
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	assert.Equal(t, "fe80::1", host)
	assert.Equal(t, "22", port)
}
