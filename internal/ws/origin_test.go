package ws

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientOrigin(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "cloudflare header wins",
			headers:    map[string]string{"CF-Connecting-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "1.2.3.4",
		},
		{
			name:       "first forwarded entry",
			headers:    map[string]string{"X-Forwarded-For": " 5.6.7.8 , 10.0.0.2"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "5.6.7.8",
		},
		{
			name:       "socket address",
			remoteAddr: "10.0.0.1:1234",
			expected:   "10.0.0.1",
		},
		{
			name:       "ipv4 mapped ipv6 socket address",
			remoteAddr: "[::ffff:10.0.0.9]:1234",
			expected:   "10.0.0.9",
		},
		{
			name:       "plain ipv6 socket address",
			remoteAddr: "[2001:db8::1]:1234",
			expected:   "2001:db8::1",
		},
		{
			name:       "empty forwarded header falls through",
			headers:    map[string]string{"X-Forwarded-For": " "},
			remoteAddr: "10.0.0.1:1234",
			expected:   "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, ClientOrigin(r))
		})
	}
}
