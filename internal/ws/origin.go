package ws

import (
	"net"
	"net/http"
	"strings"
)

// ClientOrigin returns the network origin of a request.
// Proxy headers take precedence over the socket address: CF-Connecting-IP,
// then the first X-Forwarded-For entry. IPv4-mapped IPv6 addresses are
// reported in their IPv4 form.
func ClientOrigin(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return normalizeIP(ip)
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return normalizeIP(ip)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "unknown"
	}
	return normalizeIP(host)
}

func normalizeIP(ip string) string {
	return strings.TrimPrefix(ip, "::ffff:")
}
