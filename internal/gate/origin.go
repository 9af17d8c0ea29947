package gate

import "strings"

// FromBrowser reports whether the Origin or Referer header plausibly points
// back at this server. A heuristic anti-direct-API-call defense, not a
// cryptographic guarantee: it only checks that one of the headers textually
// contains the request's own host (or a loopback hostname).
func FromBrowser(origin, referer, host string) bool {
	host = stripPort(host)
	if host == "" {
		return false
	}
	for _, h := range []string{origin, referer} {
		if h == "" {
			continue
		}
		if strings.Contains(h, host) || strings.Contains(h, "localhost") || strings.Contains(h, "127.0.0.1") {
			return true
		}
	}
	return false
}

func stripPort(host string) string {
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		return host[:i]
	}
	return host
}
