// Package urlcheck decides whether a user-supplied URL is safe for the server
// to fetch. It is the SSRF defense boundary: every outbound fetch of an
// externally supplied image URL must pass IsSafe first.
//
// The policy is kept as plain data tables (literal hosts, regexp patterns) so
// it can be audited and tested in isolation from the fetch logic.
package urlcheck

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

// blockedHosts are literal hostnames and addresses that are never fetchable:
// loopback, unspecified, and cloud metadata endpoints.
var blockedHosts = map[string]struct{}{
	"localhost":                {},
	"127.0.0.1":                {},
	"::1":                      {},
	"0.0.0.0":                  {},
	"169.254.169.254":          {},
	"metadata.google.internal": {},
	"metadata.internal":        {},
}

// blockedPatterns match private IP literals, internal TLDs, and
// container/orchestration hostnames. Applied to the hostname and to every
// resolved address.
var blockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^10\.\d+\.\d+\.\d+$`),
	regexp.MustCompile(`^172\.(1[6-9]|2\d|3[01])\.\d+\.\d+$`),
	regexp.MustCompile(`^192\.168\.\d+\.\d+$`),
	regexp.MustCompile(`\.internal$`),
	regexp.MustCompile(`\.local$`),
	regexp.MustCompile(`^host\.docker\.internal$`),
	regexp.MustCompile(`^kubernetes\.default`),
}

// lookupIP is swappable in tests.
var lookupIP = net.LookupIP

// IsSafe reports whether the URL may be fetched. Any parse failure, non-HTTP
// scheme, denylisted host, or resolution into a private/reserved/loopback
// range makes it unsafe. A host that fails to resolve cannot be classified
// and is rejected.
func IsSafe(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}

	if _, blocked := blockedHosts[host]; blocked {
		return false
	}
	if matchesBlockedPattern(host) {
		return false
	}

	// IP literal: classify directly, no DNS involved.
	if ip := net.ParseIP(host); ip != nil {
		return ipAllowed(ip)
	}

	ips, err := lookupIP(host)
	if err != nil || len(ips) == 0 {
		return false
	}
	for _, ip := range ips {
		if !ipAllowed(ip) {
			return false
		}
		if matchesBlockedPattern(ip.String()) {
			return false
		}
	}

	return true
}

func ipAllowed(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return false
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return false
	}
	return true
}

func matchesBlockedPattern(s string) bool {
	for _, p := range blockedPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
