package urlcheck

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubLookup(t *testing.T, fn func(host string) ([]net.IP, error)) {
	t.Helper()
	orig := lookupIP
	lookupIP = fn
	t.Cleanup(func() { lookupIP = orig })
}

func TestIsSafe_RejectsMalformedAndNonHTTP(t *testing.T) {
	cases := []string{
		"",
		"not a url",
		"ftp://example.com/a.jpg",
		"file:///etc/passwd",
		"gopher://example.com",
		"https:///no-host.jpg",
		"http://",
	}
	for _, raw := range cases {
		assert.False(t, IsSafe(raw), "expected unsafe: %q", raw)
	}
}

func TestIsSafe_RejectsDenylistedHosts(t *testing.T) {
	cases := []string{
		"http://localhost/x.jpg",
		"http://localhost:8080/x.jpg",
		"http://127.0.0.1/x.jpg",
		"http://0.0.0.0/x.jpg",
		"https://[::1]/x.jpg",
		"http://169.254.169.254/latest/meta-data/",
		"http://metadata.google.internal/computeMetadata/v1/",
		"http://metadata.internal/x",
	}
	for _, raw := range cases {
		assert.False(t, IsSafe(raw), "expected unsafe: %q", raw)
	}
}

func TestIsSafe_RejectsPrivateIPLiterals(t *testing.T) {
	cases := []string{
		"http://10.0.0.5/x.jpg",
		"http://172.16.0.1/x.jpg",
		"http://172.31.255.254/x.jpg",
		"http://192.168.1.1/x.jpg",
		"http://169.254.10.10/x.jpg",
	}
	for _, raw := range cases {
		assert.False(t, IsSafe(raw), "expected unsafe: %q", raw)
	}
}

func TestIsSafe_RejectsInternalHostnamePatterns(t *testing.T) {
	stubLookup(t, func(host string) ([]net.IP, error) {
		return []net.IP{net.ParseIP("203.0.113.9")}, nil
	})

	cases := []string{
		"http://db.prod.internal/x.jpg",
		"http://printer.local/x.jpg",
		"http://host.docker.internal/x.jpg",
		"http://kubernetes.default.svc.cluster.local/x.jpg",
	}
	for _, raw := range cases {
		assert.False(t, IsSafe(raw), "expected unsafe: %q", raw)
	}
}

func TestIsSafe_RejectsHostsResolvingToPrivateRanges(t *testing.T) {
	stubLookup(t, func(host string) ([]net.IP, error) {
		return []net.IP{net.ParseIP("10.1.2.3")}, nil
	})
	assert.False(t, IsSafe("https://innocent-looking.example.com/x.jpg"))
}

func TestIsSafe_RejectsWhenAnyResolvedAddressIsPrivate(t *testing.T) {
	stubLookup(t, func(host string) ([]net.IP, error) {
		return []net.IP{net.ParseIP("93.184.216.34"), net.ParseIP("192.168.0.7")}, nil
	})
	assert.False(t, IsSafe("https://rebinding.example.com/x.jpg"))
}

func TestIsSafe_RejectsOnResolutionFailure(t *testing.T) {
	stubLookup(t, func(host string) ([]net.IP, error) {
		return nil, errors.New("no such host")
	})
	assert.False(t, IsSafe("https://does-not-resolve.example.com/x.jpg"))
}

func TestIsSafe_AllowsPublicHosts(t *testing.T) {
	stubLookup(t, func(host string) ([]net.IP, error) {
		return []net.IP{net.ParseIP("93.184.216.34")}, nil
	})

	cases := []string{
		"https://example.com/photo.jpg",
		"http://example.com:8080/photo.png",
		"https://cdn.example.com/a/b/c.webp?w=800",
	}
	for _, raw := range cases {
		assert.True(t, IsSafe(raw), "expected safe: %q", raw)
	}
}

func TestIsSafe_AllowsPublicIPLiteral(t *testing.T) {
	assert.True(t, IsSafe("http://93.184.216.34/x.jpg"))
}
