// Package security guards the outbound HTTP traffic of bridgechat.
//
// Both upstream services (the BridgeDB mapping service and the PubChem name
// lookup) are reached through an HTTP validator that screens URLs against
// SSRF targets and hands out a client with timeout and redirect limits. The
// base URLs are user-configurable, so the screening applies even though the
// endpoints are nominally fixed.
package security

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

// DefaultMaxResponseSize caps upstream response bodies (2 MB). Mapping
// reports are tab-separated text and stay far below this.
const DefaultMaxResponseSize int64 = 2 * 1024 * 1024

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 15 * time.Second

// maxRedirects limits redirect chains; each hop is revalidated.
const maxRedirects = 3

// HTTP validates outbound request URLs and builds the shared HTTP client.
type HTTP struct {
	maxResponseSize int64
	timeout         time.Duration
	allowedSchemes  []string
}

// Option configures an HTTP validator.
type Option func(*HTTP)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(v *HTTP) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// WithMaxResponseSize overrides the response body cap.
func WithMaxResponseSize(n int64) Option {
	return func(v *HTTP) {
		if n > 0 {
			v.maxResponseSize = n
		}
	}
}

// NewHTTP creates an HTTP validator with the default limits.
func NewHTTP(opts ...Option) *HTTP {
	v := &HTTP{
		maxResponseSize: DefaultMaxResponseSize,
		timeout:         DefaultTimeout,
		allowedSchemes:  []string{"http", "https"},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateURL reports whether a URL is safe to fetch. It rejects non-HTTP
// schemes, hostnames known to front internal services, and hostnames that
// resolve to private or link-local addresses.
func (v *HTTP) ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if !slices.Contains(v.allowedSchemes, scheme) {
		return fmt.Errorf("disallowed scheme %q (only http/https)", parsed.Scheme)
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return fmt.Errorf("missing hostname")
	}

	if isBlockedHostname(hostname) {
		return fmt.Errorf("access denied: internal or metadata host %q", hostname)
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("resolving hostname: %w", err)
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("access denied: %q resolves to private address %s", hostname, ip)
		}
	}

	return nil
}

// MaxResponseSize returns the response body cap in bytes.
func (v *HTTP) MaxResponseSize() int64 {
	return v.maxResponseSize
}

// Client returns an HTTP client with the configured timeout and a redirect
// policy that revalidates every hop.
func (v *HTTP) Client() *http.Client {
	return &http.Client{
		Timeout: v.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			if err := v.ValidateURL(req.URL.String()); err != nil {
				return fmt.Errorf("redirect to unsafe URL: %w", err)
			}
			return nil
		},
	}
}

// isBlockedHostname rejects loopback names and cloud metadata endpoints.
func isBlockedHostname(hostname string) bool {
	hostname = strings.ToLower(hostname)

	local := []string{"localhost", "127.0.0.1", "::1", "0.0.0.0"}
	if slices.Contains(local, hostname) {
		return true
	}

	metadata := []string{
		"169.254.169.254", // AWS, Azure, GCP
		"metadata.google.internal",
		"metadata",
	}
	for _, endpoint := range metadata {
		if hostname == endpoint || strings.Contains(hostname, endpoint) {
			return true
		}
	}

	return false
}

// isPrivateIP reports whether ip falls in a private, loopback, link-local,
// or otherwise reserved range.
func isPrivateIP(ip net.IP) bool {
	privateV4 := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"169.254.0.0/16",
		"0.0.0.0/8",
		"224.0.0.0/4",
		"240.0.0.0/4",
	}
	for _, cidr := range privateV4 {
		_, subnet, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if subnet.Contains(ip) {
			return true
		}
	}

	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	// IPv6 unique local addresses, fc00::/7
	if len(ip) == net.IPv6len && (ip[0] == 0xfc || ip[0] == 0xfd) {
		return true
	}

	return false
}
