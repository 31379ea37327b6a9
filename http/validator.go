package http

import (
	"context"
	"net"
	"net/netip"
	"net/url"
	"strings"
	"syscall"

	"github.com/AdamMoses-GitHub/cleanplate"
)

// Ensure URLValidator implements cleanplate.URLValidator at compile time.
var _ cleanplate.URLValidator = (*URLValidator)(nil)

// Resolver looks up the addresses of a host. *net.Resolver implements it.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// blockedPrefixes are ranges netip.Addr has no predicate for.
var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("240.0.0.0/4"),
}

// URLValidator refuses URLs that point into private networks, so a
// caller-supplied URL cannot be used to reach internal services.
type URLValidator struct {
	resolver Resolver
}

// ValidatorOption configures a URLValidator.
type ValidatorOption func(*URLValidator)

// WithResolver replaces net.DefaultResolver.
func WithResolver(r Resolver) ValidatorOption {
	return func(v *URLValidator) {
		v.resolver = r
	}
}

// NewURLValidator creates a URLValidator.
func NewURLValidator(opts ...ValidatorOption) *URLValidator {
	v := &URLValidator{resolver: net.DefaultResolver}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns EINVALID for malformed URLs, EUNSAFEURL for non-web
// schemes and hosts that are or resolve to an internal address, and
// ENETWORK when the host does not resolve.
func (v *URLValidator) Validate(ctx context.Context, rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return cleanplate.WrapError(cleanplate.EINVALID, err, "invalid url: %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return cleanplate.Errorf(cleanplate.EUNSAFEURL, "scheme %q is not allowed", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return cleanplate.Errorf(cleanplate.EINVALID, "url has no host: %q", rawURL)
	}
	lower := strings.ToLower(strings.TrimSuffix(host, "."))
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") {
		return cleanplate.Errorf(cleanplate.EUNSAFEURL, "host %s is not allowed", host)
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		if isBlockedAddr(addr) {
			return cleanplate.Errorf(cleanplate.EUNSAFEURL, "address %s is not allowed", addr)
		}
		return nil
	}

	addrs, err := v.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return cleanplate.WrapError(cleanplate.ENETWORK, err, "resolve %s", host)
	}
	if len(addrs) == 0 {
		return cleanplate.Errorf(cleanplate.ENETWORK, "host %s has no addresses", host)
	}
	for _, a := range addrs {
		addr, ok := netip.AddrFromSlice(a.IP)
		if !ok || isBlockedAddr(addr) {
			return cleanplate.Errorf(cleanplate.EUNSAFEURL, "host %s resolves to %s", host, a.IP)
		}
	}
	return nil
}

// guardControl is a net.Dialer Control hook that refuses blocked addresses.
func guardControl(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return cleanplate.Errorf(cleanplate.EUNSAFEURL, "refusing to dial %q", address)
	}
	if isBlockedAddr(ap.Addr()) {
		return cleanplate.Errorf(cleanplate.EUNSAFEURL, "refusing to connect to internal address %s", ap.Addr())
	}
	return nil
}

func isBlockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() || addr.IsMulticast() {
		return true
	}
	for _, p := range blockedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
