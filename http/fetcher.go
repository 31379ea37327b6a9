// Package http provides the net/http implementation of cleanplate.Fetcher and
// cleanplate.URLValidator. Pages are fetched without executing JavaScript;
// hostile responses are classified into cleanplate error codes.
package http

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/AdamMoses-GitHub/cleanplate"
	"golang.org/x/net/publicsuffix"
)

// Defaults for a Fetcher built without options.
const (
	DefaultFetchTimeout   = 15 * time.Second
	DefaultMaxRedirects   = 5
	DefaultMinDomainDelay = 2 * time.Second
	DefaultMaxBodySize    = 10 << 20
)

// Ensure Fetcher implements cleanplate.Fetcher at compile time.
var _ cleanplate.Fetcher = (*Fetcher)(nil)

// browserHeaders are sent with every request ahead of configured headers.
var browserHeaders = [][2]string{
	{"Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"},
	{"Accept-Language", "en-US,en;q=0.9"},
	{"Accept-Encoding", "gzip, deflate, br"},
	{"DNT", "1"},
	{"Upgrade-Insecure-Requests", "1"},
	{"Sec-Fetch-Dest", "document"},
	{"Sec-Fetch-Mode", "navigate"},
	{"Sec-Fetch-Site", "none"},
	{"Sec-Fetch-User", "?1"},
}

// Fetcher retrieves recipe pages over HTTP(S) with browser-like headers,
// a Chrome TLS fingerprint and a per-domain courtesy delay.
type Fetcher struct {
	session   *Session
	transport *http.Transport

	timeout      time.Duration
	maxRedirects int
	minDelay     time.Duration
	verifySSL    bool
	userAgents   []string
	headers      map[string]string
	maxBodySize  int64
	now          func() time.Time
	sleep        SleepFunc
	validator    cleanplate.URLValidator
	dialGuard    bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout of a whole fetch, redirects and body included.
// Defaults to DefaultFetchTimeout (15s).
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxRedirects sets how many redirects a fetch follows. Zero disables
// redirects. Defaults to DefaultMaxRedirects.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.maxRedirects = n
	}
}

// WithMinDomainDelay sets the minimum spacing of requests to one domain.
// Defaults to DefaultMinDomainDelay (2s).
func WithMinDomainDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.minDelay = d
	}
}

// WithSSLVerify toggles certificate verification. On by default.
func WithSSLVerify(verify bool) Option {
	return func(f *Fetcher) {
		f.verifySSL = verify
	}
}

// WithUserAgents replaces the pool the session User-Agent is picked from.
func WithUserAgents(pool []string) Option {
	return func(f *Fetcher) {
		f.userAgents = pool
	}
}

// WithHeaders adds headers to every request, overriding the browser
// defaults of the same name.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize caps the number of decoded body bytes read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithClock replaces the clock and sleeper behind the per-domain delay.
func WithClock(now func() time.Time, sleep SleepFunc) Option {
	return func(f *Fetcher) {
		f.now = now
		f.sleep = sleep
	}
}

// WithValidator screens every redirect target before it is followed. The
// caller's own URL is not checked here.
func WithValidator(v cleanplate.URLValidator) Option {
	return func(f *Fetcher) {
		f.validator = v
	}
}

// WithDialGuard refuses connections to loopback, private and reserved
// addresses. The check runs on the resolved address at dial time, so it
// also holds for redirects and for hosts whose DNS answer changes.
func WithDialGuard(enabled bool) Option {
	return func(f *Fetcher) {
		f.dialGuard = enabled
	}
}

// NewFetcher creates a new HTTP-based Fetcher with its own Session.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		maxRedirects: DefaultMaxRedirects,
		minDelay:     DefaultMinDomainDelay,
		verifySSL:    true,
		maxBodySize:  DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	dialer := net.Dialer{Timeout: f.timeout}
	if f.dialGuard {
		dialer.Control = guardControl
	}

	f.session = NewSession(f.userAgents, f.minDelay, f.now, f.sleep)
	f.transport = &http.Transport{
		DialContext:           dialer.DialContext,
		DialTLSContext:        newTLSDialer(dialer, f.verifySSL).DialTLSContext,
		ForceAttemptHTTP2:     false,
		DisableCompression:    true,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: f.timeout,
	}
	return f
}

// Session returns the session shared by the fetcher's requests.
func (f *Fetcher) Session() *Session {
	return f.session
}

// Fetch retrieves the HTML of rawURL. Cookies set along the redirect chain
// live in a jar scoped to this call.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", cleanplate.Errorf(cleanplate.EINVALID, "invalid url: %q", rawURL)
	}

	release, err := f.session.Acquire(ctx, u.Hostname())
	if err != nil {
		return "", cleanplate.WrapError(cleanplate.ENETWORK, err, "waiting to contact %s", u.Hostname())
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return "", cleanplate.WrapError(cleanplate.EINTERNAL, err, "create cookie jar")
	}
	client := &http.Client{
		Transport:     f.transport,
		Jar:           jar,
		CheckRedirect: f.checkRedirect,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", cleanplate.WrapError(cleanplate.EINVALID, err, "build request for %s", rawURL)
	}
	f.setHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		return "", classifyTransportError(err, rawURL)
	}
	defer resp.Body.Close()

	body, err := f.readBody(resp)
	if err != nil {
		return "", classifyTransportError(err, rawURL)
	}
	if err := classifyResponse(resp.StatusCode, body, rawURL); err != nil {
		return "", err
	}
	return body, nil
}

func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > f.maxRedirects {
		return cleanplate.Errorf(cleanplate.ENETWORK, "stopped after %d redirects", f.maxRedirects)
	}
	if f.validator != nil {
		return f.validator.Validate(req.Context(), req.URL.String())
	}
	return nil
}

func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.session.UserAgent())
	for _, h := range browserHeaders {
		req.Header.Set(h[0], h[1])
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
}

func (f *Fetcher) readBody(resp *http.Response) (string, error) {
	r, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	defer r.Close()

	body, err := io.ReadAll(io.LimitReader(r, f.maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.transport.CloseIdleConnections()
	return nil
}
