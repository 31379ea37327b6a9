package http

import (
	"compress/gzip"
	"compress/zlib"
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/andybalholm/brotli"
	tls "github.com/refraction-networking/utls"
)

// JSShellLimit is the body size under which an "enable JavaScript" notice
// is taken to mean the page has no server-rendered content.
const JSShellLimit = 5000

// challengeSignatures are markers of interstitial bot-check pages served
// by CDNs and WAFs in place of the requested document.
var challengeSignatures = []string{
	"cf-browser-verification",
	"cf_chl_opt",
	"cf-challenge",
	"challenge-platform",
	"checking your browser before accessing",
	"just a moment...",
	"attention required! | cloudflare",
	"ddos protection by",
	"px-captcha",
	"_incapsula_resource",
	"distil_r_captcha",
	"are you a robot",
	"verify you are human",
	"please complete the security check",
}

// jsRequiredRe matches the notices client-rendered shells show without
// JavaScript.
var jsRequiredRe = regexp.MustCompile(`(?i)(please\s+)?(enable|turn\s+on|activate)\s+javascript|javascript\s+(is\s+)?(required|disabled)|requires\s+javascript`)

// IsChallengePage reports whether body looks like a bot-challenge page.
func IsChallengePage(body string) bool {
	lower := strings.ToLower(body)
	for _, sig := range challengeSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

// IsJSRequired reports whether body is a small page asking for JavaScript.
func IsJSRequired(body string) bool {
	return len(body) < JSShellLimit && jsRequiredRe.MatchString(body)
}

// classifyResponse turns a received response into the fetch error taxonomy.
// Challenge signatures win over the status code.
func classifyResponse(status int, body, rawURL string) error {
	if IsChallengePage(body) {
		return cleanplate.StatusError(cleanplate.EBOTCHALLENGE, status, "bot challenge served for %s", rawURL)
	}
	switch {
	case status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return cleanplate.StatusError(cleanplate.EACCESSDENIED, status, "access denied (HTTP %d) for %s", status, rawURL)
	case status >= 400:
		return cleanplate.StatusError(cleanplate.EHTTP, status, "HTTP %d for %s", status, rawURL)
	}
	if IsJSRequired(body) {
		return cleanplate.Errorf(cleanplate.EJSREQUIRED, "page requires javascript: %s", rawURL)
	}
	return nil
}

// classifyTransportError maps a failed client.Do to ENETWORK or ESSL.
func classifyTransportError(err error, rawURL string) error {
	var appErr *cleanplate.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if isCertificateError(err) {
		return cleanplate.WrapError(cleanplate.ESSL, err, "certificate verification failed for %s", rawURL)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return cleanplate.WrapError(cleanplate.ENETWORK, err, "request timed out for %s", rawURL)
	}
	return cleanplate.WrapError(cleanplate.ENETWORK, err, "request failed for %s", rawURL)
}

func isCertificateError(err error) bool {
	var (
		unknownAuthority x509.UnknownAuthorityError
		hostname         x509.HostnameError
		invalid          x509.CertificateInvalidError
		verification     *tls.CertificateVerificationError
	)
	return errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostname) ||
		errors.As(err, &invalid) ||
		errors.As(err, &verification)
}

// decodeBody wraps r in the decoder named by a Content-Encoding header.
// Unknown encodings are read as-is. An empty gzip body decodes to nothing.
func decodeBody(r io.Reader, encoding string) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(r)
		if errors.Is(err, io.EOF) {
			return io.NopCloser(strings.NewReader("")), nil
		}
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case "deflate":
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
		return zr, nil
	case "br":
		return io.NopCloser(brotli.NewReader(r)), nil
	}
	return io.NopCloser(r), nil
}
