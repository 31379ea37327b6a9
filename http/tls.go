package http

import (
	"context"
	"fmt"
	"net"

	tls "github.com/refraction-networking/utls"
)

// chromeHTTP1Spec returns Chrome's ClientHello with ALPN limited to
// http/1.1, so the server never negotiates HTTP/2 on a connection net/http
// reads as HTTP/1. Specs hold mutable extension state and are built per
// connection.
func chromeHTTP1Spec() (tls.ClientHelloSpec, error) {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return tls.ClientHelloSpec{}, err
	}
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	return spec, nil
}

// tlsDialer opens TLS connections that present a Chrome fingerprint.
type tlsDialer struct {
	dialer             net.Dialer
	insecureSkipVerify bool
}

func newTLSDialer(dialer net.Dialer, verify bool) *tlsDialer {
	return &tlsDialer{
		dialer:             dialer,
		insecureSkipVerify: !verify,
	}
}

// DialTLSContext satisfies http.Transport.DialTLSContext.
func (d *tlsDialer) DialTLSContext(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := d.dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	config := &tls.Config{ServerName: host, InsecureSkipVerify: d.insecureSkipVerify}
	var tlsConn *tls.UConn
	if spec, err := chromeHTTP1Spec(); err != nil {
		tlsConn = tls.UClient(conn, config, tls.HelloChrome_Auto)
	} else {
		tlsConn = tls.UClient(conn, config, tls.HelloCustom)
		if err := tlsConn.ApplyPreset(&spec); err != nil {
			conn.Close()
			return nil, fmt.Errorf("apply tls preset: %w", err)
		}
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}
