package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/anisan-cli/katalog/constant"
	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// TLSTimeout bounds a whole fingerprinted request, handshake included.
const TLSTimeout = 30 * time.Second

// Request is a request sent with a browser TLS fingerprint.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

// Response is the buffered answer to a Request.
type Response struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once
)

func getH2Transport() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, nil)
			},
		}
	})
	return h2Transport
}

var h1Transport = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialTLS(ctx, network, addr, []string{"http/1.1"})
	},
}

// DoTLS performs req mimicking Chrome's client hello.
// HTTP/2 is tried first; on failure the request is repeated over HTTP/1.1.
// Plain http URLs go through Client.
func DoTLS(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	build := func() (*http.Request, error) {
		var body io.Reader
		if req.Body != "" {
			body = strings.NewReader(req.Body)
		}

		r, err := http.NewRequestWithContext(ctx, method, req.URL, body)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		r.Header.Set("User-Agent", constant.UserAgent)
		r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Header.Set("Accept-Language", "en-US,en;q=0.5")
		for k, v := range req.Headers {
			r.Header.Set(k, v)
		}
		return r, nil
	}

	r, err := build()
	if err != nil {
		return nil, err
	}

	// there is no handshake to fingerprint on plain http
	if r.URL.Scheme == "http" {
		resp, err := Client.Do(r)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		return readResponse(resp)
	}

	resp, err := (&http.Client{Timeout: TLSTimeout, Transport: getH2Transport()}).Do(r)
	if err != nil {
		if r, err = build(); err != nil {
			return nil, err
		}

		resp, err = (&http.Client{Timeout: TLSTimeout, Transport: h1Transport}).Do(r)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
	}
	return readResponse(resp)
}

func readResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Response{Status: resp.StatusCode}, fmt.Errorf("read body: %w", err)
	}

	return &Response{Status: resp.StatusCode, Body: string(body)}, nil
}

// dialTLS opens a connection with the Chrome 120 fingerprint.
// A nil protos keeps the fingerprint's own ALPN list (h2 and http/1.1).
func dialTLS(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: TLSTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
