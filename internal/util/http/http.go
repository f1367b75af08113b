// Package http provides HTTP utilities for fetching remote design images.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/jmylchreest/atelier/internal/security"
	"github.com/jmylchreest/atelier/internal/version"
)

const (
	// UserAgentName is the application name used in the User-Agent header.
	UserAgentName = "atelier"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBytes caps the size of a fetched body (32 MiB).
	DefaultMaxBytes int64 = 32 << 20

	// maxRedirects matches the net/http default.
	maxRedirects = 10
)

// FetchOptions configures HTTP fetch behavior.
type FetchOptions struct {
	// Timeout specifies the HTTP request timeout.
	// If zero, DefaultTimeout is used.
	Timeout time.Duration

	// MaxBytes limits the response body size. If zero, DefaultMaxBytes is used.
	MaxBytes int64

	// Headers specifies additional HTTP headers to send with the request.
	Headers map[string]string

	// CheckURL, when set, vets the requested URL and every redirect target
	// before it is followed.
	CheckURL func(url string) error

	// BlockPrivateAddrs refuses connections to loopback, private and
	// link-local addresses after DNS resolution. Proxies are disabled so the
	// check applies to the real destination.
	BlockPrivateAddrs bool

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// newClient builds the client used when FetchOptions.Client is nil.
func newClient(opts FetchOptions, timeout time.Duration) *http.Client {
	client := &http.Client{Timeout: timeout}

	if opts.BlockPrivateAddrs {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = nil
		dialer := &net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
			Control:   security.DialControl,
		}
		transport.DialContext = dialer.DialContext
		client.Transport = transport
	}

	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errors.New("stopped after 10 redirects")
		}
		if opts.CheckURL != nil {
			if err := opts.CheckURL(req.URL.String()); err != nil {
				return fmt.Errorf("redirect refused: %w", err)
			}
		}
		return nil
	}

	return client
}

// Fetch retrieves content from a URL with context and timeout support.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytes
	}

	if opts.CheckURL != nil {
		if err := opts.CheckURL(url); err != nil {
			return nil, err
		}
	}

	client := opts.Client
	if client == nil {
		client = newClient(opts, timeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", fmt.Sprintf("%s/%s", UserAgentName, version.Version))
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxBytes)
	}

	return data, nil
}
