// Package fetch implements the HTTP Fetcher abstraction: a pluggable
// Transport (native net/http or an external curl binary) plus the failure
// classification the Live-Data Layer needs to decide whether to fall back
// to cache, stale cache, or the registry.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strconv"
	"time"

	"github.com/r3e-network/defi-dispatcher/internal/httpx"
)

// FailureKind classifies why a fetch did not produce usable data.
type FailureKind string

const (
	MissingURL FailureKind = "missing_url"
	Unreachable FailureKind = "unreachable"
	NonJSON     FailureKind = "non_json"
)

// FetchError is the structured failure returned by Fetcher.FetchJSON.
type FetchError struct {
	Kind FailureKind
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch failed (%s)", e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Transport performs the raw byte fetch of a URL.
type Transport interface {
	Name() string
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// NativeTransport fetches via net/http, using the hardened TLS1.2-floor
// client from internal/httpx.
type NativeTransport struct {
	client *http.Client
}

// NewNativeTransport builds a NativeTransport with the given per-request
// timeout.
func NewNativeTransport(timeout time.Duration) *NativeTransport {
	return &NativeTransport{client: httpx.CopyHTTPClientWithTimeout(nil, timeout, true)}
}

func (t *NativeTransport) Name() string { return "native" }

func (t *NativeTransport) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := httpx.ReadAllStrict(resp.Body, 8<<20)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

// CurlTransport shells out to an external curl binary. This is offered
// alongside NativeTransport because some deployment sandboxes restrict
// direct outbound net/http dialing but still permit an allowlisted curl
// binary; DEFI_LIVE_HTTP_TRANSPORT=curl selects it.
type CurlTransport struct {
	Bin     string
	Timeout time.Duration
}

// NewCurlTransport builds a CurlTransport invoking the given binary (or
// "curl" if empty) with the given timeout.
func NewCurlTransport(bin string, timeout time.Duration) *CurlTransport {
	if bin == "" {
		bin = "curl"
	}
	return &CurlTransport{Bin: bin, Timeout: timeout}
}

func (t *CurlTransport) Name() string { return "curl" }

func (t *CurlTransport) Fetch(ctx context.Context, url string) ([]byte, error) {
	seconds := int(t.Timeout.Seconds())
	if seconds <= 0 {
		seconds = 10
	}
	cmd := exec.CommandContext(ctx, t.Bin,
		"-sS", "-f", "-m", strconv.Itoa(seconds),
		"-H", "Accept: application/json",
		url,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s: %s", err, stderr.String())
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Fetcher wraps a Transport with JSON validation and failure
// classification.
type Fetcher struct {
	Transport Transport
}

// NewFetcher builds a Fetcher from transport name ("native" or "curl").
func NewFetcher(transportName string, timeout time.Duration) *Fetcher {
	if transportName == "curl" {
		return &Fetcher{Transport: NewCurlTransport("", timeout)}
	}
	return &Fetcher{Transport: NewNativeTransport(timeout)}
}

// FetchJSON fetches url and validates the body is syntactically valid JSON,
// returning a classified *FetchError on any failure.
func (f *Fetcher) FetchJSON(ctx context.Context, url string) (json.RawMessage, error) {
	if url == "" {
		return nil, &FetchError{Kind: MissingURL}
	}
	body, err := f.Transport.Fetch(ctx, url)
	if err != nil {
		return nil, &FetchError{Kind: Unreachable, Err: err}
	}
	if !json.Valid(bytes.TrimSpace(body)) {
		return nil, &FetchError{Kind: NonJSON, Err: io.ErrUnexpectedEOF}
	}
	return json.RawMessage(body), nil
}

// TransportName returns the transport's identifying name, for diagnostics
// folded into error messages ("provider=morpho transport=curl").
func (f *Fetcher) TransportName() string {
	if f == nil || f.Transport == nil {
		return "native"
	}
	return f.Transport.Name()
}
