package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "statusforge/1.0"

// maxBody bounds how much of a prober response is read.
const maxBody = 1 << 20

// HTTPProber POSTs the request as JSON to a prober endpoint.
type HTTPProber struct {
	URL    string
	Token  string
	Client *http.Client
}

func NewHTTPProber(url, token string, timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		URL:    url,
		Token:  token,
		Client: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProber) Probe(ctx context.Context, in Request) (Observation, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return Observation{}, fmt.Errorf("encode probe request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return Observation{}, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return Observation{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Observation{}, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var obs Observation
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&obs); err != nil {
		return Observation{}, fmt.Errorf("%w: decode observation: %v", ErrUpstream, err)
	}
	return obs, nil
}
