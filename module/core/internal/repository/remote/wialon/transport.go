package wialon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Zavalalgamer/wialon-backend/module/core/domain"
)

// transport issues the platform's GET-based RPC requests.
type transport struct {
	baseURL    string
	httpClient *http.Client
}

func (t *transport) get(ctx context.Context, timeout time.Duration, svc string, params any, sid string) (json.RawMessage, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode params for %s: %w", svc, err)
	}

	q := url.Values{}
	q.Set("svc", svc)
	q.Set("params", string(encoded))
	if sid != "" {
		q.Set("sid", sid)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", svc, err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", svc, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", svc, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.HTTPError{Service: svc, Status: resp.StatusCode, Body: string(body)}
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%s returned invalid JSON", svc)
	}
	return body, nil
}

type envelope struct {
	Error  int    `json:"error"`
	Reason string `json:"reason"`
}

// errorEnvelope reports the error code carried by a JSON object body. Lists and
// objects without a non-zero "error" field are success payloads.
func errorEnvelope(body json.RawMessage) (envelope, bool) {
	var env envelope
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return env, false
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return env, false
	}
	return env, env.Error != 0
}
