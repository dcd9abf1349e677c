package wialon

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Zavalalgamer/wialon-backend/module/core/domain"
)

const (
	DefaultLoginTimeout = 15 * time.Second
	DefaultCallTimeout  = 30 * time.Second

	// maxSessionRetries bounds how often a call is replayed after the platform
	// reports the session as no longer valid.
	maxSessionRetries = 1
)

// sessionErrorCodes are the platform error codes meaning the session id must
// be replaced.
var sessionErrorCodes = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 8: true}

// Recorder receives call outcomes for metrics.
type Recorder interface {
	ObserveCall(service, outcome string, elapsed time.Duration)
	ObserveLogin(outcome string)
	ObserveRetry(service string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCall(string, string, time.Duration) {}
func (nopRecorder) ObserveLogin(string)                       {}
func (nopRecorder) ObserveRetry(string)                       {}

type Options struct {
	BaseURL      string
	Token        string
	LoginTimeout time.Duration
	CallTimeout  time.Duration
	HTTPClient   *http.Client
	Recorder     Recorder
}

// Client calls platform services through a cached Session.
type Client struct {
	tr       *transport
	session  *Session
	timeout  time.Duration
	recorder Recorder
}

func NewClient(opts Options) *Client {
	if opts.LoginTimeout <= 0 {
		opts.LoginTimeout = DefaultLoginTimeout
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	tr := &transport{baseURL: opts.BaseURL, httpClient: opts.HTTPClient}
	return &Client{
		tr:       tr,
		session:  newSession(opts.Token, tr, opts.LoginTimeout, opts.Recorder),
		timeout:  opts.CallTimeout,
		recorder: opts.Recorder,
	}
}

// Session exposes the client's credential cache.
func (c *Client) Session() *Session {
	return c.session
}

// Call invokes svc with params and returns the raw success payload. A
// session-invalidation error triggers one re-login and one replay; anything
// that fails after that is returned as is.
func (c *Client) Call(ctx context.Context, svc string, params any) (json.RawMessage, error) {
	start := time.Now()
	body, err := c.call(ctx, svc, params)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.recorder.ObserveCall(svc, outcome, time.Since(start))
	return body, err
}

func (c *Client) call(ctx context.Context, svc string, params any) (json.RawMessage, error) {
	for attempt := 0; ; attempt++ {
		sid, err := c.session.Credential(ctx)
		if err != nil {
			return nil, err
		}

		body, err := c.tr.get(ctx, c.timeout, svc, params, sid)
		if err != nil {
			return nil, err
		}

		env, failed := errorEnvelope(body)
		if !failed {
			return body, nil
		}

		if attempt < maxSessionRetries && sessionErrorCodes[env.Error] {
			log.WithFields(log.Fields{"service": svc, "code": env.Error}).Warn("wialon: session rejected, logging in again")
			c.recorder.ObserveRetry(svc)
			c.session.Invalidate()
			continue
		}
		return nil, &domain.ServiceError{Service: svc, Code: env.Error, Reason: env.Reason}
	}
}
