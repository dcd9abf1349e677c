package wialon

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Zavalalgamer/wialon-backend/module/core/domain"
)

const (
	// SessionTTL is how long a session id is reused before logging in again,
	// regardless of whether the platform has rejected it yet.
	SessionTTL = 240 * time.Second

	loginService = "token/login"

	// errInvalidInput is the platform's code for a malformed parameter.
	errInvalidInput = 4
)

// Session holds the single cached session id. It is safe for concurrent use;
// concurrent callers that find the slot stale may each log in, and the last
// writer wins.
type Session struct {
	token    string
	tr       *transport
	timeout  time.Duration
	recorder Recorder
	now      func() time.Time

	mu         sync.Mutex
	sid        string
	obtainedAt time.Time
}

func newSession(token string, tr *transport, timeout time.Duration, recorder Recorder) *Session {
	return &Session{
		token:    token,
		tr:       tr,
		timeout:  timeout,
		recorder: recorder,
		now:      time.Now,
	}
}

// Credential returns a session id no older than SessionTTL, logging in when
// the slot is empty or stale.
func (s *Session) Credential(ctx context.Context) (string, error) {
	if sid, ok := s.cached(); ok {
		return sid, nil
	}

	if s.token == "" {
		return "", &domain.ConfigError{Msg: "WIALON_TOKEN is not set"}
	}

	sid, err := s.login(ctx)
	if err != nil {
		s.recorder.ObserveLogin("error")
		return "", err
	}
	s.recorder.ObserveLogin("ok")

	s.mu.Lock()
	s.sid = sid
	s.obtainedAt = s.now()
	s.mu.Unlock()
	return sid, nil
}

// Invalidate drops the cached session id.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.sid = ""
	s.obtainedAt = time.Time{}
	s.mu.Unlock()
}

func (s *Session) cached() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sid == "" || s.now().Sub(s.obtainedAt) >= SessionTTL {
		return "", false
	}
	return s.sid, true
}

type loginResponse struct {
	EID string `json:"eid"`
	SID string `json:"sid"`
}

func (s *Session) login(ctx context.Context) (string, error) {
	log.Debug("wialon: logging in")

	body, err := s.tr.get(ctx, s.timeout, loginService, map[string]string{"token": s.token}, "")
	if err != nil {
		return "", &domain.AuthError{Detail: "request failed", Err: err}
	}

	if env, ok := errorEnvelope(body); ok {
		if isParamFormatError(env) {
			// Some deployments configure a raw session id instead of a token.
			log.WithField("code", env.Error).Warn("wialon: token rejected as malformed, using it as a session id")
			return s.token, nil
		}
		return "", &domain.AuthError{Detail: string(body)}
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &domain.AuthError{Detail: string(body), Err: fmt.Errorf("decode login response: %w", err)}
	}
	switch {
	case resp.EID != "":
		return resp.EID, nil
	case resp.SID != "":
		return resp.SID, nil
	default:
		return "", &domain.AuthError{Detail: string(body)}
	}
}

func isParamFormatError(env envelope) bool {
	return env.Error == errInvalidInput || strings.Contains(strings.ToLower(env.Reason), "format")
}
