package wialon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakePlatform answers token/login and routes every other service to a
// per-test handler.
type fakePlatform struct {
	mu       sync.Mutex
	logins   int
	sids     []string
	services []string

	loginFn func(token string) (int, string)
	callFn  func(svc, params, sid string) (int, string)
}

func newFakePlatform(t *testing.T) (*fakePlatform, *httptest.Server) {
	t.Helper()
	f := &fakePlatform{
		loginFn: func(string) (int, string) { return http.StatusOK, `{"eid":"sid-1"}` },
		callFn:  func(string, string, string) (int, string) { return http.StatusOK, `{}` },
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakePlatform) serve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	svc := q.Get("svc")

	var status int
	var body string
	if svc == loginService {
		var p struct {
			Token string `json:"token"`
		}
		_ = json.Unmarshal([]byte(q.Get("params")), &p)

		f.mu.Lock()
		f.logins++
		f.mu.Unlock()
		status, body = f.loginFn(p.Token)
	} else {
		f.mu.Lock()
		f.sids = append(f.sids, q.Get("sid"))
		f.services = append(f.services, svc)
		f.mu.Unlock()
		status, body = f.callFn(svc, q.Get("params"), q.Get("sid"))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (f *fakePlatform) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakePlatform) callSIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sids...)
}
