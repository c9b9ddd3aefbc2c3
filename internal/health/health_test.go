package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func serve(t *testing.T, h *Handler, path string) (int, result) {
	t.Helper()
	mux := http.NewServeMux()
	h.Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body result
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return rec.Code, body
}

func TestHealthz_AlwaysOK(t *testing.T) {
	t.Parallel()
	h := New(Checker{Name: "broken", Check: func(context.Context) error { return errors.New("x") }})
	h.SetDraining()

	code, body := serve(t, h, "/healthz")
	if code != http.StatusOK || body.Status != "ok" {
		t.Errorf("got %d %q, want 200 ok", code, body.Status)
	}
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name     string
		checkers []Checker
		wantCode int
		want     map[string]string
	}{
		{"no checkers", nil, http.StatusOK, nil},
		{"all pass", []Checker{{"catalog", ok}, {"discord", ok}}, http.StatusOK,
			map[string]string{"catalog": "ok", "discord": "ok"}},
		{"one fails", []Checker{{"catalog", ok}, {"discord", fail}}, http.StatusServiceUnavailable,
			map[string]string{"catalog": "ok", "discord": "fail: connection refused"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			code, body := serve(t, New(tc.checkers...), "/readyz")
			if code != tc.wantCode {
				t.Errorf("status = %d, want %d", code, tc.wantCode)
			}
			for k, v := range tc.want {
				if body.Checks[k] != v {
					t.Errorf("checks[%q] = %q, want %q", k, body.Checks[k], v)
				}
			}
		})
	}
}

func TestReadyz_IntentsLoaded(t *testing.T) {
	t.Parallel()

	var n atomic.Int64
	h := New(IntentsLoaded(func() int { return int(n.Load()) }))

	if code, body := serve(t, h, "/readyz"); code != http.StatusServiceUnavailable || body.Checks["catalog"] != "fail: no intents loaded" {
		t.Errorf("empty catalog: got %d %v", code, body.Checks)
	}

	n.Store(12)
	if code, _ := serve(t, h, "/readyz"); code != http.StatusOK {
		t.Errorf("loaded catalog: status = %d, want 200", code)
	}
}

func TestReadyz_Draining(t *testing.T) {
	t.Parallel()

	h := New()
	h.SetDraining()
	code, body := serve(t, h, "/readyz")
	if code != http.StatusServiceUnavailable || body.Status != "fail" {
		t.Errorf("got %d %q, want 503 fail", code, body.Status)
	}
	if body.Checks["shutdown"] != "fail: draining" {
		t.Errorf("checks = %v", body.Checks)
	}
}

func TestReadyz_CheckerGetsDeadline(t *testing.T) {
	t.Parallel()

	h := New(Checker{Name: "slow", Check: func(ctx context.Context) error {
		dl, ok := ctx.Deadline()
		if !ok || time.Until(dl) > checkTimeout {
			return errors.New("missing deadline")
		}
		return nil
	}})
	if code, body := serve(t, h, "/readyz"); code != http.StatusOK {
		t.Errorf("status = %d, checks = %v", code, body.Checks)
	}
}
