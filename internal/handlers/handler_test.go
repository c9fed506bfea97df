package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flashdeck/backend/internal/auth"
	"github.com/flashdeck/backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testUserID  = "5f1c8d2e-0a4b-4c6d-9e8f-1a2b3c4d5e6f"
	testDeckID  = "0c9d8e7f-6a5b-4c3d-2e1f-0a9b8c7d6e5f"
	testPairID  = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
	testGuestID = "3f2e1d0c-9b8a-4765-8432-10fedcba9876"
)

var testTokens = auth.NewTokenGenerator("handler-test-secret", time.Hour, 24*time.Hour)

// registrar is implemented by every handler
type registrar interface {
	RegisterRoutes(r chi.Router, auth RouteAuth)
}

func newTestRouter(h registrar) chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r, RouteAuth{
		Required: middleware.AuthMiddleware(testTokens),
		Optional: middleware.OptionalAuthMiddleware(testTokens),
	})
	return r
}

// bearer returns an Authorization header value for the test user
func bearer(t *testing.T) string {
	t.Helper()
	access, _, err := testTokens.GenerateTokens(testUserID, "user@example.com")
	require.NoError(t, err)
	return "Bearer " + access
}

func doRequest(t *testing.T, r http.Handler, method, target, body string, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", bearer(t))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Path    string `json:"path"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var testLogger = zap.NewNop()

func newRequestWithCookie(method, target, name, value string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: name, Value: value})
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
