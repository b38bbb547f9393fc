package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/auth"
)

func guardEnv(t *testing.T) (http.Handler, *auth.Sessions) {
	t.Helper()
	sessions := auth.NewSessions([]byte("test-secret-0123456789"), time.Hour)
	pages := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("page"))
	})
	return RouteGuard(sessions)(pages), sessions
}

func get(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGuardRedirectsAnonymousFromProtectedPage(t *testing.T) {
	h, _ := guardEnv(t)

	w := get(t, h, "/note", "")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login?callbackUrl=%2Fnote" {
		t.Errorf("location = %q", loc)
	}
}

func TestGuardPreservesQueryInCallback(t *testing.T) {
	h, _ := guardEnv(t)

	w := get(t, h, "/note?id=abc", "")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login?callbackUrl=%2Fnote%3Fid%3Dabc" {
		t.Errorf("location = %q", loc)
	}
}

func TestGuardRedirectsAuthenticatedFromAuthPages(t *testing.T) {
	h, sessions := guardEnv(t)
	token, err := sessions.Sign("user-1")
	if err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{"/login", "/register"} {
		w := get(t, h, path, token)
		if w.Code != http.StatusFound {
			t.Errorf("%s status = %d, want 302", path, w.Code)
			continue
		}
		if loc := w.Header().Get("Location"); loc != "/" {
			t.Errorf("%s location = %q, want /", path, loc)
		}
	}
}

func TestGuardPassThrough(t *testing.T) {
	h, sessions := guardEnv(t)
	token, err := sessions.Sign("user-1")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name, path, token string
	}{
		{"anonymous home", "/", ""},
		{"anonymous login", "/login", ""},
		{"authenticated note", "/note", token},
		{"authenticated home", "/", token},
		{"static asset", "/favicon.ico", ""},
		{"bundled js", "/assets/app.js", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := get(t, h, tc.path, tc.token)
			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", w.Code)
			}
		})
	}
}

func TestGuardStaleTokenTreatedAsAnonymous(t *testing.T) {
	h, _ := guardEnv(t)
	expired := auth.NewSessions([]byte("test-secret-0123456789"), -time.Minute)
	token, err := expired.Sign("user-1")
	if err != nil {
		t.Fatal(err)
	}

	w := get(t, h, "/note", token)
	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want 302 for expired session", w.Code)
	}
}
