package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testSessions(ttl time.Duration) *Sessions {
	return NewSessions([]byte("test-secret-0123456789"), ttl)
}

func TestSignAndParse(t *testing.T) {
	s := testSessions(time.Hour)

	tok, err := s.Sign("user-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := s.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("user id = %q, want user-1", claims.UserID)
	}
}

func TestParseExpiredToken(t *testing.T) {
	s := testSessions(-time.Minute)

	tok, err := s.Sign("user-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Parse(tok); err == nil {
		t.Error("expired token parsed successfully")
	}
}

func TestParseGarbage(t *testing.T) {
	s := testSessions(time.Hour)
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := s.Parse(tok); err == nil {
			t.Errorf("Parse(%q) succeeded", tok)
		}
	}
}

func TestParseWrongSecret(t *testing.T) {
	s := testSessions(time.Hour)
	other := NewSessions([]byte("another-secret-entirely"), time.Hour)

	tok, err := other.Sign("user-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Parse(tok); err == nil {
		t.Error("token signed with a different secret parsed successfully")
	}
}

func TestResolveFromHeaderAndCookie(t *testing.T) {
	s := testSessions(time.Hour)
	tok, err := s.Sign("user-7")
	if err != nil {
		t.Fatal(err)
	}

	// Bearer header.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	if id, ok := s.Resolve(r); !ok || id != "user-7" {
		t.Errorf("header resolve = %q, %v", id, ok)
	}

	// Cookie.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	if id, ok := s.Resolve(r); !ok || id != "user-7" {
		t.Errorf("cookie resolve = %q, %v", id, ok)
	}

	// Neither.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := s.Resolve(r); ok {
		t.Error("resolved identity from bare request")
	}
}

func TestCookieLifecycle(t *testing.T) {
	s := testSessions(time.Hour)
	w := httptest.NewRecorder()
	s.SetCookie(w, "tok")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].Value != "tok" {
		t.Fatalf("cookies = %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	w = httptest.NewRecorder()
	s.ClearCookie(w)
	cookies = w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("clear cookies = %+v", cookies)
	}
}
