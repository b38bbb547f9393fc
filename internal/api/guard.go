package api

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/starford/dagaz/internal/auth"
)

// RouteGuard intercepts page navigation in front of the frontend mount.
// Three path classes exist: auth pages (login/register), protected pages
// (the note editor), and everything else. Authenticated users are
// redirected away from auth pages; unauthenticated users are redirected
// from protected pages to the login page, carrying the original URL as
// a callback parameter. The decision is made fresh per request from the
// session token alone.
//
// API routes, health checks, and static assets are excluded from the
// matcher and pass through untouched.
func RouteGuard(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := r.URL.Path
			if guardExempt(p) {
				next.ServeHTTP(w, r)
				return
			}

			_, loggedIn := sessions.Resolve(r)

			if isAuthPage(p) {
				if loggedIn {
					http.Redirect(w, r, "/", http.StatusFound)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if isProtectedPage(p) && !loggedIn {
				target := p
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, "/login?callbackUrl="+url.QueryEscape(target), http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func guardExempt(p string) bool {
	if strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/health/") {
		return true
	}
	// Static assets (anything with a file extension) are not pages.
	return path.Ext(p) != ""
}

func isAuthPage(p string) bool {
	return strings.HasPrefix(p, "/login") || strings.HasPrefix(p, "/register")
}

func isProtectedPage(p string) bool {
	return strings.HasPrefix(p, "/note")
}
