package adapthttp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log"
	"net/http"
	"strings"
	"time"

	"taskbook/internal/app"
	"taskbook/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// actorFrom returns the authenticated user attached by one of the auth
// middlewares.
func actorFrom(r *http.Request) *domain.User {
	u, _ := r.Context().Value(userContextKey).(*domain.User)
	return u
}

func withActor(r *http.Request, u *domain.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userContextKey, u))
}

// requireSession resolves the session cookie to a user, for the web
// surface.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"code": "login_required", "message": "please log in"})
			return
		}

		user, err := s.auth.ValidateSession(r.Context(), cookie.Value)
		if user == nil {
			if err != nil && !isAuthFailure(err) {
				writeJSON(w, http.StatusInternalServerError, map[string]any{"code": "internal", "message": "internal error"})
				return
			}
			writeJSON(w, http.StatusUnauthorized, map[string]any{"code": "login_required", "message": "please log in"})
			return
		}

		next.ServeHTTP(w, withActor(r, user))
	})
}

// requireToken resolves an Authorization bearer header to a user, for
// the API surface. Every rejection looks the same to the caller: a 401
// with a bearer challenge.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)

		user, err := s.tokens.Validate(r.Context(), token)
		if user == nil {
			if err != nil && !isAuthFailure(err) {
				writeJSON(w, http.StatusInternalServerError, map[string]any{"code": "internal", "message": "internal error"})
				return
			}
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeJSON(w, http.StatusUnauthorized, map[string]any{"code": "invalid_token", "message": "bearer token missing, invalid, or expired"})
			return
		}

		next.ServeHTTP(w, withActor(r, user))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func isAuthFailure(err error) bool {
	switch app.KindOf(err) {
	case app.KindUnauthenticated, app.KindForbidden, app.KindNotFound, app.KindValidation:
		return true
	}
	return false
}

const csrfCookieName = "csrf_token"

// ensureCSRFCookie hands the browser a CSRF token it can echo back in
// a header. The cookie is readable by page scripts on purpose.
func ensureCSRFCookie(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(csrfCookieName); err == nil && c.Value != "" {
		return
	}
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    base64.URLEncoding.EncodeToString(b),
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	})
}

// requireCSRF enforces the double-submit check on state-changing web
// routes. The API surface never passes through here: it carries no
// cookie identity, so forgery does not apply.
func requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(csrfCookieName)
		header := r.Header.Get("X-CSRF-Token")
		if err != nil || cookie.Value == "" || header == "" ||
			subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
			writeJSON(w, http.StatusForbidden, map[string]any{"code": "csrf_mismatch", "message": "missing or invalid CSRF token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withCORS opens the API surface to cross-origin callers.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
