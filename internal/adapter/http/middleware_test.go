package adapthttp

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"BEARER abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"Bearer  abc", "abc"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		if got := bearerToken(r); got != tc.want {
			t.Errorf("header %q: got %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestEnsureCSRFCookie(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	ensureCSRFCookie(w, r)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != csrfCookieName {
		t.Fatalf("expected a %s cookie, got %v", csrfCookieName, cookies)
	}
	if cookies[0].Value == "" {
		t.Error("expected a non-empty token")
	}

	// A request that already carries the cookie is left alone.
	r = httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: cookies[0].Value})
	w = httptest.NewRecorder()
	ensureCSRFCookie(w, r)
	if len(w.Result().Cookies()) != 0 {
		t.Error("expected no new cookie")
	}
}

func TestRequireCSRF(t *testing.T) {
	ok := false
	h := requireCSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok = true
	}))

	r := httptest.NewRequest("POST", "/item/new", nil)
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "tok"})
	r.Header.Set("X-CSRF-Token", "different")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if ok || w.Code != http.StatusForbidden {
		t.Fatalf("mismatched token: expected 403, got %d (handler ran: %v)", w.Code, ok)
	}

	r = httptest.NewRequest("POST", "/item/new", nil)
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "tok"})
	r.Header.Set("X-CSRF-Token", "tok")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if !ok || w.Code != http.StatusOK {
		t.Fatalf("matching token: expected pass, got %d", w.Code)
	}
}
