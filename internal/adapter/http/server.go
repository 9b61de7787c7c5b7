// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"taskbook/internal/app"
	"taskbook/internal/domain"
)

const (
	apiPrefix         = "/api/v1"
	sessionCookieName = "session"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth   *app.AuthService
	tokens *app.TokenService
	items  *app.ItemService
	oidc   *OIDCConfig
	webDir string
}

// New creates a Server wired to the given application services. oidc
// may be nil when SSO is not configured.
func New(auth *app.AuthService, tokens *app.TokenService, items *app.ItemService, oidc *OIDCConfig, webDir string) *Server {
	if oidc == nil {
		oidc = &OIDCConfig{}
	}
	return &Server{auth: auth, tokens: tokens, items: items, oidc: oidc, webDir: webDir}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /{$}", s.handleAPIIndex)
	api.HandleFunc("POST /oauth/token", s.handleIssueToken)

	protect := func(pattern string, h http.HandlerFunc) {
		api.Handle(pattern, s.requireToken(h))
	}
	protect("GET /user", s.handleAPIUser)
	protect("GET /user/items", s.handleAPIListItems(domain.FilterAll, "/user/items"))
	protect("POST /user/items", s.handleAPICreateItem)
	protect("GET /user/items/active", s.handleAPIListItems(domain.FilterActive, "/user/items/active"))
	protect("GET /user/items/completed", s.handleAPIListItems(domain.FilterCompleted, "/user/items/completed"))
	protect("DELETE /user/items/completed", s.handleAPIClearCompleted)
	protect("GET /user/items/{id}", s.handleAPIGetItem)
	protect("PUT /user/items/{id}", s.handleAPIEditItem)
	protect("PATCH /user/items/{id}", s.handleAPIToggleItem)
	protect("DELETE /user/items/{id}", s.handleAPIDeleteItem)

	web := http.NewServeMux()
	// Login and register are CSRF-checked too: a forged login would bind
	// the victim's browser to an attacker-controlled account. The SPA
	// shell GET issues the cookie before either form is submitted.
	web.Handle("POST /register", requireCSRF(http.HandlerFunc(s.handleRegister)))
	web.Handle("POST /login", requireCSRF(http.HandlerFunc(s.handleLogin)))
	web.HandleFunc("GET /logout", s.handleLogout)
	web.HandleFunc("GET /set-locale/{locale}", s.handleSetLocale)
	web.HandleFunc("GET /sso/login", s.handleSSOLogin)
	web.HandleFunc("GET /sso/callback", s.handleSSOCallback)

	guard := func(pattern string, h http.HandlerFunc) {
		web.Handle(pattern, requireCSRF(s.requireSession(h)))
	}
	guard("POST /item/new", s.handleNewItem)
	guard("PUT /item/{id}/edit", s.handleEditItem)
	guard("PATCH /item/{id}/toggle", s.handleToggleItem)
	guard("DELETE /item/{id}/delete", s.handleDeleteItem)
	guard("DELETE /item/clear", s.handleClearItems)
	web.Handle("GET /item/count", s.requireSession(http.HandlerFunc(s.handleItemCount)))

	web.Handle("GET /", s.spaFromDisk())

	root := http.NewServeMux()
	root.Handle(apiPrefix+"/", http.StripPrefix(apiPrefix, withCORS(api)))
	root.Handle("/", web)

	return s.loggingMiddleware(root)
}
