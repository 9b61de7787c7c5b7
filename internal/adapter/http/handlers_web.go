package adapthttp

import (
	"net/http"
	"os"
	"path"

	"taskbook/internal/app"
)

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "invalid_request", "message": err.Error()})
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"username": user.Username,
		"message":  "account created, you can log in now",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "invalid_request", "message": err.Error()})
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	setSessionCookie(w, token)
	ensureCSRFCookie(w, r)
	writeJSON(w, http.StatusOK, map[string]any{"message": "logged in"})
}

// handleLogout ends the session. Calling it without one, or twice, is
// fine.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		_ = s.auth.Logout(r.Context(), cookie.Value)
	}
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"message": "logged out"})
}

func (s *Server) handleNewItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "invalid_request", "message": err.Error()})
		return
	}

	item, err := s.items.Create(r.Context(), actorFrom(r).ID, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"item": itemJSON(item), "message": "+1"})
}

func (s *Server) handleEditItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, app.ErrItemNotFound)
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "invalid_request", "message": err.Error()})
		return
	}
	if err := s.items.EditBody(r.Context(), actorFrom(r).ID, id, req.Body); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "item updated"})
}

func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, app.ErrItemNotFound)
		return
	}
	done, err := s.items.Toggle(r.Context(), actorFrom(r).ID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"done": done, "message": "item toggled"})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, app.ErrItemNotFound)
		return
	}
	if err := s.items.Delete(r.Context(), actorFrom(r).ID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "item deleted"})
}

func (s *Server) handleClearItems(w http.ResponseWriter, r *http.Request) {
	cleared, err := s.items.ClearCompleted(r.Context(), actorFrom(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cleared": cleared, "message": "completed items cleared"})
}

func (s *Server) handleItemCount(w http.ResponseWriter, r *http.Request) {
	all, active, completed, err := s.items.Counts(r.Context(), actorFrom(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"all":       all,
		"active":    active,
		"completed": completed,
	})
}

// handleSetLocale stores the preference on the user when logged in,
// otherwise in a cookie.
func (s *Server) handleSetLocale(w http.ResponseWriter, r *http.Request) {
	locale := r.PathValue("locale")
	if !app.ValidLocale(locale) {
		writeJSON(w, http.StatusNotFound, map[string]any{"code": "unknown_locale", "message": "unsupported locale"})
		return
	}

	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if user, err := s.auth.ValidateSession(r.Context(), cookie.Value); err == nil && user != nil {
			if err := s.auth.SetLocale(r.Context(), user.ID, locale); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"message": "locale updated"})
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "locale",
		Value:  locale,
		Path:   "/",
		MaxAge: 60 * 60 * 24 * 30,
	})
	writeJSON(w, http.StatusOK, map[string]any{"message": "locale updated"})
}

// spaFromDisk serves the single-page shell; page rendering itself is a
// client concern.
func (s *Server) spaFromDisk() http.Handler {
	fileServer := http.FileServer(http.Dir(s.webDir))
	indexPath := path.Join(s.webDir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ensureCSRFCookie(w, r)

		reqPath := path.Clean(r.URL.Path)
		if reqPath == "/" {
			http.ServeFile(w, r, indexPath)
			return
		}

		staticPath := path.Join(s.webDir, reqPath)
		if _, err := os.Stat(staticPath); err == nil {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, indexPath)
	})
}
