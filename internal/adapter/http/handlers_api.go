package adapthttp

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"taskbook/internal/app"
	"taskbook/internal/domain"
)

func itemJSON(it *domain.Item) map[string]any {
	return map[string]any{
		"id":         it.ID,
		"self":       fmt.Sprintf("%s/user/items/%d", apiPrefix, it.ID),
		"body":       it.Body,
		"done":       it.Done,
		"created_at": it.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func itemsJSON(page *app.Page, route string) map[string]any {
	items := make([]map[string]any, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, itemJSON(&page.Items[i]))
	}

	var prev, next any
	if page.HasPrev {
		prev = fmt.Sprintf("%s%s?page=%d", apiPrefix, route, page.Number-1)
	}
	if page.HasNext {
		next = fmt.Sprintf("%s%s?page=%d", apiPrefix, route, page.Number+1)
	}

	return map[string]any{
		"items": items,
		"count": page.Total,
		"page":  page.Number,
		"prev":  prev,
		"next":  next,
	}
}

func (s *Server) handleAPIIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"api_version":                      "1.0",
		"authentication_url":               apiPrefix + "/oauth/token",
		"current_user_url":                 apiPrefix + "/user",
		"current_user_items_url":           apiPrefix + "/user/items{?page}",
		"current_user_active_items_url":    apiPrefix + "/user/items/active{?page}",
		"current_user_completed_items_url": apiPrefix + "/user/items/completed{?page}",
		"item_url":                         apiPrefix + "/user/items/{item_id}",
	})
}

// handleIssueToken implements the password grant. Bad grant types and
// bad credentials both come back as 400 with a generic message.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "invalid_request", "message": "malformed form body"})
		return
	}

	grantType := r.PostFormValue("grant_type")
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if !strings.EqualFold(grantType, "password") {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "unsupported_grant_type", "message": "grant type must be password"})
		return
	}

	user, err := s.auth.CheckPassword(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"code": "invalid_grant", "message": "invalid username or password"})
			return
		}
		writeError(w, err)
		return
	}

	token, expiresIn, err := s.tokens.Issue(user)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	})
}

func (s *Server) handleAPIUser(w http.ResponseWriter, r *http.Request) {
	u := actorFrom(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"locale":     u.Locale,
		"created_at": u.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAPIListItems(filter domain.ItemFilter, route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.items.List(r.Context(), actorFrom(r).ID, filter, intQuery(r, "page", 1))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, itemsJSON(page, route))
	}
}

func (s *Server) handleAPICreateItem(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Location", fmt.Sprintf("%s/user/items/%d", apiPrefix, item.ID))
	writeJSON(w, http.StatusCreated, itemJSON(item))
}

func (s *Server) handleAPIGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, app.ErrItemNotFound)
		return
	}
	item, err := s.items.Get(r.Context(), actorFrom(r).ID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemJSON(item))
}

func (s *Server) handleAPIEditItem(w http.ResponseWriter, r *http.Request) {
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
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIToggleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, app.ErrItemNotFound)
		return
	}
	if _, err := s.items.Toggle(r.Context(), actorFrom(r).ID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, app.ErrItemNotFound)
		return
	}
	if err := s.items.Delete(r.Context(), actorFrom(r).ID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIClearCompleted(w http.ResponseWriter, r *http.Request) {
	if _, err := s.items.ClearCompleted(r.Context(), actorFrom(r).ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
