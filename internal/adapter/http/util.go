package adapthttp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"taskbook/internal/app"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the service error taxonomy to a status code and a
// {code, message} payload. Internal faults are not echoed back.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch app.KindOf(err) {
	case app.KindValidation:
		status = http.StatusBadRequest
		message = app.MessageOf(err)
	case app.KindUnauthenticated:
		status = http.StatusUnauthorized
		message = app.MessageOf(err)
	case app.KindForbidden:
		status = http.StatusForbidden
		message = app.MessageOf(err)
	case app.KindNotFound:
		status = http.StatusNotFound
		message = app.MessageOf(err)
	}

	writeJSON(w, status, map[string]any{"code": app.CodeOf(err), "message": message})
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// pathID parses the {id} path segment. A non-numeric id behaves like a
// missing item.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
