package httpapi

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"vagas-dashboard/internal/app"
	"vagas-dashboard/internal/domain"
)

type ListingsHandler struct {
	Root *app.Root
}

// StatusByPath handles POST /vagas/{id}/status with form field "status".
func (h ListingsHandler) StatusByPath(w http.ResponseWriter, r *http.Request) {
	id, rest, ok := IDFromPath(r.URL.Path, "/vagas/")
	if !ok || rest != "status" {
		WriteError(w, r, http.StatusNotFound, "not_found", "expected /vagas/{id}/status")
		return
	}
	if !h.Root.Ready() {
		WriteError(w, r, http.StatusServiceUnavailable, "not_ready", "bootstrap has not completed")
		return
	}
	if err := r.ParseForm(); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_form", err.Error())
		return
	}
	status, err := domain.ParseStatus(r.PostForm.Get("status"))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}

	// Failures are already logged by the card; the page re-renders the
	// unchanged state.
	err = h.Root.Dashboard().SetStatus(r.Context(), id, status)
	if wantsJSON(r) {
		if err != nil {
			writeBackendError(w, r, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true, "id": id, "status": status})
		return
	}
	if err != nil {
		log.WithField("request_id", RequestIDFrom(r.Context())).Debug("status change failed, redirecting anyway")
	}
	seeOther(w, r)
}
