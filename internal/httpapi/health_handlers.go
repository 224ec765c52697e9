package httpapi

import (
	"net/http"

	"vagas-dashboard/internal/app"
)

type HealthHandler struct {
	Root *app.Root
}

// Health reports on this process only; backend health is the loading
// screen's business.
func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"ok": true}
	if h.Root != nil {
		resp["ready"] = h.Root.Ready()
	}
	writeJSON(w, resp)
}
