package httpapi

import (
	"context"
	"errors"
	"net/http"

	"vagas-dashboard/internal/app"
	"vagas-dashboard/internal/dashboard"
)

type CollectHandler struct {
	Root *app.Root
}

func (h CollectHandler) Status(w http.ResponseWriter, r *http.Request) {
	s := h.Root.Dashboard().Snapshot()
	st := collectStatus{Running: s.Collecting}
	if s.Message != nil {
		st.Message = s.Message.Text
		st.Kind = string(s.Message.Kind)
	}
	writeJSON(w, st)
}

// Run starts a collection in the background. The scrape outlives the
// request, so it runs on a context detached from cancellation.
func (h CollectHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.Root.Ready() {
		WriteError(w, r, http.StatusServiceUnavailable, "not_ready", "bootstrap has not completed")
		return
	}

	err := h.Root.Dashboard().StartCollect(context.WithoutCancel(r.Context()))
	if errors.Is(err, dashboard.ErrCollecting) {
		WriteError(w, r, http.StatusConflict, "already_running", "a collection is already running")
		return
	}
	if wantsJSON(r) {
		WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
		return
	}
	seeOther(w, r)
}
