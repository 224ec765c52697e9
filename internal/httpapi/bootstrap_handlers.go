package httpapi

import (
	"net/http"

	"vagas-dashboard/internal/app"
	"vagas-dashboard/internal/bootstrap"
)

type BootstrapHandler struct {
	Root *app.Root
}

type stepInfo struct {
	ID       bootstrap.StepID    `json:"id"`
	Label    string              `json:"label"`
	Endpoint string              `json:"endpoint"`
	State    bootstrap.StepState `json:"state"`
}

func (h BootstrapHandler) Status(w http.ResponseWriter, r *http.Request) {
	seq := h.Root.Sequencer()
	p := seq.Snapshot()

	steps := make([]stepInfo, 0, len(seq.Steps()))
	for i, s := range seq.Steps() {
		info := stepInfo{ID: s.ID, Label: s.Label, Endpoint: s.Endpoint, State: bootstrap.StatePending}
		if i < len(p.Steps) {
			info.State = p.Steps[i]
		}
		steps = append(steps, info)
	}

	writeJSON(w, map[string]any{
		"ready":    h.Root.Ready(),
		"phase":    p.Phase,
		"percent":  p.Percent(),
		"steps":    steps,
		"failure":  p.Failure,
		"progress": p,
	})
}

func (h BootstrapHandler) Retry(w http.ResponseWriter, r *http.Request) {
	h.Root.Retry()
	if wantsJSON(r) {
		WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
		return
	}
	seeOther(w, r)
}
