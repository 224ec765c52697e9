package httpapi

import (
	"net/http"

	"vagas-dashboard/internal/app"
	"vagas-dashboard/internal/events"
	"vagas-dashboard/internal/filter"
)

type PageHandler struct {
	Root       *app.Root
	Pages      *Pages
	Hub        *events.Hub
	APIBaseURL string
}

// Index renders the loading screen until bootstrap completes, then the
// dashboard. Filter parameters in the query replace the selection; a
// query without any of them keeps the current one.
func (h PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, "not_found", "page not found")
		return
	}

	// read before the snapshot: a change racing the render only costs a reload
	since := h.seenSeq()

	if !h.Root.Ready() {
		seq := h.Root.Sequencer()
		v := newLoadingView(seq.Steps(), seq.Snapshot(), h.APIBaseURL)
		v.Seq = since
		h.Pages.Render(w, r, http.StatusOK, pageLoading, v)
		return
	}

	d := h.Root.Dashboard()
	if hasFilterParams(r) {
		d.SetSelection(r.Context(), filter.FromQuery(r.URL.Query()))
		since = h.seenSeq()
	}
	v := newDashboardView(d.Snapshot())
	v.Seq = since
	h.Pages.Render(w, r, http.StatusOK, pageDashboard, v)
}

func (h PageHandler) seenSeq() uint64 {
	if h.Hub == nil {
		return 0
	}
	return h.Hub.Seq()
}

func (h PageHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	if !h.Root.Ready() {
		WriteError(w, r, http.StatusServiceUnavailable, "not_ready", "bootstrap has not completed")
		return
	}
	h.Root.Dashboard().ClearFilters(r.Context())
	seeOther(w, r)
}

func hasFilterParams(r *http.Request) bool {
	q := r.URL.Query()
	for _, d := range filter.Dimensions {
		if q.Has(string(d)) {
			return true
		}
	}
	return false
}
