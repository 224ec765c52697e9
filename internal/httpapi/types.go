package httpapi

import (
	"vagas-dashboard/internal/bootstrap"
	"vagas-dashboard/internal/card"
	"vagas-dashboard/internal/dashboard"
	"vagas-dashboard/internal/domain"
	"vagas-dashboard/internal/filter"
)

const (
	pageLoading   = "loading"
	pageDashboard = "dashboard"
)

type loadingView struct {
	Title      string
	Page       string
	Seq        uint64
	APIBaseURL string
	Steps      []stepView
	Percent    int
	Failure    *bootstrap.Failure
}

type stepView struct {
	Label     string
	State     bootstrap.StepState
	RowClass  string
	TextClass string
	IconClass string
}

var stepClasses = map[bootstrap.StepState][3]string{
	bootstrap.StatePending:    {"bg-gray-50", "text-gray-500", "border-2 border-gray-300"},
	bootstrap.StateInProgress: {"bg-indigo-50", "text-indigo-700", "border-2 border-indigo-500 border-t-transparent animate-spin"},
	bootstrap.StateSuccess:    {"bg-green-50", "text-green-700", "bg-green-500"},
	bootstrap.StateError:      {"bg-red-50", "text-red-700", "bg-red-500"},
}

func newLoadingView(steps []bootstrap.Step, p bootstrap.Progress, apiBase string) loadingView {
	v := loadingView{
		Title:      "Vagas UX Platform",
		Page:       pageLoading,
		APIBaseURL: apiBase,
		Percent:    p.Percent(),
		Failure:    p.Failure,
	}
	for i, s := range steps {
		st := bootstrap.StatePending
		if i < len(p.Steps) {
			st = p.Steps[i]
		}
		c := stepClasses[st]
		v.Steps = append(v.Steps, stepView{
			Label: s.Label, State: st,
			RowClass: c[0], TextClass: c[1], IconClass: c[2],
		})
	}
	return v
}

type dashboardView struct {
	Title      string
	Page       string
	Seq        uint64
	Stats      *statsView
	Filters    []filter.Control
	Cards      []card.View
	Loading    bool
	Collecting bool
	Message    *messageView
}

type statsView struct {
	Total   int
	Pending int
	Applied int
	Last24h int
}

type messageView struct {
	Kind  dashboard.MessageKind
	Text  string
	Class string
}

var messageClasses = map[dashboard.MessageKind]string{
	dashboard.MessageInfo:    "bg-blue-100 text-blue-800",
	dashboard.MessageSuccess: "bg-green-100 text-green-800",
	dashboard.MessageError:   "bg-red-100 text-red-800",
}

func newDashboardView(s dashboard.State) dashboardView {
	v := dashboardView{
		Title:      "Vagas UX",
		Page:       pageDashboard,
		Filters:    filter.Panel(s.Filter),
		Cards:      card.Views(s.Listings),
		Loading:    s.Loading,
		Collecting: s.Collecting,
	}
	if s.Stats != nil {
		v.Stats = &statsView{
			Total:   s.Stats.Total,
			Pending: s.Stats.Count(domain.StatusPending),
			Applied: s.Stats.Count(domain.StatusApplied),
			Last24h: s.Stats.Last24h,
		}
	}
	if m := s.Message; m != nil {
		v.Message = &messageView{Kind: m.Kind, Text: m.Text, Class: messageClasses[m.Kind]}
	}
	return v
}

// collectStatus is the JSON answer of GET /coletar/status.
type collectStatus struct {
	Running bool   `json:"running"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
}
