package httpapi

import (
	"sync/atomic"

	"vagas-dashboard/internal/app"
	"vagas-dashboard/internal/events"
)

type Deps struct {
	Root *app.Root
	Hub  *events.Hub

	// CfgVal stores the effective config.Config.
	CfgVal      *atomic.Value
	UserCfgPath string

	// APIBaseURL is shown on the loading screen.
	APIBaseURL string
}
