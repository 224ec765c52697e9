// Package bootstrap runs the fixed health-check sequence that gates the
// dashboard.
//
// Steps run strictly in order (connectivity, data layer, stats endpoint);
// a later check is meaningless while an earlier one fails, so the first
// failure halts the sequence until the user retries.
package bootstrap

import (
	"context"

	"vagas-dashboard/internal/domain"
)

type StepID string

const (
	StepAPI      StepID = "api"
	StepDatabase StepID = "database"
	StepStats    StepID = "stats"
)

// Checker is the subset of the API client the checks need.
type Checker interface {
	Health(ctx context.Context) error
	PingListings(ctx context.Context) error
	GetStats(ctx context.Context) (domain.Stats, error)
}

type Step struct {
	ID       StepID
	Label    string
	Endpoint string
	Run      func(ctx context.Context, c Checker) error
}

// DefaultSteps is the fixed check list, in execution order.
var DefaultSteps = []Step{
	{
		ID: StepAPI, Label: "Conectando ao servidor", Endpoint: "/health",
		Run: func(ctx context.Context, c Checker) error { return c.Health(ctx) },
	},
	{
		ID: StepDatabase, Label: "Verificando banco de dados", Endpoint: "/vagas/?limit=1",
		Run: func(ctx context.Context, c Checker) error { return c.PingListings(ctx) },
	},
	{
		ID: StepStats, Label: "Carregando estatísticas", Endpoint: "/stats/",
		Run: func(ctx context.Context, c Checker) error {
			_, err := c.GetStats(ctx)
			return err
		},
	},
}
