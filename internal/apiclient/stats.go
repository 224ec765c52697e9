package apiclient

import (
	"context"
	"net/http"

	"vagas-dashboard/internal/domain"
)

func (c *Client) GetStats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	err := c.do(ctx, http.MethodGet, "/stats/", nil, nil, &s)
	return s, err
}

// Health succeeds on any 2xx from /health; the body is ignored.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}
