package collect

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter paces requests per job board host. Hosts without an
// override share the default rate, each with its own bucket.
type HostLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rate.Limiter
	overrides map[string]rate.Limit
	def       rate.Limit
	burst     int
}

func NewHostLimiter(perSec float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		buckets:   map[string]*rate.Limiter{},
		overrides: map[string]rate.Limit{},
		def:       rate.Limit(perSec),
		burst:     burst,
	}
}

// SetHostRate slows down (or speeds up) one host. It applies to buckets
// created afterwards and to an existing bucket for that host.
func (hl *HostLimiter) SetHostRate(host string, perSec float64) {
	host = hostKey(host)
	hl.mu.Lock()
	defer hl.mu.Unlock()
	hl.overrides[host] = rate.Limit(perSec)
	if b, ok := hl.buckets[host]; ok {
		b.SetLimit(rate.Limit(perSec))
	}
}

func (hl *HostLimiter) bucket(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	if b, ok := hl.buckets[host]; ok {
		return b
	}
	r := hl.def
	if o, ok := hl.overrides[host]; ok {
		r = o
	}
	b := rate.NewLimiter(r, hl.burst)
	hl.buckets[host] = b
	return b
}

// WaitURL blocks until a request to raw's host may go out.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	host := "_"
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = hostKey(u.Hostname())
	}
	if err := hl.bucket(host).Wait(ctx); err != nil {
		return fmt.Errorf("wait for %s: %w", host, err)
	}
	return nil
}

func hostKey(h string) string {
	return strings.TrimPrefix(strings.ToLower(h), "www.")
}
