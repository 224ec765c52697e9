// Package dashboard is the state container behind the listings page.
//
// Every mutation goes through a named intent (SetFilter, ClearFilters,
// Refresh, SetStatus, Collect). Views read immutable snapshots and learn
// about changes from the notifier.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"vagas-dashboard/internal/card"
	"vagas-dashboard/internal/domain"
	"vagas-dashboard/internal/events"
	"vagas-dashboard/internal/filter"
)

const DefaultMessageTTL = 5 * time.Second

var ErrCollecting = errors.New("collection already running")

// Backend is the part of the API client the dashboard drives.
type Backend interface {
	ListListings(ctx context.Context, sel filter.Selection) ([]domain.Listing, error)
	GetStats(ctx context.Context) (domain.Stats, error)
	UpdateListingStatus(ctx context.Context, id int64, status domain.Status) (domain.Listing, error)
	TriggerScraper(ctx context.Context, v domain.ScrapeVariant) (domain.ScrapeResult, error)
}

type Notifier interface {
	Notify(typ string, data any)
}

type Options struct {
	MessageTTL time.Duration
	Notifier   Notifier
	// AfterFunc schedules message dismissal; defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func())
}

type Dashboard struct {
	backend   Backend
	ttl       time.Duration
	notifier  Notifier
	afterFunc func(time.Duration, func())

	mu     sync.Mutex
	state  State
	seq    uint64 // last refresh issued
	msgSeq uint64
}

func New(b Backend, opts Options) *Dashboard {
	d := &Dashboard{
		backend:   b,
		ttl:       opts.MessageTTL,
		notifier:  opts.Notifier,
		afterFunc: opts.AfterFunc,
		state:     State{Filter: filter.Selection{}, Listings: []domain.Listing{}},
	}
	if d.ttl <= 0 {
		d.ttl = DefaultMessageTTL
	}
	if d.afterFunc == nil {
		d.afterFunc = func(dur time.Duration, f func()) { time.AfterFunc(dur, f) }
	}
	return d
}

func (d *Dashboard) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.clone()
}

// Refresh fetches listings and stats concurrently and replaces both only
// when both succeed. A failure leaves the previous results in place. A
// refresh overtaken by a newer one is discarded when it lands, so the last
// request issued wins. Callers may ignore the error; it is already logged.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	sel := d.state.Filter
	d.state.Loading = true
	d.mu.Unlock()
	d.changed()

	var (
		listings []domain.Listing
		stats    domain.Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		listings, err = d.backend.ListListings(gctx, sel)
		if err != nil {
			return fmt.Errorf("list listings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stats, err = d.backend.GetStats(gctx)
		if err != nil {
			return fmt.Errorf("get stats: %w", err)
		}
		return nil
	})
	err := g.Wait()

	logger := log.WithFields(log.Fields{"component": "dashboard", "seq": seq, "filter": sel.String()})

	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		logger.Debug("discarding stale refresh")
		return nil
	}
	d.state.Loading = false
	if err == nil {
		if listings == nil {
			listings = []domain.Listing{}
		}
		d.state.Listings = listings
		d.state.Stats = &stats
		d.state.Loaded = true
	}
	d.mu.Unlock()
	d.changed()

	if err != nil {
		logger.WithError(err).Error("refresh failed")
		return err
	}
	logger.WithField("listings", len(listings)).Debug("refreshed")
	return nil
}

// SetSelection replaces the filter selection and refreshes when it
// changed. It reports whether a refresh was issued.
func (d *Dashboard) SetSelection(ctx context.Context, sel filter.Selection) bool {
	d.mu.Lock()
	if d.state.Filter.Equal(sel) {
		d.mu.Unlock()
		return false
	}
	d.state.Filter = filter.Selection{}
	for _, k := range sel.Keys() {
		d.state.Filter = d.state.Filter.With(k, sel.Get(k))
	}
	d.mu.Unlock()

	_ = d.Refresh(ctx)
	return true
}

// SetFilter sets one dimension; the empty value removes it.
func (d *Dashboard) SetFilter(ctx context.Context, dim filter.Dimension, value string) bool {
	d.mu.Lock()
	next := d.state.Filter.With(dim, value)
	d.mu.Unlock()
	return d.SetSelection(ctx, next)
}

func (d *Dashboard) ClearFilters(ctx context.Context) bool {
	return d.SetSelection(ctx, filter.Selection{})
}

// SetStatus updates one listing's review status and, on success, runs
// exactly one full refresh.
func (d *Dashboard) SetStatus(ctx context.Context, id int64, status domain.Status) error {
	return card.ChangeStatus(ctx, d.backend, id, status, func(ctx context.Context) {
		_ = d.Refresh(ctx)
	})
}

// Collect triggers the "all" scraper and waits for it. The result message
// is dismissed after the TTL and a refresh follows whatever the outcome.
func (d *Dashboard) Collect(ctx context.Context) error {
	if !d.claimCollect() {
		return ErrCollecting
	}
	return d.runCollect(ctx)
}

// StartCollect claims the collecting flag synchronously and runs the
// collection in the background.
func (d *Dashboard) StartCollect(ctx context.Context) error {
	if !d.claimCollect() {
		return ErrCollecting
	}
	go func() { _ = d.runCollect(ctx) }()
	return nil
}

func (d *Dashboard) claimCollect() bool {
	d.mu.Lock()
	if d.state.Collecting {
		d.mu.Unlock()
		return false
	}
	d.state.Collecting = true
	d.setMessageLocked(MessageInfo, MsgCollecting)
	d.mu.Unlock()
	d.changed()
	return true
}

func (d *Dashboard) runCollect(ctx context.Context) error {
	logger := log.WithField("component", "dashboard")

	res, err := d.backend.TriggerScraper(ctx, domain.ScrapeAll)

	d.mu.Lock()
	d.state.Collecting = false
	var id uint64
	if err != nil {
		id = d.setMessageLocked(MessageError, MsgCollectFailed)
	} else {
		id = d.setMessageLocked(MessageSuccess, collectedText(res.NewCount()))
	}
	d.mu.Unlock()
	d.changed()

	if err != nil {
		logger.WithError(err).Error("collect failed")
	} else {
		logger.WithField("new", res.NewCount()).Info("collect finished")
	}

	d.afterFunc(d.ttl, func() { d.dismiss(id) })
	_ = d.Refresh(ctx)
	return err
}

func (d *Dashboard) setMessageLocked(kind MessageKind, text string) uint64 {
	d.msgSeq++
	d.state.Message = &Message{ID: d.msgSeq, Kind: kind, Text: text}
	return d.msgSeq
}

// dismiss clears the message only if it is still the one scheduled.
func (d *Dashboard) dismiss(id uint64) {
	d.mu.Lock()
	if d.state.Message == nil || d.state.Message.ID != id {
		d.mu.Unlock()
		return
	}
	d.state.Message = nil
	d.mu.Unlock()
	d.changed()
}

func (d *Dashboard) changed() {
	if d.notifier != nil {
		d.notifier.Notify(events.TypeDashboardChanged, nil)
	}
}
