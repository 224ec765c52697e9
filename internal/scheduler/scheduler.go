// Package scheduler runs background collection tasks on a timer.
package scheduler

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on each tick until ctx ends.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	run(ctx, name, task)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run(ctx, name, task)
		}
	}
}

// Daily runs task once a day at the given local clock time until ctx ends.
func Daily(ctx context.Context, at Clock, name string, task Task) {
	for {
		next := at.Next(time.Now())
		log.WithFields(log.Fields{
			"component": "scheduler",
			"task":      name,
			"next":      next.Format(time.RFC3339),
		}).Info("next run scheduled")

		t := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
			run(ctx, name, task)
		}
	}
}

func run(ctx context.Context, name string, task Task) {
	entry := log.WithFields(log.Fields{"component": "scheduler", "task": name})
	start := time.Now()
	if err := task(ctx); err != nil {
		entry.WithError(err).Error("task failed")
		return
	}
	entry.WithField("dur_ms", time.Since(start).Milliseconds()).Info("task finished")
}

// Clock is a time of day.
type Clock struct {
	Hour, Minute int
}

// ParseClock reads "HH:MM".
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("clock %q: want HH:MM", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// Next is the first occurrence of c strictly after now, in now's location.
func (c Clock) Next(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), c.Hour, c.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
