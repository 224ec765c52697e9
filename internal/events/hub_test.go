package events_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"vagas-dashboard/internal/events"
)

func decode(s string) events.Event {
	var e events.Event
	Expect(json.Unmarshal([]byte(s), &e)).To(Succeed())
	return e
}

var _ = Describe("Hub", func() {
	var h *events.Hub

	BeforeEach(func() {
		h = events.NewHub()
		h.Now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	})

	It("delivers notifications to every subscriber with a growing seq", func() {
		a, b := h.Subscribe(), h.Subscribe()
		defer h.Unsubscribe(a)
		defer h.Unsubscribe(b)

		h.Notify(events.TypeDashboardChanged, map[string]int{"n": 2})
		h.Notify(events.TypeDashboardChanged, nil)

		first := decode(<-a)
		Expect(first.Type).To(Equal("dashboard_changed"))
		Expect(first.Version).To(Equal(1))
		Expect(first.Seq).To(Equal(uint64(1)))
		Expect(first.Data).To(MatchJSON(`{"n":2}`))
		Expect(decode(<-a).Seq).To(Equal(uint64(2)))
		Expect(decode(<-b).Seq).To(Equal(uint64(1)))
	})

	It("drops events for a full subscriber instead of blocking", func() {
		ch := h.Subscribe()
		for i := 0; i < 100; i++ {
			h.Notify(events.TypeDashboardChanged, nil)
		}
		Expect(len(ch)).To(Equal(cap(ch)))
		Expect(h.Dropped()).To(Equal(uint64(100 - cap(ch))))
		h.Unsubscribe(ch)
	})

	It("closes the channel once and tolerates double unsubscribe", func() {
		ch := h.Subscribe()
		Expect(h.Len()).To(Equal(1))
		h.Unsubscribe(ch)
		h.Unsubscribe(ch)
		Expect(h.Len()).To(Equal(0))
		_, open := <-ch
		Expect(open).To(BeFalse())
	})

	It("replays the latest bootstrap events to late subscribers", func() {
		h.Notify(events.TypeBootstrapProgress, map[string]string{"phase": "running"})
		h.Notify(events.TypeDashboardChanged, nil)
		h.Notify(events.TypeBootstrapProgress, map[string]string{"phase": "complete"})
		h.Notify(events.TypeBootstrapComplete, nil)

		ch := h.Subscribe()
		defer h.Unsubscribe(ch)
		Expect(ch).To(HaveLen(2))

		p := decode(<-ch)
		Expect(p.Type).To(Equal(events.TypeBootstrapProgress))
		Expect(p.Data).To(MatchJSON(`{"phase":"complete"}`))
		Expect(decode(<-ch).Type).To(Equal(events.TypeBootstrapComplete))
	})

	It("pings without advancing the sequence", func() {
		h.Notify(events.TypeDashboardChanged, nil)
		p := decode(h.Ping("req-1"))
		Expect(p.Type).To(Equal(events.TypePing))
		Expect(p.RequestID).To(Equal("req-1"))
		Expect(p.Seq).To(Equal(uint64(1)))
	})
})
