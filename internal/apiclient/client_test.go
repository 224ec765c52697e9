package apiclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"vagas-dashboard/internal/apiclient"
	"vagas-dashboard/internal/domain"
	"vagas-dashboard/internal/filter"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   string
}

var _ = Describe("Client", func() {
	var (
		srv     *httptest.Server
		client  *apiclient.Client
		mu      sync.Mutex
		calls   []recorded
		handler http.HandlerFunc
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		calls = nil
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, `{}`)
		}
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			mu.Lock()
			calls = append(calls, recorded{r.Method, r.URL.Path, r.URL.RawQuery, string(b)})
			mu.Unlock()
			handler(w, r)
		}))
		var err error
		client, err = apiclient.New(srv.URL + "/api/")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		srv.Close()
	})

	It("defaults to the local backend address", func() {
		c, err := apiclient.New("")
		Expect(err).NotTo(HaveOccurred())
		Expect(c.BaseURL()).To(Equal("http://localhost:8000/api"))
	})

	It("rejects a relative base url", func() {
		_, err := apiclient.New("/api")
		Expect(err).To(HaveOccurred())
	})

	It("lists listings with only the set filter dimensions", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"total":1,"vagas":[{"id":3,"fonte":"indeed","titulo":"Product Designer","status":"pendente"}]}`)
		}
		sel := filter.Selection{}.With(filter.Source, "indeed").With(filter.Status, "")

		got, err := client.ListListings(ctx, sel)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(HaveLen(1))
		Expect(got[0].Title).To(Equal("Product Designer"))

		Expect(calls).To(HaveLen(1))
		Expect(calls[0].Method).To(Equal(http.MethodGet))
		Expect(calls[0].Path).To(Equal("/api/vagas/"))
		Expect(calls[0].Query).To(Equal("fonte=indeed"))
	})

	It("returns an empty, non-nil slice for an empty page", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"total":0,"vagas":null}`)
		}
		got, err := client.ListListings(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).NotTo(BeNil())
		Expect(got).To(BeEmpty())
		Expect(calls[0].Query).To(BeEmpty())
	})

	It("pings the data layer with limit=1", func() {
		Expect(client.PingListings(ctx)).To(Succeed())
		Expect(calls[0].Path).To(Equal("/api/vagas/"))
		Expect(calls[0].Query).To(Equal("limit=1"))
	})

	It("patches the status through the query string", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"id":9,"fonte":"indeed","titulo":"x","status":"aplicada"}`)
		}
		l, err := client.UpdateListingStatus(ctx, 9, domain.StatusApplied)
		Expect(err).NotTo(HaveOccurred())
		Expect(l.Status).To(Equal(domain.StatusApplied))
		Expect(calls[0].Method).To(Equal(http.MethodPatch))
		Expect(calls[0].Path).To(Equal("/api/vagas/9/status"))
		Expect(calls[0].Query).To(Equal("status=aplicada"))
		Expect(calls[0].Body).To(BeEmpty())
	})

	It("sends partial updates, creates and deletes", func() {
		notes := "follow up"
		_, err := client.UpdateListing(ctx, 4, domain.ListingUpdate{Notes: &notes})
		Expect(err).NotTo(HaveOccurred())
		_, err = client.CreateListing(ctx, domain.Listing{Source: domain.SourceIndeed, Title: "UX"})
		Expect(err).NotTo(HaveOccurred())
		handler = func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }
		Expect(client.DeleteListing(ctx, 4)).To(Succeed())

		Expect(calls).To(HaveLen(3))
		Expect(calls[0].Method).To(Equal(http.MethodPatch))
		Expect(calls[0].Body).To(MatchJSON(`{"observacoes":"follow up"}`))
		Expect(calls[1].Method).To(Equal(http.MethodPost))
		Expect(calls[1].Path).To(Equal("/api/vagas/"))
		Expect(calls[1].Body).To(ContainSubstring(`"titulo":"UX"`))
		Expect(calls[2].Method).To(Equal(http.MethodDelete))
		Expect(calls[2].Path).To(Equal("/api/vagas/4"))
	})

	It("fetches stats and health", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/health" {
				_, _ = io.WriteString(w, `{"status":"healthy"}`)
				return
			}
			_, _ = io.WriteString(w, `{"total_vagas":12,"por_status":{"pendente":8,"aplicada":3},"ultimas_24h":2}`)
		}
		Expect(client.Health(ctx)).To(Succeed())
		s, err := client.GetStats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Total).To(Equal(12))
		Expect(s.Count(domain.StatusApplied)).To(Equal(3))
		Expect(s.Count(domain.StatusDiscarded)).To(Equal(0))
		Expect(s.Last24h).To(Equal(2))
		Expect(calls[1].Path).To(Equal("/api/stats/"))
	})

	DescribeTable("maps scraper variants to backend routes",
		func(v domain.ScrapeVariant, path string) {
			_, err := client.TriggerScraper(ctx, v)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls[0].Method).To(Equal(http.MethodPost))
			Expect(calls[0].Path).To(Equal(path))
		},
		Entry("all", domain.ScrapeAll, "/api/scraper/all"),
		Entry("indeed", domain.ScrapeIndeed, "/api/scraper/indeed"),
		Entry("linkedin jobs", domain.ScrapeLinkedInJobs, "/api/scraper/linkedin"),
		Entry("linkedin posts", domain.ScrapeLinkedInPosts, "/api/scraper/posts"),
	)

	It("rejects an unknown scraper variant without a request", func() {
		_, err := client.TriggerScraper(ctx, domain.ScrapeVariant("glassdoor"))
		Expect(err).To(HaveOccurred())
		Expect(calls).To(BeEmpty())
	})

	Describe("errors", func() {
		It("wraps non-2xx responses with the FastAPI detail", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"detail":"Vaga não encontrada"}`)
			}
			_, err := client.GetListing(ctx, 99)
			var he *apiclient.HTTPError
			Expect(errors.As(err, &he)).To(BeTrue())
			Expect(he.StatusCode).To(Equal(http.StatusNotFound))
			Expect(he.Detail).To(Equal("Vaga não encontrada"))
			Expect(apiclient.StatusCode(err)).To(Equal(http.StatusNotFound))
			Expect(apiclient.Detail(err)).To(Equal("Vaga não encontrada"))
		})

		It("falls back to the status text for empty bodies", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}
			err := client.Health(ctx)
			Expect(apiclient.StatusCode(err)).To(Equal(http.StatusServiceUnavailable))
			Expect(apiclient.Detail(err)).To(Equal("Service Unavailable"))
		})

		It("reports transport failures as network errors", func() {
			srv.Close()
			err := client.Health(ctx)
			var ne *apiclient.NetworkError
			Expect(errors.As(err, &ne)).To(BeTrue())
			Expect(apiclient.StatusCode(err)).To(Equal(0))
		})

		It("reports undecodable bodies", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `<html>`)
			}
			_, err := client.GetStats(ctx)
			Expect(err).To(HaveOccurred())
			Expect(apiclient.StatusCode(err)).To(Equal(0))
		})
	})

	It("waits on the rate limiter but still sends every call", func() {
		c, err := apiclient.New(srv.URL+"/api", apiclient.WithRateLimit(1000, 1))
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 3; i++ {
			Expect(c.Health(ctx)).To(Succeed())
		}
		Expect(calls).To(HaveLen(3))
	})

	It("fails fast on a cancelled context while rate limited", func() {
		c, err := apiclient.New(srv.URL+"/api", apiclient.WithRateLimit(0.001, 1))
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Health(ctx)).To(Succeed())

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err = c.Health(cctx)
		var ne *apiclient.NetworkError
		Expect(errors.As(err, &ne)).To(BeTrue())
		Expect(calls).To(HaveLen(1))
	})
})
