package devapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"vagas-dashboard/internal/domain"
	"vagas-dashboard/internal/httpapi"
	"vagas-dashboard/internal/store"
)

var scraperRoutes = map[string]domain.Source{
	"indeed":   domain.SourceIndeed,
	"linkedin": domain.SourceLinkedInJobs,
	"posts":    domain.SourceLinkedInPosts,
}

// runSource collects one source and stores what is new.
func (s *Server) runSource(ctx context.Context, src domain.Source) (domain.SourceScrape, error) {
	collect, ok := s.Collectors[src]
	if !ok {
		return domain.SourceScrape{}, fmt.Errorf("no collector for %s", src)
	}
	ls, err := collect(ctx)
	if err != nil {
		return domain.SourceScrape{}, err
	}
	if len(ls) == 0 {
		return domain.SourceScrape{Message: "Nenhuma vaga encontrada"}, nil
	}
	for i := range ls {
		ls[i].Source = src
	}

	res, err := store.InsertBatch(ctx, s.DB.Pool, ls, s.now())
	if err != nil {
		return domain.SourceScrape{}, err
	}
	out := domain.SourceScrape{New: res.New, Collected: res.Collected}
	if res.New == 0 {
		out.Message = "Todas as vagas já existem no banco"
	} else {
		out.Message = fmt.Sprintf("Coleta %s concluída", src.Label())
	}
	log.WithFields(log.Fields{
		"component": "devapi",
		"source":    src,
		"new":       res.New,
		"collected": res.Collected,
	}).Info("scrape finished")
	return out, nil
}

func (s *Server) scrapeOne(src domain.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.runSource(r.Context(), src)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, res)
	}
}

func (s *Server) scrapeAll(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, s.CollectAll(r.Context()))
}

// CollectAll runs every source in order; one failing source does not stop
// the others.
func (s *Server) CollectAll(ctx context.Context) domain.ScrapeResult {
	out := domain.ScrapeResult{
		Message: "Coleta completa",
		Details: map[string]domain.SourceScrape{},
	}
	for _, src := range domain.Sources {
		res, err := s.runSource(ctx, src)
		if err != nil {
			log.WithFields(log.Fields{"component": "devapi", "source": src}).WithError(err).Warn("scrape failed")
			out.Details[string(src)] = domain.SourceScrape{Error: err.Error()}
			continue
		}
		out.Details[string(src)] = res
		out.TotalNew += res.New
	}
	return out
}

// SampleCollectors returns fixed batches per source, dated by now. Running
// them twice yields no new listings.
func SampleCollectors(now func() time.Time) map[domain.Source]Collector {
	day := func() string { return now().Format("2006-01-02") }
	return map[domain.Source]Collector{
		domain.SourceIndeed: func(context.Context) ([]domain.Listing, error) {
			return []domain.Listing{
				{
					Title: "Product Designer Pleno", Company: "Nubank", JobType: "Product Designer",
					Location: "São Paulo, SP", WorkMode: domain.WorkModeHybrid, English: domain.EnglishIntermediate,
					Link: "https://br.indeed.com/viewjob?jk=a1b2c3", ContactForm: domain.ContactIndeed, CollectedOn: day(),
				},
				{
					Title: "UX Designer", Company: "Stone", JobType: "UX Designer",
					Location: "Rio de Janeiro, RJ", WorkMode: domain.WorkModeRemote, English: domain.EnglishNone,
					Link: "https://br.indeed.com/viewjob?jk=d4e5f6", ContactForm: domain.ContactIndeed, CollectedOn: day(),
				},
			}, nil
		},
		domain.SourceLinkedInJobs: func(context.Context) ([]domain.Listing, error) {
			return []domain.Listing{
				{
					Title: "Senior Product Designer", Company: "iFood", JobType: "Product Designer",
					Location: "Remoto", WorkMode: domain.WorkModeRemote, English: domain.EnglishFluent,
					Link: "https://www.linkedin.com/jobs/view/390001", ContactForm: domain.ContactLink, CollectedOn: day(),
				},
				{
					Title: "Product Manager", Company: "QuintoAndar", JobType: "Product Manager",
					Location: "São Paulo, SP", WorkMode: domain.WorkModeOnSite, English: domain.EnglishUnspecified,
					Link: "https://www.linkedin.com/jobs/view/390002", ContactForm: domain.ContactLink, CollectedOn: day(),
				},
			}, nil
		},
		domain.SourceLinkedInPosts: func(context.Context) ([]domain.Listing, error) {
			return []domain.Listing{
				{
					Title: "Vaga para UX Writer", Company: "Agência Norte", JobType: "UX Writer",
					WorkMode: domain.WorkModeRemote, ContactForm: domain.ContactEmail,
					ContactEmail: "talentos@agencianorte.com.br", AuthorName: "Mariana Lopes",
					AuthorProfile: "https://www.linkedin.com/in/marianalopes", CollectedOn: day(),
				},
				{
					Title: "Procuramos UX Researcher", Company: "Lab Pesquisa", JobType: "UX Researcher",
					ContactForm: domain.ContactMessage, AuthorName: "Carlos Mendes", CollectedOn: day(),
				},
			}, nil
		},
	}
}
