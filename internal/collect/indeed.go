// Package collect turns job board pages into listings for the dev backend.
package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"vagas-dashboard/internal/domain"
)

// DefaultIndeedURL searches remote UX openings in Brazil from the last day.
const DefaultIndeedURL = "https://br.indeed.com/empregos?q=UX&l=Brasil&fromage=1&lang=pt"

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Indeed fetches one search results page and keeps the product roles.
type Indeed struct {
	URL     string
	HTTP    *http.Client
	Limiter *HostLimiter
	Now     func() time.Time
}

func NewIndeed(searchURL string) *Indeed {
	if searchURL == "" {
		searchURL = DefaultIndeedURL
	}
	return &Indeed{
		URL:     searchURL,
		HTTP:    &http.Client{Timeout: 20 * time.Second},
		Limiter: NewHostLimiter(0.5, 1),
		Now:     time.Now,
	}
}

func (s *Indeed) Fetch(ctx context.Context) ([]domain.Listing, error) {
	if s.Limiter != nil {
		if err := s.Limiter.WaitURL(ctx, s.URL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("indeed request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")

	res, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("indeed get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("indeed status %d", res.StatusCode)
	}

	base, _ := url.Parse(s.URL)
	ls, err := ParseIndeed(res.Body, base, s.Now())
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"component": "collect",
		"source":    domain.SourceIndeed,
		"kept":      len(ls),
	}).Debug("indeed page parsed")
	return ls, nil
}

// ParseIndeed reads the result cards of an Indeed search page. Links are
// resolved against base; repeated postings on the page are dropped.
func ParseIndeed(r io.Reader, base *url.URL, now time.Time) ([]domain.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("indeed parse html: %w", err)
	}

	day := now.Format("2006-01-02")
	seen := map[string]bool{}
	out := []domain.Listing{}

	doc.Find("div.job_seen_beacon, td.resultContent").Each(func(_ int, card *goquery.Selection) {
		a := card.Find("h2.jobTitle a, a.jcs-JobTitle, h2 a").First()
		title := CleanText(a.Text())
		if title == "" || !IsProductRole(title) {
			return
		}

		link := ""
		if href, ok := a.Attr("href"); ok {
			link = resolve(base, href)
		}
		link = CanonicalURL(link)
		if link != "" && seen[link] {
			return
		}
		seen[link] = true

		company := CleanText(card.Find("[data-testid='company-name'], .companyName").First().Text())
		location := NormalizeLocation(card.Find("[data-testid='text-location'], .companyLocation").First().Text())
		snippet := CleanText(card.Find(".job-snippet, [data-testid='jobsnippet_footer']").Text())

		mode := InferWorkMode(location, title, snippet)
		if mode == domain.WorkModeUnspecified {
			// the search itself is filtered to remote openings
			mode = domain.WorkModeRemote
		}

		out = append(out, domain.Listing{
			Source:      domain.SourceIndeed,
			Title:       title,
			Company:     company,
			JobType:     ClassifyJobType(title),
			Link:        link,
			Location:    location,
			WorkMode:    mode,
			English:     InferEnglish(title, snippet),
			ContactForm: domain.ContactIndeed,
			CollectedOn: day,
		})
	})
	return out, nil
}

func resolve(base *url.URL, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}
