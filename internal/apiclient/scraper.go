package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"vagas-dashboard/internal/domain"
)

var scraperPaths = map[domain.ScrapeVariant]string{
	domain.ScrapeAll:           "/scraper/all",
	domain.ScrapeIndeed:        "/scraper/indeed",
	domain.ScrapeLinkedInJobs:  "/scraper/linkedin",
	domain.ScrapeLinkedInPosts: "/scraper/posts",
}

// TriggerScraper runs a scraping job and waits for it to finish. The
// backend does not report incremental progress.
func (c *Client) TriggerScraper(ctx context.Context, v domain.ScrapeVariant) (domain.ScrapeResult, error) {
	path, ok := scraperPaths[v]
	if !ok {
		return domain.ScrapeResult{}, fmt.Errorf("unknown scraper variant %q", v)
	}
	var res domain.ScrapeResult
	err := c.do(ctx, http.MethodPost, path, nil, nil, &res)
	return res, err
}
