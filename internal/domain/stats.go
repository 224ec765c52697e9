package domain

// Stats is the backend's aggregate snapshot. It is recomputed on every
// request and never cached by the dashboard.
type Stats struct {
	Total      int            `json:"total_vagas"`
	ByStatus   map[string]int `json:"por_status"`
	BySource   map[string]int `json:"por_fonte,omitempty"`
	ByWorkMode map[string]int `json:"por_modalidade,omitempty"`
	ByJobType  map[string]int `json:"por_tipo_vaga,omitempty"`
	Last24h    int            `json:"ultimas_24h"`
}

// Count returns the number of listings in status s, 0 when absent.
func (s Stats) Count(st Status) int {
	return s.ByStatus[string(st)]
}

// ScrapeVariant selects which scraper the backend runs.
type ScrapeVariant string

const (
	ScrapeAll           ScrapeVariant = "all"
	ScrapeIndeed        ScrapeVariant = ScrapeVariant(SourceIndeed)
	ScrapeLinkedInJobs  ScrapeVariant = ScrapeVariant(SourceLinkedInJobs)
	ScrapeLinkedInPosts ScrapeVariant = ScrapeVariant(SourceLinkedInPosts)
)

// SourceScrape is the outcome of one source's collection run.
type SourceScrape struct {
	Message   string `json:"message,omitempty"`
	New       int    `json:"novas"`
	Collected int    `json:"total_coletadas"`
	Error     string `json:"error,omitempty"`
}

// ScrapeResult covers both scraper responses: /scraper/all fills TotalNew
// and Details, single-source runs fill New and Collected.
type ScrapeResult struct {
	Message   string                  `json:"message,omitempty"`
	TotalNew  int                     `json:"total_novas"`
	New       int                     `json:"novas,omitempty"`
	Collected int                     `json:"total_coletadas,omitempty"`
	Details   map[string]SourceScrape `json:"detalhes,omitempty"`
}

// NewCount is the number of newly discovered listings regardless of variant.
func (r ScrapeResult) NewCount() int {
	if r.TotalNew > 0 {
		return r.TotalNew
	}
	return r.New
}
