package models

// ScrapeResult mirrors the counters the backend reports after a scrape
// pass over one source.
type ScrapeResult struct {
	Source  string `json:"source"`
	Scraped int    `json:"scraped"`
	New     int    `json:"new"`
	Updated int    `json:"updated"`
}

// ScrapeResponse is the envelope returned by POST /scraper/run.
type ScrapeResponse struct {
	Message string       `json:"message"`
	Result  ScrapeResult `json:"result"`
}
