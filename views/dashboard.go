package views

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"apthunt/models"
	"apthunt/styles"
)

// Dashboard shows the aggregate listing counters and the last scraper
// trigger outcome.
type Dashboard struct {
	width, height int
	stats         *models.Stats
	lastScrape    *models.ScrapeResponse
	scraping      bool
}

func NewDashboard() Dashboard {
	return Dashboard{}
}

func (d Dashboard) SetSize(w, h int) Dashboard {
	d.width = w
	d.height = h
	return d
}

func (d Dashboard) SetStats(stats *models.Stats) Dashboard {
	d.stats = stats
	return d
}

func (d Dashboard) SetScraping(running bool) Dashboard {
	d.scraping = running
	return d
}

func (d Dashboard) SetScrapeResult(resp *models.ScrapeResponse) Dashboard {
	d.lastScrape = resp
	d.scraping = false
	return d
}

func (d Dashboard) View() string {
	if d.stats == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.Title.Render("Stats"),
			styles.Muted.Render("Loading..."),
		)
	}

	cards := []string{
		d.renderStatCard("Total", humanize.Comma(int64(d.stats.Total))),
		d.renderStatCard("Active", humanize.Comma(int64(d.stats.Active))),
		d.renderStatCard("Inactive", humanize.Comma(int64(d.stats.Total-d.stats.Active))),
	}
	statCards := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Stats"),
		statCards,
		"",
		styles.Title.Render("By Source"),
		d.renderSourceCards(),
		"",
		d.renderScrapePanel(),
	)
}

func (d Dashboard) renderStatCard(label, value string) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.StatValue.Render(value),
		styles.StatLabel.Render(label),
	)
	return styles.CardBorder.Width(16).Render(content)
}

func (d Dashboard) renderSourceCards() string {
	if len(d.stats.BySource) == 0 {
		return styles.Muted.Render("No sources reported")
	}

	sources := make([]string, 0, len(d.stats.BySource))
	for s := range d.stats.BySource {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	var cards []string
	for _, s := range sources {
		content := lipgloss.JoinVertical(lipgloss.Center,
			styles.StatValue.Render(humanize.Comma(int64(d.stats.BySource[s]))),
			styles.StatLabel.Render(s),
		)
		cards = append(cards, styles.PanelBorder.Width(16).Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (d Dashboard) renderScrapePanel() string {
	title := styles.Title.Render("Scraper")

	status := styles.Muted.Render("s trigger a scrape run")
	if d.scraping {
		status = styles.StatusPending.Render("◐ scrape running...")
	} else if d.lastScrape != nil {
		r := d.lastScrape.Result
		status = styles.StatusSuccess.Render("✓ "+d.lastScrape.Message) +
			styles.StatLabel.Render(fmt.Sprintf("  %s: %d scraped, %d new, %d updated",
				r.Source, r.Scraped, r.New, r.Updated))
	}

	return title + "\n" + status
}
