package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"apthunt/api"
	"apthunt/config"
	"apthunt/httputil"
	"apthunt/logging"
	"apthunt/models"
	"apthunt/search"
	"apthunt/styles"
	"apthunt/views"
)

type tab int

const (
	tabBrowse tab = iota
	tabMap
	tabFavorites
	tabStats
	tabCount
)

type model struct {
	api *api.Client
	cfg *config.Config

	activeTab     tab
	width, height int
	notification  string
	notifyUntil   time.Time
	banner        string
	searching     bool

	// filters is the last submitted snapshot, without a pagination
	// window; page re-windows it per fetch.
	filters models.Filters
	page    int

	form      search.Form
	browse    views.Browse
	mapView   views.Map
	favorites views.Favorites
	dashboard views.Dashboard
}

type listingsMsg struct {
	listings []models.Listing
	err      error
}

type mapListingsMsg struct {
	listings []models.Listing
	err      error
}

type favoritesMsg struct {
	favorites []models.Favorite
	err       error
}

type statsMsg struct {
	stats *models.Stats
	err   error
}

type neighborhoodsMsg struct {
	grouped models.GroupedNeighborhoods
	err     error
}

type detailMsg struct {
	listing *models.Listing
	err     error
}

type toggleMsg struct {
	listingID int
	err       error
}

type scrapeMsg struct {
	resp *models.ScrapeResponse
	err  error
}

type statsTickMsg time.Time

func initialModel(client *api.Client, cfg *config.Config) model {
	return model{
		api:       client,
		cfg:       cfg,
		activeTab: tabBrowse,
		filters:   models.Filters{Limit: cfg.PageSize},
		page:      1,
		form:      search.NewForm(cfg.PageSize),
		browse:    views.NewBrowse(cfg.PageSize),
		mapView:   views.NewMap(),
		favorites: views.NewFavorites(),
		dashboard: views.NewDashboard(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchListings(),
		m.fetchMapListings(),
		m.fetchFavorites(),
		m.fetchStats(),
		m.fetchNeighborhoods(),
		statsTickCmd(),
	)
}

func statsTickCmd() tea.Cmd {
	return tea.Tick(60*time.Second, func(t time.Time) tea.Msg {
		return statsTickMsg(t)
	})
}

// Fetches apply their messages in arrival order with no cancellation; a
// superseded search can land late and win. The request ID in the log is
// the only trace of that.

func (m model) fetchListings() tea.Cmd {
	filters := m.filters.WithPage(m.page, m.cfg.PageSize)
	return func() tea.Msg {
		listings, err := m.api.Listings(context.Background(), filters)
		return listingsMsg{listings, err}
	}
}

func (m model) fetchMapListings() tea.Cmd {
	filters := m.filters.WithLimit(m.cfg.MapLimit)
	return func() tea.Msg {
		listings, err := m.api.Listings(context.Background(), filters)
		return mapListingsMsg{listings, err}
	}
}

func (m model) fetchFavorites() tea.Cmd {
	return func() tea.Msg {
		favorites, err := m.api.Favorites(context.Background())
		return favoritesMsg{favorites, err}
	}
}

func (m model) fetchStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.api.Stats(context.Background())
		return statsMsg{stats, err}
	}
}

func (m model) fetchNeighborhoods() tea.Cmd {
	return func() tea.Msg {
		grouped, err := m.api.NeighborhoodsGrouped(context.Background())
		return neighborhoodsMsg{grouped, err}
	}
}

func (m model) fetchDetail(id int) tea.Cmd {
	return func() tea.Msg {
		listing, err := m.api.Listing(context.Background(), id)
		return detailMsg{listing, err}
	}
}

func (m model) toggleFavorite(listing models.Listing) tea.Cmd {
	return func() tea.Msg {
		var err error
		if listing.IsFavorite {
			err = m.api.RemoveFavorite(context.Background(), listing.ID)
		} else {
			_, err = m.api.AddFavorite(context.Background(), listing.ID, "")
		}
		return toggleMsg{listing.ID, err}
	}
}

func (m model) runScrape() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.api.RunScraper(context.Background(), "streeteasy", 5)
		return scrapeMsg{resp, err}
	}
}

// startSearch installs a new filter snapshot and issues the two fetches
// of a search action: the grid page and the unpaginated set that feeds
// the map and the total count.
func (m model) startSearch(filters models.Filters) (model, tea.Cmd) {
	m.filters = filters
	m.page = 1
	m.browse = m.browse.SetPage(1)
	return m, tea.Batch(m.fetchListings(), m.fetchMapListings())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.browse = m.browse.SetSize(msg.Width, msg.Height-4)
		m.mapView = m.mapView.SetSize(msg.Width, msg.Height-4)
		m.favorites = m.favorites.SetSize(msg.Width, msg.Height-4)
		m.dashboard = m.dashboard.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case listingsMsg:
		if msg.err != nil {
			// Prior listings stay on screen.
			log.Printf("listings fetch failed: %v", msg.err)
			m.banner = fmt.Sprintf("Search failed: %v", msg.err)
			return m, nil
		}
		m.banner = ""
		m.browse = m.browse.SetListings(msg.listings)
		if sel := m.browse.Selected(); sel != nil {
			return m, m.fetchDetail(sel.ID)
		}
		return m, nil

	case mapListingsMsg:
		if msg.err != nil {
			log.Printf("map listings fetch failed: %v", msg.err)
			m.banner = fmt.Sprintf("Search failed: %v", msg.err)
			return m, nil
		}
		m.banner = ""
		m.mapView = m.mapView.SetListings(msg.listings)
		m.browse = m.browse.SetTotal(len(msg.listings))
		return m, nil

	case favoritesMsg:
		if msg.err != nil {
			log.Printf("favorites fetch failed: %v", msg.err)
			return m, nil
		}
		m.favorites = m.favorites.SetFavorites(msg.favorites)
		return m, nil

	case statsMsg:
		if msg.err != nil {
			log.Printf("stats fetch failed: %v", msg.err)
			return m, nil
		}
		m.dashboard = m.dashboard.SetStats(msg.stats)
		return m, nil

	case neighborhoodsMsg:
		if msg.err != nil {
			log.Printf("neighborhoods fetch failed: %v", msg.err)
			return m, nil
		}
		m.form = m.form.SetNeighborhoods(msg.grouped)
		return m, nil

	case detailMsg:
		if msg.err != nil {
			log.Printf("listing detail fetch failed: %v", msg.err)
			return m, nil
		}
		m.browse = m.browse.SetDetail(msg.listing)
		return m, nil

	case toggleMsg:
		if msg.err != nil {
			// Nothing was flipped locally, so nothing rolls back.
			log.Printf("favorite toggle for listing %d failed: %v", msg.listingID, msg.err)
		}
		// Reload wholesale either way; the server's set is the truth.
		return m, tea.Batch(m.fetchListings(), m.fetchMapListings(), m.fetchFavorites())

	case scrapeMsg:
		if msg.err != nil {
			log.Printf("scrape trigger failed: %v", msg.err)
			m.dashboard = m.dashboard.SetScraping(false)
			return m.notify("Scrape failed"), nil
		}
		m.dashboard = m.dashboard.SetScrapeResult(msg.resp)
		m = m.notify(msg.resp.Message)
		return m, tea.Batch(m.fetchListings(), m.fetchMapListings(), m.fetchStats())

	case statsTickMsg:
		return m, tea.Batch(m.fetchStats(), statsTickCmd())
	}

	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		var cmd tea.Cmd
		var res search.Result
		m.form, cmd, res = m.form.Update(msg)
		switch res {
		case search.ResultSubmit, search.ResultClear:
			next, searchCmd := m.startSearch(m.form.Filters())
			return next, tea.Batch(cmd, searchCmd)
		case search.ResultBlur:
			m.searching = false
		}
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "1":
		m.activeTab = tabBrowse
	case "2":
		m.activeTab = tabMap
	case "3":
		m.activeTab = tabFavorites
	case "4":
		m.activeTab = tabStats
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount

	case "/":
		m.activeTab = tabBrowse
		m.searching = true
		var cmd tea.Cmd
		m.form, cmd = m.form.Focus()
		return m, cmd

	case "r":
		return m.notify("Refreshed"), m.refreshActive()

	case "[":
		if m.activeTab == tabBrowse && m.page > 1 {
			m.page--
			m.browse = m.browse.SetPage(m.page)
			return m, tea.Batch(m.fetchListings(), m.fetchMapListings())
		}

	case "]":
		if m.activeTab == tabBrowse && m.page < m.browse.TotalPages() {
			m.page++
			m.browse = m.browse.SetPage(m.page)
			return m, tea.Batch(m.fetchListings(), m.fetchMapListings())
		}

	case "f":
		if listing := m.selectedListing(); listing != nil {
			return m, m.toggleFavorite(*listing)
		}

	case "s":
		if m.activeTab == tabStats {
			m.dashboard = m.dashboard.SetScraping(true)
			return m.notify("Scrape triggered"), m.runScrape()
		}
	}

	// Navigation keys go to the active view only.
	switch m.activeTab {
	case tabBrowse:
		var moved bool
		m.browse, moved = m.browse.Update(msg)
		if moved {
			if sel := m.browse.Selected(); sel != nil {
				return m, m.fetchDetail(sel.ID)
			}
		}
	case tabMap:
		m.mapView, _ = m.mapView.Update(msg)
	case tabFavorites:
		m.favorites, _ = m.favorites.Update(msg)
	}

	return m, nil
}

func (m model) selectedListing() *models.Listing {
	switch m.activeTab {
	case tabBrowse:
		return m.browse.Selected()
	case tabMap:
		return m.mapView.Selected()
	case tabFavorites:
		return m.favorites.Selected()
	}
	return nil
}

func (m model) refreshActive() tea.Cmd {
	switch m.activeTab {
	case tabBrowse:
		return tea.Batch(m.fetchListings(), m.fetchMapListings())
	case tabMap:
		return m.fetchMapListings()
	case tabFavorites:
		return m.fetchFavorites()
	case tabStats:
		return m.fetchStats()
	}
	return nil
}

func (m model) notify(text string) model {
	m.notification = text
	m.notifyUntil = time.Now().Add(3 * time.Second)
	return m
}

func (m model) View() string {
	tabs := m.renderTabs()
	content := m.renderContent()
	statusBar := m.renderStatusBar()

	parts := []string{tabs}
	if m.banner != "" {
		parts = append(parts, styles.Banner.Render(m.banner))
	}
	parts = append(parts, content, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) renderTabs() string {
	tabNames := []string{"Browse", "Map", "Favorites", "Stats"}
	var rendered []string
	for i, name := range tabNames {
		if tab(i) == m.activeTab {
			rendered = append(rendered, styles.TabActive.Render(name))
		} else {
			rendered = append(rendered, styles.TabInactive.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n"
}

func (m model) renderContent() string {
	switch m.activeTab {
	case tabBrowse:
		if m.searching {
			return lipgloss.JoinVertical(lipgloss.Left,
				styles.PanelBorder.Render(m.form.View()),
				m.browse.View(),
			)
		}
		return m.browse.View()
	case tabMap:
		return m.mapView.View()
	case tabFavorites:
		return m.favorites.View()
	case tabStats:
		return m.dashboard.View()
	}
	return ""
}

func (m model) renderStatusBar() string {
	left := "1-4 tabs  / search  f favorite  [ ] page  r refresh  q quit"
	right := ""
	if time.Now().Before(m.notifyUntil) {
		right = styles.Notification.Render(m.notification)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
	}

	return styles.StatusBar.Render(left) + lipgloss.NewStyle().Width(gap).Render("") + right
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	client := api.NewClient(cfg.APIBaseURL, httputil.NewAPIClient())

	p := tea.NewProgram(
		initialModel(client, cfg),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
