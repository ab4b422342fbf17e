package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"apthunt/api"
	"apthunt/config"
	"apthunt/models"
)

// fakeBackend keeps a server-side favorites set so toggle tests observe
// real server truth rather than local mutation.
type fakeBackend struct {
	mu        sync.Mutex
	listings  []models.Listing
	favorites map[int]models.Favorite
	nextFavID int
	latency   time.Duration
}

func newFakeBackend(listings []models.Listing) *fakeBackend {
	return &fakeBackend{
		listings:  listings,
		favorites: make(map[int]models.Favorite),
		nextFavID: 1,
	}
}

func (b *fakeBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b.latency > 0 {
			time.Sleep(b.latency)
		}
		b.mu.Lock()
		defer b.mu.Unlock()

		switch {
		case r.URL.Path == "/listings/":
			out := make([]models.Listing, len(b.listings))
			for i, l := range b.listings {
				_, fav := b.favorites[l.ID]
				l.IsFavorite = fav
				out[i] = l
			}
			json.NewEncoder(w).Encode(out)

		case r.URL.Path == "/favorites/" && r.Method == http.MethodGet:
			out := []models.Favorite{}
			for _, f := range b.favorites {
				out = append(out, f)
			}
			json.NewEncoder(w).Encode(out)

		case r.URL.Path == "/favorites/" && r.Method == http.MethodPost:
			var body struct {
				ListingID int `json:"listing_id"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			fav := models.Favorite{ID: b.nextFavID, ListingID: body.ListingID, CreatedAt: time.Now()}
			for _, l := range b.listings {
				if l.ID == body.ListingID {
					fav.Listing = l
				}
			}
			b.nextFavID++
			b.favorites[body.ListingID] = fav
			json.NewEncoder(w).Encode(fav)

		case strings.HasPrefix(r.URL.Path, "/favorites/by-listing/") && r.Method == http.MethodDelete:
			id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/favorites/by-listing/"))
			if _, ok := b.favorites[id]; !ok {
				http.Error(w, "Favorite not found", http.StatusNotFound)
				return
			}
			delete(b.favorites, id)
			w.WriteHeader(http.StatusNoContent)

		case strings.HasPrefix(r.URL.Path, "/listings/"):
			id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/listings/"))
			for _, l := range b.listings {
				if l.ID == id {
					_, l.IsFavorite = b.favorites[id]
					json.NewEncoder(w).Encode(l)
					return
				}
			}
			http.Error(w, "Listing not found", http.StatusNotFound)

		default:
			http.Error(w, "unexpected path "+r.URL.Path, http.StatusNotFound)
		}
	}
}

func newTestModel(t *testing.T, backend *fakeBackend) model {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		APIBaseURL: srv.URL,
		PageSize:   50,
		MapLimit:   10000,
	}
	return initialModel(api.NewClient(srv.URL, srv.Client()), cfg)
}

func apply(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func testListings(n int) []models.Listing {
	listings := make([]models.Listing, n)
	for i := range listings {
		listings[i] = models.Listing{ID: i + 1, Title: "Unit " + strconv.Itoa(i+1), IsActive: true}
	}
	return listings
}

func TestToggleFavorite_NoOptimisticFlip(t *testing.T) {
	backend := newFakeBackend(testListings(3))
	backend.latency = 20 * time.Millisecond
	m := newTestModel(t, backend)

	m, _ = apply(t, m, m.fetchListings()().(listingsMsg))
	sel := m.browse.Selected()
	if sel == nil || sel.IsFavorite {
		t.Fatalf("precondition: first listing unselected or already favorite")
	}

	// Issue the toggle. Until the reload messages arrive, the displayed
	// flag must not move.
	toggleCmd := m.toggleFavorite(*sel)
	if m.browse.Selected().IsFavorite {
		t.Fatalf("flag flipped before the server confirmed")
	}

	msg := toggleCmd().(toggleMsg)
	if msg.err != nil {
		t.Fatalf("toggle failed: %v", msg.err)
	}
	// Server has the favorite now, client still shows the old state.
	if m.browse.Selected().IsFavorite {
		t.Fatalf("flag flipped without a reload")
	}

	m, cmd := apply(t, m, msg)
	if cmd == nil {
		t.Fatalf("toggle completion must trigger the wholesale reload")
	}

	m, _ = apply(t, m, m.fetchListings()().(listingsMsg))
	m, _ = apply(t, m, m.fetchFavorites()().(favoritesMsg))

	if !m.browse.Selected().IsFavorite {
		t.Fatalf("reload must reflect the server's favorite set")
	}
	if m.favorites.Selected() == nil {
		t.Fatalf("favorites tab must show the new favorite")
	}
}

func TestToggleFavorite_SecondToggleRemoves(t *testing.T) {
	backend := newFakeBackend(testListings(1))
	m := newTestModel(t, backend)

	m, _ = apply(t, m, m.fetchListings()().(listingsMsg))

	msg := m.toggleFavorite(*m.browse.Selected())().(toggleMsg)
	m, _ = apply(t, m, msg)
	m, _ = apply(t, m, m.fetchListings()().(listingsMsg))
	if !m.browse.Selected().IsFavorite {
		t.Fatalf("first toggle must add the favorite")
	}

	msg = m.toggleFavorite(*m.browse.Selected())().(toggleMsg)
	if msg.err != nil {
		t.Fatalf("second toggle failed: %v", msg.err)
	}
	m, _ = apply(t, m, msg)
	m, _ = apply(t, m, m.fetchListings()().(listingsMsg))
	m, _ = apply(t, m, m.fetchFavorites()().(favoritesMsg))

	if m.browse.Selected().IsFavorite {
		t.Fatalf("second toggle must remove the favorite")
	}
	if m.favorites.Selected() != nil {
		t.Fatalf("favorites tab must be empty after removal")
	}
}

func TestToggleFavorite_FailureLeavesStateUnchanged(t *testing.T) {
	backend := newFakeBackend(testListings(1))
	m := newTestModel(t, backend)

	m, _ = apply(t, m, m.fetchListings()().(listingsMsg))

	// Removing a listing that was never favorited fails server-side.
	gone := *m.browse.Selected()
	gone.IsFavorite = true
	msg := m.toggleFavorite(gone)().(toggleMsg)
	if msg.err == nil {
		t.Fatalf("expected the remove to fail")
	}

	m, cmd := apply(t, m, msg)
	if cmd == nil {
		t.Fatalf("even a failed toggle reloads wholesale")
	}
	m, _ = apply(t, m, m.fetchListings()().(listingsMsg))
	if m.browse.Selected().IsFavorite {
		t.Fatalf("failed toggle must leave state unchanged")
	}
	if m.banner != "" {
		t.Fatalf("toggle failures are diagnostic-only, got banner %q", m.banner)
	}
}

func TestStartSearch_ResetsToFirstPage(t *testing.T) {
	backend := newFakeBackend(testListings(5))
	m := newTestModel(t, backend)
	m.page = 3

	min := 2000
	m, cmd := m.startSearch(models.Filters{MinPrice: &min, Limit: 50})
	if m.page != 1 {
		t.Fatalf("a new search must reset to page 1, got %d", m.page)
	}
	if cmd == nil {
		t.Fatalf("a search must issue fetches")
	}
	if m.filters.MinPrice == nil || *m.filters.MinPrice != 2000 {
		t.Fatalf("filters not installed: %+v", m.filters)
	}
}

func TestPageChange_PreservesFilters(t *testing.T) {
	backend := newFakeBackend(testListings(5))
	m := newTestModel(t, backend)

	min := 2000
	m.filters = models.Filters{MinPrice: &min, Limit: 50}
	m.browse = m.browse.SetTotal(120)

	next, cmd := m.updateKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	m = next.(model)
	if m.page != 2 {
		t.Fatalf("expected page 2, got %d", m.page)
	}
	if cmd == nil {
		t.Fatalf("page change must refetch")
	}
	if m.filters.MinPrice == nil || *m.filters.MinPrice != 2000 {
		t.Fatalf("page change must preserve filters, got %+v", m.filters)
	}
}

func TestPageChange_ClampsAtLastPage(t *testing.T) {
	backend := newFakeBackend(testListings(5))
	m := newTestModel(t, backend)
	m.browse = m.browse.SetTotal(120)
	m.page = 3
	m.browse = m.browse.SetPage(3)

	next, cmd := m.updateKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	m = next.(model)
	if m.page != 3 || cmd != nil {
		t.Fatalf("page must not advance past the last, got page %d", m.page)
	}
}

func TestSearchFailure_KeepsPriorListingsAndSetsBanner(t *testing.T) {
	backend := newFakeBackend(testListings(2))
	m := newTestModel(t, backend)

	m, _ = apply(t, m, m.fetchListings()().(listingsMsg))
	if m.browse.Selected() == nil {
		t.Fatalf("precondition: listings loaded")
	}

	m, _ = apply(t, m, listingsMsg{err: errFake})
	if m.banner == "" {
		t.Fatalf("search failure must raise the banner")
	}
	if m.browse.Selected() == nil {
		t.Fatalf("prior listings must stay on screen")
	}

	m, _ = apply(t, m, m.fetchListings()().(listingsMsg))
	if m.banner != "" {
		t.Fatalf("a successful search must clear the banner")
	}
}

func TestFavoritesFailure_IsSilent(t *testing.T) {
	backend := newFakeBackend(testListings(1))
	m := newTestModel(t, backend)

	m, _ = apply(t, m, favoritesMsg{err: errFake})
	if m.banner != "" {
		t.Fatalf("favorites failures must not raise the banner, got %q", m.banner)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

var errFake = fakeErr("connection refused")

func TestMapFetch_FeedsTotalCount(t *testing.T) {
	backend := newFakeBackend(testListings(5))
	m := newTestModel(t, backend)

	m, _ = apply(t, m, mapListingsMsg{listings: testListings(120)})
	if got := m.browse.TotalPages(); got != 3 {
		t.Fatalf("unpaginated fetch must drive the total, got %d pages", got)
	}
}
