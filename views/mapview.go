package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"apthunt/models"
	"apthunt/styles"
)

// Map plots every listing with coordinates onto a character grid scaled
// to the set's bounding box. It is fed by the unpaginated fetch, not the
// grid page.
type Map struct {
	width, height int
	listings      []models.Listing // only entries with coordinates
	selected      int
}

func NewMap() Map {
	return Map{}
}

func (m Map) SetSize(w, h int) Map {
	m.width = w
	m.height = h
	return m
}

func (m Map) SetListings(listings []models.Listing) Map {
	plotted := listings[:0:0]
	for _, l := range listings {
		if l.HasCoordinates() {
			plotted = append(plotted, l)
		}
	}
	m.listings = plotted
	if m.selected >= len(plotted) {
		m.selected = 0
	}
	return m
}

func (m Map) Selected() *models.Listing {
	if m.selected < 0 || m.selected >= len(m.listings) {
		return nil
	}
	return &m.listings[m.selected]
}

func (m Map) Update(msg tea.Msg) (Map, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.listings) == 0 {
		return m, false
	}

	prev := m.selected
	switch key.String() {
	case "left", "h", "up", "k":
		if m.selected > 0 {
			m.selected--
		} else {
			m.selected = len(m.listings) - 1
		}
	case "right", "l", "down", "j":
		m.selected = (m.selected + 1) % len(m.listings)
	case "home", "g":
		m.selected = 0
	}
	return m, m.selected != prev
}

func (m Map) gridSize() (int, int) {
	w := m.width - 6
	if w < 20 {
		w = 60
	}
	h := (m.height * 55) / 100
	if h < 10 {
		h = 16
	}
	return w, h
}

type plotCell int

const (
	cellEmpty plotCell = iota
	cellListing
	cellFavorite
	cellSelected
)

// plot rasterizes the listing set. Exported logic kept separate from the
// ANSI rendering so bounds math is testable.
func (m Map) plot(cols, rows int) [][]plotCell {
	grid := make([][]plotCell, rows)
	for i := range grid {
		grid[i] = make([]plotCell, cols)
	}
	if len(m.listings) == 0 {
		return grid
	}

	minLat, maxLat := *m.listings[0].Latitude, *m.listings[0].Latitude
	minLng, maxLng := *m.listings[0].Longitude, *m.listings[0].Longitude
	for _, l := range m.listings {
		if *l.Latitude < minLat {
			minLat = *l.Latitude
		}
		if *l.Latitude > maxLat {
			maxLat = *l.Latitude
		}
		if *l.Longitude < minLng {
			minLng = *l.Longitude
		}
		if *l.Longitude > maxLng {
			maxLng = *l.Longitude
		}
	}

	latSpan := maxLat - minLat
	lngSpan := maxLng - minLng
	if latSpan == 0 {
		latSpan = 1
	}
	if lngSpan == 0 {
		lngSpan = 1
	}

	place := func(l *models.Listing, cell plotCell) {
		// Latitude grows north, rows grow down.
		row := int((maxLat - *l.Latitude) / latSpan * float64(rows-1))
		col := int((*l.Longitude - minLng) / lngSpan * float64(cols-1))
		if grid[row][col] < cell {
			grid[row][col] = cell
		}
	}

	for i := range m.listings {
		cell := cellListing
		if m.listings[i].IsFavorite {
			cell = cellFavorite
		}
		place(&m.listings[i], cell)
	}
	if sel := m.Selected(); sel != nil {
		place(sel, cellSelected)
	}
	return grid
}

func (m Map) View() string {
	if len(m.listings) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.Title.Render("Map"),
			styles.Muted.Render("No listings with coordinates"),
		)
	}

	cols, rows := m.gridSize()
	grid := m.plot(cols, rows)

	var b strings.Builder
	for _, row := range grid {
		for _, cell := range row {
			switch cell {
			case cellSelected:
				b.WriteString(styles.ChipActive.Render("█"))
			case cellFavorite:
				b.WriteString(styles.Favorite.Render("♥"))
			case cellListing:
				b.WriteString(styles.StatusSuccess.Render("·"))
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}

	legend := styles.Muted.Render("· listing  ♥ favorite  █ selected   ←/→ cycle  f toggle favorite")
	count := styles.StatLabel.Render(fmt.Sprintf("  %d plotted", len(m.listings)))

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Map")+count,
		styles.PanelBorder.Render(strings.TrimRight(b.String(), "\n")),
		legend,
		m.renderSelected(),
	)
}

func (m Map) renderSelected() string {
	l := m.Selected()
	if l == nil {
		return ""
	}
	fav := ""
	if l.IsFavorite {
		fav = styles.Favorite.Render(" ♥")
	}
	return fmt.Sprintf("%s%s  $%s · %d bed · %s  %s",
		styles.StatValue.Render(truncate(l.Title, 40)),
		fav,
		humanize.Comma(int64(l.Price)),
		l.Bedrooms,
		l.NeighborhoodNTA,
		styles.Muted.Render(fmt.Sprintf("(%.4f, %.4f)", *l.Latitude, *l.Longitude)),
	)
}
