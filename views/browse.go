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

// Browse renders one page of the listing grid with a selected row and a
// detail panel. Pagination math is 1-based; the shell owns the fetches.
type Browse struct {
	width, height int
	listings      []models.Listing
	detail        *models.Listing
	selected      int
	page          int
	pageSize      int
	total         int
}

func NewBrowse(pageSize int) Browse {
	return Browse{page: 1, pageSize: pageSize}
}

func (b Browse) SetSize(w, h int) Browse {
	b.width = w
	b.height = h
	return b
}

func (b Browse) SetListings(listings []models.Listing) Browse {
	b.listings = listings
	if b.selected >= len(listings) {
		b.selected = 0
	}
	b.detail = nil
	return b
}

func (b Browse) SetTotal(total int) Browse {
	b.total = total
	return b
}

func (b Browse) SetPage(page int) Browse {
	b.page = page
	return b
}

func (b Browse) SetDetail(listing *models.Listing) Browse {
	// Drop a reply that raced past a selection change.
	if listing != nil && b.selectedListing() != nil && listing.ID == b.selectedListing().ID {
		b.detail = listing
	}
	return b
}

func (b Browse) Page() int { return b.page }

func (b Browse) TotalPages() int {
	if b.total == 0 || b.pageSize == 0 {
		return 1
	}
	return (b.total + b.pageSize - 1) / b.pageSize
}

func (b Browse) Selected() *models.Listing {
	return b.selectedListing()
}

func (b Browse) selectedListing() *models.Listing {
	if b.selected < 0 || b.selected >= len(b.listings) {
		return nil
	}
	return &b.listings[b.selected]
}

// Update handles row navigation. The second return reports whether the
// selection moved, so the shell can refetch the detail panel.
func (b Browse) Update(msg tea.Msg) (Browse, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(b.listings) == 0 {
		return b, false
	}

	prev := b.selected
	switch key.String() {
	case "up", "k":
		if b.selected > 0 {
			b.selected--
		}
	case "down", "j":
		if b.selected < len(b.listings)-1 {
			b.selected++
		}
	case "pgdown", "ctrl+d":
		b.selected += 10
		if b.selected >= len(b.listings) {
			b.selected = len(b.listings) - 1
		}
	case "pgup", "ctrl+u":
		b.selected -= 10
		if b.selected < 0 {
			b.selected = 0
		}
	case "home", "g":
		b.selected = 0
	case "end", "G":
		b.selected = len(b.listings) - 1
	}
	return b, b.selected != prev
}

// PageWindow returns the page numbers to offer: at most five, centered
// on current except near the edges, where the window clamps.
func PageWindow(current, totalPages int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	start := current - 2
	if start < 1 {
		start = 1
	}
	end := start + 4
	if end > totalPages {
		end = totalPages
		start = end - 4
		if start < 1 {
			start = 1
		}
	}
	window := make([]int, 0, 5)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window
}

// ShowingLabel is the range caption under the grid.
func ShowingLabel(page, pageSize, total int) string {
	if total == 0 {
		return "No listings"
	}
	start := (page-1)*pageSize + 1
	end := page * pageSize
	if end > total {
		end = total
	}
	if start > total {
		start = total
	}
	return fmt.Sprintf("Showing %d-%d of %d", start, end, total)
}

func (b Browse) View() string {
	table := b.renderTable()
	footer := b.renderFooter()
	detail := b.renderDetail()

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Listings"),
		table,
		footer,
		"",
		detail,
	)
}

func (b Browse) visibleRows() int {
	rows := 20
	if b.height > 0 {
		rows = (b.height * 55) / 100
		if rows < 8 {
			rows = 8
		}
	}
	return rows
}

func (b Browse) renderTable() string {
	if len(b.listings) == 0 {
		return styles.Muted.Render("No listings match the current filters")
	}

	header := fmt.Sprintf("%-2s %-32s %-20s %10s %4s %5s %-10s %-6s",
		"", "Title", "Neighborhood", "Price", "Bed", "Bath", "Source", "Active")
	rows := styles.TableHeader.Render(header) + "\n"

	visible := b.visibleRows()
	scrollOffset := 0
	if b.selected >= visible {
		scrollOffset = b.selected - visible + 1
	}
	end := scrollOffset + visible
	if end > len(b.listings) {
		end = len(b.listings)
	}

	for i := scrollOffset; i < end; i++ {
		l := b.listings[i]
		fav := " "
		if l.IsFavorite {
			fav = styles.Favorite.Render("♥")
		}
		active := "yes"
		if !l.IsActive {
			active = "no"
		}
		row := fmt.Sprintf("%-2s %-32s %-20s %10s %4d %5.1f %-10s %-6s",
			fav,
			truncate(l.Title, 32),
			truncate(l.NeighborhoodNTA, 20),
			"$"+humanize.Comma(int64(l.Price)),
			l.Bedrooms,
			l.Bathrooms,
			truncate(l.Source, 10),
			active,
		)
		if i == b.selected {
			rows += styles.TableSelected.Render(row) + "\n"
		} else {
			rows += row + "\n"
		}
	}

	return rows
}

func (b Browse) renderFooter() string {
	totalPages := b.TotalPages()
	var buttons []string

	prev := "‹ Prev"
	if b.page <= 1 {
		prev = styles.Muted.Render(prev)
	}
	buttons = append(buttons, prev)

	for _, p := range PageWindow(b.page, totalPages) {
		text := fmt.Sprintf("%d", p)
		if p == b.page {
			buttons = append(buttons, styles.ChipActive.Render(text))
		} else {
			buttons = append(buttons, styles.Chip.Render(text))
		}
	}

	next := "Next ›"
	if b.page >= totalPages {
		next = styles.Muted.Render(next)
	}
	buttons = append(buttons, next)

	pager := strings.Join(buttons, " ")
	label := styles.StatLabel.Render(ShowingLabel(b.page, b.pageSize, b.total))

	return pager + "   " + label
}

func (b Browse) renderDetail() string {
	listing := b.detail
	if listing == nil {
		listing = b.selectedListing()
	}
	if listing == nil {
		return ""
	}

	var lines []string
	lines = append(lines, styles.StatValue.Render(listing.Title))
	lines = append(lines, fmt.Sprintf("$%s · %d bed · %.1f bath · %s",
		humanize.Comma(int64(listing.Price)), listing.Bedrooms, listing.Bathrooms, listing.Neighborhood))
	if listing.Address != "" {
		lines = append(lines, listing.Address)
	}
	if listing.SqFt != nil {
		lines = append(lines, fmt.Sprintf("%s sqft", humanize.Comma(int64(*listing.SqFt))))
	}
	if len(listing.Amenities) > 0 {
		lines = append(lines, styles.StatLabel.Render("Amenities: ")+truncate(strings.Join(listing.Amenities, ", "), b.width-16))
	}
	if listing.Description != "" {
		desc := listing.Description
		if len(desc) > 280 {
			desc = desc[:280] + "..."
		}
		lines = append(lines, wrapText(desc, b.width-8)...)
	}
	lines = append(lines, styles.Muted.Render(truncate(listing.URL, b.width-8)))
	lines = append(lines, styles.StatLabel.Render(fmt.Sprintf("first seen %s · last seen %s",
		humanize.Time(listing.FirstSeen), humanize.Time(listing.LastSeen))))

	width := b.width - 4
	if width < 40 {
		width = 40
	}
	return styles.CardBorder.Width(width).Render(strings.Join(lines, "\n"))
}
