package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"apthunt/models"
	"apthunt/styles"
)

// Favorites shows the saved set. Displayed listings are projections of
// the favorites' embedded snapshots; favorite status is forced true
// rather than tracked separately.
type Favorites struct {
	width, height int
	favorites     []models.Favorite
	listings      []models.Listing
	selected      int
}

func NewFavorites() Favorites {
	return Favorites{}
}

// ProjectListings extracts the embedded listing snapshots with
// is_favorite forced on.
func ProjectListings(favorites []models.Favorite) []models.Listing {
	listings := make([]models.Listing, len(favorites))
	for i, f := range favorites {
		l := f.Listing
		l.IsFavorite = true
		listings[i] = l
	}
	return listings
}

func (f Favorites) SetSize(w, h int) Favorites {
	f.width = w
	f.height = h
	return f
}

func (f Favorites) SetFavorites(favorites []models.Favorite) Favorites {
	f.favorites = favorites
	f.listings = ProjectListings(favorites)
	if f.selected >= len(favorites) {
		f.selected = 0
	}
	return f
}

func (f Favorites) Selected() *models.Listing {
	if f.selected < 0 || f.selected >= len(f.listings) {
		return nil
	}
	return &f.listings[f.selected]
}

func (f Favorites) Update(msg tea.Msg) (Favorites, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(f.listings) == 0 {
		return f, false
	}

	prev := f.selected
	switch key.String() {
	case "up", "k":
		if f.selected > 0 {
			f.selected--
		}
	case "down", "j":
		if f.selected < len(f.listings)-1 {
			f.selected++
		}
	case "home", "g":
		f.selected = 0
	case "end", "G":
		f.selected = len(f.listings) - 1
	}
	return f, f.selected != prev
}

func (f Favorites) View() string {
	title := styles.Title.Render("Favorites") +
		styles.StatLabel.Render(fmt.Sprintf("  %d saved", len(f.favorites)))

	if len(f.favorites) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			styles.Muted.Render("No favorites yet — press f on a listing"),
		)
	}

	header := fmt.Sprintf("%-32s %-20s %10s %4s %-12s %s",
		"Title", "Neighborhood", "Price", "Bed", "Saved", "Notes")
	rows := styles.TableHeader.Render(header) + "\n"

	for i, fav := range f.favorites {
		l := f.listings[i]
		row := fmt.Sprintf("%-32s %-20s %10s %4d %-12s %s",
			truncate(l.Title, 32),
			truncate(l.NeighborhoodNTA, 20),
			"$"+humanize.Comma(int64(l.Price)),
			l.Bedrooms,
			humanize.Time(fav.CreatedAt),
			truncate(fav.Notes, 24),
		)
		if i == f.selected {
			rows += styles.TableSelected.Render(row) + "\n"
		} else {
			rows += row + "\n"
		}
	}

	help := styles.Muted.Render("f remove from favorites")

	return lipgloss.JoinVertical(lipgloss.Left, title, rows, help)
}
