package views

import (
	"testing"

	"apthunt/models"
)

func TestProjectListings_ForcesFavoriteFlag(t *testing.T) {
	favorites := []models.Favorite{
		{ID: 1, ListingID: 10, Listing: models.Listing{ID: 10, Title: "Loft", IsFavorite: false}},
		{ID: 2, ListingID: 11, Listing: models.Listing{ID: 11, Title: "Studio", IsFavorite: true}},
	}

	listings := ProjectListings(favorites)
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}
	for _, l := range listings {
		if !l.IsFavorite {
			t.Fatalf("projected listing %d must have is_favorite forced true", l.ID)
		}
	}
	if listings[0].Title != "Loft" {
		t.Fatalf("snapshot fields must pass through, got %q", listings[0].Title)
	}
}

func TestSetFavorites_ClampsSelection(t *testing.T) {
	favorites := []models.Favorite{
		{ID: 1, Listing: models.Listing{ID: 10}},
		{ID: 2, Listing: models.Listing{ID: 11}},
	}
	f := NewFavorites().SetFavorites(favorites)
	f.selected = 1
	f = f.SetFavorites(favorites[:1])
	if f.selected != 0 {
		t.Fatalf("selection past the shrunken set must reset, got %d", f.selected)
	}
	if sel := f.Selected(); sel == nil || sel.ID != 10 {
		t.Fatalf("unexpected selection %+v", sel)
	}
}
