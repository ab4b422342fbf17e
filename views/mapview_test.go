package views

import (
	"testing"

	"apthunt/models"
)

func coord(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func TestSetListings_KeepsOnlyCoordinates(t *testing.T) {
	lat, lng := coord(40.72, -74.0)
	m := NewMap().SetListings([]models.Listing{
		{ID: 1, Latitude: lat, Longitude: lng},
		{ID: 2},
	})
	if len(m.listings) != 1 || m.listings[0].ID != 1 {
		t.Fatalf("listings without coordinates must be dropped, got %d", len(m.listings))
	}
}

func TestPlot_CornersLandOnGridEdges(t *testing.T) {
	nwLat, nwLng := coord(40.9, -74.2)
	seLat, seLng := coord(40.5, -73.7)
	m := NewMap().SetListings([]models.Listing{
		{ID: 1, Latitude: nwLat, Longitude: nwLng},
		{ID: 2, Latitude: seLat, Longitude: seLng},
	})

	grid := m.plot(20, 10)
	if grid[0][0] == cellEmpty {
		t.Fatalf("north-west listing must land in the top-left cell")
	}
	if grid[9][19] == cellEmpty {
		t.Fatalf("south-east listing must land in the bottom-right cell")
	}
}

func TestPlot_FavoriteWinsCell(t *testing.T) {
	lat1, lng1 := coord(40.7, -74.0)
	lat2, lng2 := coord(40.7, -74.0)
	lat3, lng3 := coord(40.8, -73.9)
	m := NewMap().SetListings([]models.Listing{
		{ID: 1, Latitude: lat1, Longitude: lng1},
		{ID: 2, Latitude: lat2, Longitude: lng2, IsFavorite: true},
		{ID: 3, Latitude: lat3, Longitude: lng3},
	})
	m.selected = 2 // keep the cursor off the shared cell

	grid := m.plot(20, 10)
	found := false
	for _, row := range grid {
		for _, cell := range row {
			if cell == cellFavorite {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("a favorite sharing a cell with a plain listing must render as favorite")
	}
}

func TestPlot_SingleListingDoesNotDivideByZero(t *testing.T) {
	lat, lng := coord(40.7, -74.0)
	m := NewMap().SetListings([]models.Listing{{ID: 1, Latitude: lat, Longitude: lng}})

	grid := m.plot(20, 10)
	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell != cellEmpty {
				count++
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one plotted cell, got %d", count)
	}
}

func TestMapSelection_Wraps(t *testing.T) {
	lat1, lng1 := coord(40.7, -74.0)
	lat2, lng2 := coord(40.8, -73.9)
	m := NewMap().SetListings([]models.Listing{
		{ID: 1, Latitude: lat1, Longitude: lng1},
		{ID: 2, Latitude: lat2, Longitude: lng2},
	})

	if sel := m.Selected(); sel == nil || sel.ID != 1 {
		t.Fatalf("expected first listing selected initially")
	}
	m.selected = 1
	m.selected = (m.selected + 1) % len(m.listings)
	if sel := m.Selected(); sel == nil || sel.ID != 1 {
		t.Fatalf("selection must wrap past the end")
	}
}
