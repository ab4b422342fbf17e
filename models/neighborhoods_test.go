package models

import (
	"encoding/json"
	"testing"
)

func TestGroupedNeighborhoodsUnmarshal_PreservesOrder(t *testing.T) {
	data := []byte(`{"Queens":["Astoria"],"Brooklyn":["Park Slope","Williamsburg"]}`)

	var g GroupedNeighborhoods
	if err := json.Unmarshal(data, &g); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(g) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(g))
	}
	if g[0].Borough != "Queens" || g[1].Borough != "Brooklyn" {
		t.Fatalf("fetched order lost: %q, %q", g[0].Borough, g[1].Borough)
	}
	if len(g[1].Names) != 2 || g[1].Names[0] != "Park Slope" {
		t.Fatalf("unexpected names %v", g[1].Names)
	}
}

func TestGroupedNeighborhoodsSorted_FixedBoroughOrder(t *testing.T) {
	g := GroupedNeighborhoods{
		{Borough: "Staten Island", Names: []string{"St. George"}},
		{Borough: "Brooklyn", Names: []string{"Park Slope"}},
		{Borough: "Manhattan", Names: []string{"SoHo"}},
		{Borough: "Bronx", Names: []string{"Riverdale"}},
		{Borough: "Queens", Names: []string{"Astoria"}},
	}

	sorted := g.Sorted()
	want := []string{"Manhattan", "Brooklyn", "Queens", "Bronx", "Staten Island"}
	for i, borough := range want {
		if sorted[i].Borough != borough {
			t.Fatalf("position %d: expected %s, got %s", i, borough, sorted[i].Borough)
		}
	}
}

func TestGroupedNeighborhoodsSorted_UnknownBoroughsLast(t *testing.T) {
	g := GroupedNeighborhoods{
		{Borough: "Jersey City", Names: []string{"Downtown"}},
		{Borough: "Manhattan", Names: []string{"SoHo"}},
		{Borough: "Hoboken", Names: []string{"Waterfront"}},
	}

	sorted := g.Sorted()
	if sorted[0].Borough != "Manhattan" {
		t.Fatalf("expected Manhattan first, got %s", sorted[0].Borough)
	}
	if sorted[1].Borough != "Jersey City" || sorted[2].Borough != "Hoboken" {
		t.Fatalf("unknown boroughs must keep fetched order, got %s, %s",
			sorted[1].Borough, sorted[2].Borough)
	}
}

func TestGroupedNeighborhoodsSorted_DoesNotMutate(t *testing.T) {
	g := GroupedNeighborhoods{
		{Borough: "Brooklyn", Names: []string{"Park Slope"}},
		{Borough: "Manhattan", Names: []string{"SoHo"}},
	}
	_ = g.Sorted()
	if g[0].Borough != "Brooklyn" {
		t.Fatalf("Sorted must not mutate the receiver, got %s first", g[0].Borough)
	}
}
