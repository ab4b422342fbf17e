package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type NeighborhoodGroup struct {
	Borough string
	Names   []string
}

// GroupedNeighborhoods holds the /listings/neighborhoods/grouped response.
// The backend sends a JSON object; decoding preserves key order so that
// boroughs outside the fixed display order keep their fetched position.
type GroupedNeighborhoods []NeighborhoodGroup

func (g *GroupedNeighborhoods) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("grouped neighborhoods: expected object, got %v", tok)
	}

	var out GroupedNeighborhoods
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		borough, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("grouped neighborhoods: bad key %v", keyTok)
		}
		var names []string
		if err := dec.Decode(&names); err != nil {
			return err
		}
		out = append(out, NeighborhoodGroup{Borough: borough, Names: names})
	}

	*g = out
	return nil
}

// Display order of the five boroughs. Anything the backend sends beyond
// these sorts last, keeping its fetched relative order.
var boroughRank = map[string]int{
	"Manhattan":     0,
	"Brooklyn":      1,
	"Queens":        2,
	"Bronx":         3,
	"Staten Island": 4,
}

// Sorted returns a copy in display order.
func (g GroupedNeighborhoods) Sorted() GroupedNeighborhoods {
	ordered := append(GroupedNeighborhoods(nil), g...)
	// Insertion sort keeps fetched order stable among unranked boroughs.
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && rankOf(ordered[j].Borough) < rankOf(ordered[j-1].Borough); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}

func rankOf(borough string) int {
	if r, ok := boroughRank[borough]; ok {
		return r
	}
	return len(boroughRank)
}
