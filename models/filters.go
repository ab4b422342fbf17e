package models

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// DefaultPageSize is the grid page size; the map view fetches up to
// MapFetchLimit listings in a single unpaginated request.
const (
	DefaultPageSize = 50
	MapFetchLimit   = 10000
)

// Filters is a complete search snapshot. Nil/empty fields are unset and
// are omitted from the outgoing query string entirely; zero is a real
// value only where a pointer is non-nil.
type Filters struct {
	MinPrice      *int
	MaxPrice      *int
	Bedrooms      []int
	Bathrooms     *float64
	Neighborhood  string
	Neighborhoods []string
	Source        string
	IsActive      *bool
	Skip          int
	Limit         int
}

func DefaultFilters() Filters {
	return Filters{Limit: DefaultPageSize}
}

// WithPage returns a copy windowed to the given 1-based page.
func (f Filters) WithPage(page, size int) Filters {
	if page < 1 {
		page = 1
	}
	f.Skip = (page - 1) * size
	f.Limit = size
	return f
}

// WithLimit returns a copy for an unpaginated fetch.
func (f Filters) WithLimit(limit int) Filters {
	f.Skip = 0
	f.Limit = limit
	return f
}

func (f Filters) Values() url.Values {
	v := url.Values{}
	if f.MinPrice != nil {
		v.Set("min_price", strconv.Itoa(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		v.Set("max_price", strconv.Itoa(*f.MaxPrice))
	}
	if len(f.Bedrooms) > 0 {
		beds := append([]int(nil), f.Bedrooms...)
		sort.Ints(beds)
		parts := make([]string, len(beds))
		for i, b := range beds {
			parts[i] = strconv.Itoa(b)
		}
		v.Set("bedrooms", strings.Join(parts, ","))
	}
	if f.Bathrooms != nil {
		v.Set("bathrooms", strconv.FormatFloat(*f.Bathrooms, 'f', -1, 64))
	}
	if f.Neighborhood != "" {
		v.Set("neighborhood", f.Neighborhood)
	}
	if len(f.Neighborhoods) > 0 {
		v.Set("neighborhood_nta", strings.Join(f.Neighborhoods, ","))
	}
	if f.Source != "" {
		v.Set("source", f.Source)
	}
	if f.IsActive != nil {
		v.Set("is_active", strconv.FormatBool(*f.IsActive))
	}
	if f.Skip > 0 {
		v.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

// Encode renders the query string with keys in stable order.
func (f Filters) Encode() string {
	return f.Values().Encode()
}
