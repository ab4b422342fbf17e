package search

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"apthunt/models"
	"apthunt/styles"
)

// Result reports what a key delivered to the form asks of the shell.
type Result int

const (
	ResultNone Result = iota
	// ResultSubmit: run a search with the form's current snapshot.
	ResultSubmit
	// ResultClear: the form reset itself; run a search with the default
	// filter immediately, no submit required.
	ResultClear
	// ResultBlur: focus left the form entirely.
	ResultBlur
)

const (
	fieldMinPrice = iota
	fieldMaxPrice
	fieldBedrooms
	fieldNeighborhoods
	fieldCount
)

var bedroomChoices = []int{0, 1, 2, 3, 4}

// Form accumulates one Filters snapshot from discrete inputs and emits
// it as a unit on submit. Empty price inputs are unset, not zero.
type Form struct {
	minPrice textinput.Model
	maxPrice textinput.Model
	bedrooms map[int]bool
	auto     Autocomplete
	field    int
	pageSize int
}

func NewForm(pageSize int) Form {
	min := textinput.New()
	min.Placeholder = "min $"
	min.CharLimit = 7
	min.Width = 8
	max := textinput.New()
	max.Placeholder = "max $"
	max.CharLimit = 7
	max.Width = 8

	return Form{
		minPrice: min,
		maxPrice: max,
		bedrooms: make(map[int]bool),
		auto:     NewAutocomplete(),
		pageSize: pageSize,
	}
}

func (f Form) SetNeighborhoods(grouped models.GroupedNeighborhoods) Form {
	f.auto = f.auto.SetOptions(grouped)
	return f
}

func (f Form) Focus() (Form, tea.Cmd) {
	return f.focusField(fieldMinPrice)
}

func (f Form) focusField(field int) (Form, tea.Cmd) {
	f.field = field
	f.minPrice.Blur()
	f.maxPrice.Blur()
	f.auto = f.auto.Blur()

	var cmd tea.Cmd
	switch field {
	case fieldMinPrice:
		cmd = f.minPrice.Focus()
	case fieldMaxPrice:
		cmd = f.maxPrice.Focus()
	case fieldNeighborhoods:
		f.auto, cmd = f.auto.Focus()
	}
	return f, cmd
}

// Filters builds the outgoing snapshot. Unset fields stay nil and never
// reach the query string.
func (f Form) Filters() models.Filters {
	filters := models.Filters{Limit: f.pageSize}

	if v, ok := parsePrice(f.minPrice.Value()); ok {
		filters.MinPrice = &v
	}
	if v, ok := parsePrice(f.maxPrice.Value()); ok {
		filters.MaxPrice = &v
	}

	var beds []int
	for b, on := range f.bedrooms {
		if on {
			beds = append(beds, b)
		}
	}
	sort.Ints(beds)
	filters.Bedrooms = beds

	filters.Neighborhoods = f.auto.Selected()
	return filters
}

func parsePrice(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Clear resets every input and returns the default filter the shell must
// search with right away.
func (f Form) Clear() (Form, models.Filters) {
	f.minPrice.SetValue("")
	f.maxPrice.SetValue("")
	f.bedrooms = make(map[int]bool)
	selected := f.auto.Selected()
	for _, name := range selected {
		f.auto = f.auto.RemoveSelected(name)
	}
	return f, models.Filters{Limit: f.pageSize}
}

func (f Form) Update(msg tea.Msg) (Form, tea.Cmd, Result) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil, ResultNone
	}

	switch key.String() {
	case "ctrl+x":
		f, _ = f.Clear()
		return f, nil, ResultClear

	case "tab":
		if f.field == fieldNeighborhoods {
			f.auto = f.auto.Blur()
		}
		next := (f.field + 1) % fieldCount
		f, cmd := f.focusField(next)
		return f, cmd, ResultNone

	case "shift+tab":
		if f.field == fieldNeighborhoods {
			f.auto = f.auto.Blur()
		}
		prev := (f.field + fieldCount - 1) % fieldCount
		f, cmd := f.focusField(prev)
		return f, cmd, ResultNone
	}

	switch f.field {
	case fieldNeighborhoods:
		switch key.String() {
		case "esc":
			if !f.auto.Open() {
				f.auto = f.auto.Blur()
				return f, nil, ResultBlur
			}
		case "backspace":
			if f.auto.Query() == "" {
				f.auto = f.auto.RemoveLastSelected()
				return f, nil, ResultNone
			}
		}
		var cmd tea.Cmd
		f.auto, cmd = f.auto.Update(msg)
		return f, cmd, ResultNone

	case fieldBedrooms:
		switch key.String() {
		case "esc":
			return f, nil, ResultBlur
		case "enter":
			return f, nil, ResultSubmit
		case "0", "1", "2", "3", "4":
			b := int(key.String()[0] - '0')
			f.bedrooms[b] = !f.bedrooms[b]
			return f, nil, ResultNone
		}
		return f, nil, ResultNone

	default: // price fields
		switch key.String() {
		case "esc":
			f.minPrice.Blur()
			f.maxPrice.Blur()
			return f, nil, ResultBlur
		case "enter":
			return f, nil, ResultSubmit
		}
		var cmd tea.Cmd
		if f.field == fieldMinPrice {
			f.minPrice, cmd = f.minPrice.Update(msg)
		} else {
			f.maxPrice, cmd = f.maxPrice.Update(msg)
		}
		return f, cmd, ResultNone
	}
}

func (f Form) View() string {
	label := func(field int, text string) string {
		if f.field == field {
			return styles.StatValue.Render(text)
		}
		return styles.StatLabel.Render(text)
	}

	priceRow := lipgloss.JoinHorizontal(lipgloss.Top,
		label(fieldMinPrice, "Price "),
		f.minPrice.View(),
		styles.StatLabel.Render(" – "),
		f.maxPrice.View(),
	)

	var chips []string
	for _, b := range bedroomChoices {
		text := strconv.Itoa(b)
		if b == bedroomChoices[len(bedroomChoices)-1] {
			text += "+"
		}
		if f.bedrooms[b] {
			chips = append(chips, styles.ChipActive.Render(text))
		} else {
			chips = append(chips, styles.Chip.Render(text))
		}
	}
	bedroomRow := label(fieldBedrooms, "Beds  ") + strings.Join(chips, " ")

	neighborhoodRow := label(fieldNeighborhoods, "Hoods ") + "\n" + f.auto.View()

	help := styles.Muted.Render("tab fields  enter search  ctrl+x clear  esc done")

	return lipgloss.JoinVertical(lipgloss.Left,
		priceRow,
		bedroomRow,
		neighborhoodRow,
		help,
	)
}
