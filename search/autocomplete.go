package search

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"apthunt/models"
	"apthunt/styles"
)

// Autocomplete is a grouped multi-select type-ahead over neighborhoods.
// Candidates are everything fetched, minus already-selected names, minus
// anything not containing the query substring; boroughs left with no
// candidates are dropped from the dropdown.
type Autocomplete struct {
	input     textinput.Model
	grouped   models.GroupedNeighborhoods
	selected  []string
	open      bool
	highlight int // flat index into candidates, -1 = none
}

func NewAutocomplete() Autocomplete {
	ti := textinput.New()
	ti.Placeholder = "neighborhood"
	ti.CharLimit = 64
	ti.Width = 28
	return Autocomplete{input: ti, highlight: -1}
}

func (a Autocomplete) SetOptions(grouped models.GroupedNeighborhoods) Autocomplete {
	a.grouped = grouped.Sorted()
	return a
}

func (a Autocomplete) Selected() []string {
	return append([]string(nil), a.selected...)
}

func (a Autocomplete) Open() bool { return a.open }

func (a Autocomplete) Query() string { return a.input.Value() }

func (a Autocomplete) Highlight() int { return a.highlight }

func (a Autocomplete) Focused() bool { return a.input.Focused() }

func (a Autocomplete) Focus() (Autocomplete, tea.Cmd) {
	cmd := a.input.Focus()
	return a, cmd
}

// Blur is the terminal analogue of clicking outside the widget: the
// dropdown closes, the selection and query are untouched.
func (a Autocomplete) Blur() Autocomplete {
	a.input.Blur()
	a.open = false
	a.highlight = -1
	return a
}

// Candidates returns the dropdown contents in borough display order.
func (a Autocomplete) Candidates() []models.NeighborhoodGroup {
	query := strings.ToLower(a.input.Value())
	taken := make(map[string]bool, len(a.selected))
	for _, name := range a.selected {
		taken[name] = true
	}

	var groups []models.NeighborhoodGroup
	for _, group := range a.grouped {
		var names []string
		for _, name := range group.Names {
			if taken[name] {
				continue
			}
			if query != "" && !strings.Contains(strings.ToLower(name), query) {
				continue
			}
			names = append(names, name)
		}
		if len(names) > 0 {
			groups = append(groups, models.NeighborhoodGroup{Borough: group.Borough, Names: names})
		}
	}
	return groups
}

func (a Autocomplete) candidateCount() int {
	n := 0
	for _, g := range a.Candidates() {
		n += len(g.Names)
	}
	return n
}

func (a Autocomplete) candidateAt(index int) (string, bool) {
	if index < 0 {
		return "", false
	}
	for _, g := range a.Candidates() {
		if index < len(g.Names) {
			return g.Names[index], true
		}
		index -= len(g.Names)
	}
	return "", false
}

func (a Autocomplete) Update(msg tea.Msg) (Autocomplete, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	switch key.String() {
	case "down":
		if !a.open {
			a.open = true
			return a, nil
		}
		if last := a.candidateCount() - 1; a.highlight < last {
			a.highlight++
		}
		return a, nil

	case "up":
		if a.open && a.highlight > -1 {
			a.highlight--
		}
		return a, nil

	case "enter":
		if !a.open {
			a.open = true
			return a, nil
		}
		if name, ok := a.candidateAt(a.highlight); ok {
			return a.commit(name)
		}
		return a, nil

	case "esc":
		a.open = false
		a.highlight = -1
		return a, nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() != before {
		a.open = true
		a.highlight = -1
	}
	return a, cmd
}

func (a Autocomplete) commit(name string) (Autocomplete, tea.Cmd) {
	a.selected = append(a.selected, name)
	a.input.SetValue("")
	a.open = false
	a.highlight = -1
	cmd := a.input.Focus()
	return a, cmd
}

// RemoveSelected drops a chip. The dropdown stays closed and the query
// is not refilled.
func (a Autocomplete) RemoveSelected(name string) Autocomplete {
	kept := a.selected[:0:0]
	for _, s := range a.selected {
		if s != name {
			kept = append(kept, s)
		}
	}
	a.selected = kept
	return a
}

// RemoveLastSelected pops the most recent chip, for backspace on an
// empty query.
func (a Autocomplete) RemoveLastSelected() Autocomplete {
	if len(a.selected) == 0 {
		return a
	}
	return a.RemoveSelected(a.selected[len(a.selected)-1])
}

func (a Autocomplete) View() string {
	lines := []string{a.input.View()}

	if len(a.selected) > 0 {
		chips := make([]string, len(a.selected))
		for i, name := range a.selected {
			chips[i] = styles.Chip.Render(name + " ✕")
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(chips, " ")))
	}

	if a.open {
		flat := 0
		for _, group := range a.Candidates() {
			lines = append(lines, styles.DropdownGroup.Render(group.Borough))
			for _, name := range group.Names {
				if flat == a.highlight {
					lines = append(lines, styles.DropdownHighlight.Render(name))
				} else {
					lines = append(lines, styles.DropdownItem.Render(name))
				}
				flat++
			}
		}
		if flat == 0 {
			lines = append(lines, styles.Muted.Render("  no matches"))
		}
	}

	return strings.Join(lines, "\n")
}
