package filter

import (
	"fmt"
	"strconv"

	"github.com/Agent-cat/Chaitra/internal/model"
	"github.com/Agent-cat/Chaitra/internal/repository"
)

// Package filter holds the browsing client's filter selections: which facets
// are active, how they render as removable chips, and how they translate into
// a search query. It is plain state with no I/O so it can back any UI.

// RangeValue is a numeric min/max pair. Both zero is the "unset" sentinel.
type RangeValue struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsSet reports whether the range deviates from the unset sentinel.
func (r RangeValue) IsSet() bool {
	return r.Min != 0 || r.Max != 0
}

// ActiveFilter is one removable chip shown for an active facet.
type ActiveFilter struct {
	Key   string
	Label string
}

// State tracks the user's current filter selections.
//
// Facet values may arrive from two entry points: the URL query string on
// navigation and the filter panel. The panel becomes the source of truth once
// opened; URL-driven values are only accepted before that.
type State struct {
	Price    RangeValue
	Size     RangeValue
	BHK      *int
	Type     *model.PropertyType
	Search   string
	Location string

	page        int
	limit       int
	seeded      bool
	panelOpened bool
	seq         uint64
}

// NewState returns a State at the unfiltered defaults: page 1, limit 10.
func NewState() *State {
	return &State{page: 1, limit: 10}
}

// Page returns the current page number.
func (s *State) Page() int { return s.page }

// Limit returns the current page size.
func (s *State) Limit() int { return s.limit }

// Seq returns a counter incremented on every criteria change. A caller can
// record it when issuing a request and drop responses whose recorded value is
// no longer current, which closes the stale-response window without any
// cancellation machinery.
func (s *State) Seq() uint64 { return s.seq }

func (s *State) changed() {
	s.page = 1
	s.seq++
}

// SetPage moves to page n without counting as a filter change.
func (s *State) SetPage(n int) {
	if n >= 1 {
		s.page = n
		s.seq++
	}
}

// SetLimit changes the page size and resets to page 1.
func (s *State) SetLimit(n int) {
	if n >= 1 {
		s.limit = n
		s.changed()
	}
}

// SyncFromQuery applies navigation-driven values. It is a no-op once the
// filter panel has been opened: from then on the panel owns the state.
func (s *State) SyncFromQuery(location string, ptype *model.PropertyType, price *RangeValue) {
	if s.panelOpened {
		return
	}
	if location != "" {
		s.Location = location
	}
	if ptype != nil {
		s.Type = ptype
	}
	if price != nil {
		s.Price = *price
	}
	s.seq++
}

// OpenPanel marks the panel opened and, on first open only, seeds the unset
// ranges from the dataset bounds so the user starts from full coverage rather
// than the sentinel.
func (s *State) OpenPanel(stats model.FilterStats) {
	s.panelOpened = true
	if s.seeded {
		return
	}
	s.seeded = true
	if !s.Price.IsSet() {
		s.Price = RangeValue{Min: stats.MinPrice, Max: stats.MaxPrice}
	}
	if !s.Size.IsSet() {
		s.Size = RangeValue{Min: stats.MinSize, Max: stats.MaxSize}
	}
}

// SetSearch replaces the free-text search and resets to page 1.
func (s *State) SetSearch(text string) {
	s.Search = text
	s.changed()
}

// SetPrice replaces the price range and resets to page 1.
func (s *State) SetPrice(r RangeValue) {
	s.Price = r
	s.changed()
}

// SetSize replaces the size range and resets to page 1.
func (s *State) SetSize(r RangeValue) {
	s.Size = r
	s.changed()
}

// SetBHK replaces the bedroom-count filter and resets to page 1.
func (s *State) SetBHK(bhk *int) {
	s.BHK = bhk
	s.changed()
}

// SetType replaces the type filter and resets to page 1.
func (s *State) SetType(t *model.PropertyType) {
	s.Type = t
	s.changed()
}

// Clear resets exactly the named facet to its unset sentinel, leaves every
// other facet untouched, and resets to page 1.
func (s *State) Clear(key string) {
	switch key {
	case "price":
		s.Price = RangeValue{}
	case "size":
		s.Size = RangeValue{}
	case "bhk":
		s.BHK = nil
	case "type":
		s.Type = nil
	case "location":
		s.Location = ""
	case "search":
		s.Search = ""
	default:
		return
	}
	s.changed()
}

// Reset returns every facet to its unset sentinel.
func (s *State) Reset() {
	s.Price = RangeValue{}
	s.Size = RangeValue{}
	s.BHK = nil
	s.Type = nil
	s.Location = ""
	s.Search = ""
	s.changed()
}

// ActiveFilters lists the facets deviating from the unfiltered default, as
// display chips in a stable order.
func (s *State) ActiveFilters() []ActiveFilter {
	var out []ActiveFilter
	if s.Search != "" {
		out = append(out, ActiveFilter{Key: "search", Label: fmt.Sprintf("Search: %s", s.Search)})
	}
	if s.Location != "" {
		out = append(out, ActiveFilter{Key: "location", Label: fmt.Sprintf("Location: %s", s.Location)})
	}
	if s.Type != nil {
		out = append(out, ActiveFilter{Key: "type", Label: fmt.Sprintf("Type: %s", *s.Type)})
	}
	if s.Price.IsSet() {
		out = append(out, ActiveFilter{
			Key:   "price",
			Label: fmt.Sprintf("Price: %s - %s", formatNum(s.Price.Min), formatNum(s.Price.Max)),
		})
	}
	if s.Size.IsSet() {
		out = append(out, ActiveFilter{
			Key:   "size",
			Label: fmt.Sprintf("Size: %s - %s", formatNum(s.Size.Min), formatNum(s.Size.Max)),
		})
	}
	if s.BHK != nil {
		out = append(out, ActiveFilter{Key: "bhk", Label: fmt.Sprintf("%d BHK", *s.BHK)})
	}
	return out
}

// Criteria translates the current state into a repository search query.
func (s *State) Criteria() repository.SearchQuery {
	q := repository.SearchQuery{
		Search:   s.Search,
		Location: s.Location,
		Type:     s.Type,
		BHK:      s.BHK,
		Page:     s.page,
		Limit:    s.limit,
	}
	if s.Price.IsSet() {
		min, max := s.Price.Min, s.Price.Max
		q.MinPrice, q.MaxPrice = &min, &max
	}
	if s.Size.IsSet() {
		min, max := s.Size.Min, s.Size.Max
		q.MinSize, q.MaxSize = &min, &max
	}
	return q
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
