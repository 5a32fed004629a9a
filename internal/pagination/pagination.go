package pagination

// Package pagination implements the page navigation state machine used by the
// listing views: page/limit/total bookkeeping, validated page transitions, and
// the collapsed page-control display with ellipsis markers.

const DefaultLimit = 10

// Pager tracks pagination state for one result set.
type Pager struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// New returns a Pager at page 1 with the given page size.
func New(limit int) *Pager {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Pager{Page: 1, Limit: limit}
}

// SetTotal records the result-set size and recomputes TotalPages. An empty
// result set has zero pages. The current page is clamped so the pager never
// stays on an out-of-range page.
func (p *Pager) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.Total = total
	if total == 0 {
		p.TotalPages = 0
		p.Page = 1
		return
	}
	p.TotalPages = (total + p.Limit - 1) / p.Limit
	if p.Page > p.TotalPages {
		p.Page = p.TotalPages
	}
}

// SetPage moves to page n. The transition is valid only for 1 <= n <= TotalPages;
// it reports whether the page changed.
func (p *Pager) SetPage(n int) bool {
	if n < 1 || n > p.TotalPages || n == p.Page {
		return false
	}
	p.Page = n
	return true
}

// Reset returns to page 1. Any filter or search change must call this before
// re-fetching.
func (p *Pager) Reset() {
	p.Page = 1
}

// Offset returns the row offset for the current page.
func (p *Pager) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Item is one entry in the page-control strip: either a page number or an
// ellipsis placeholder.
type Item struct {
	Page     int
	Ellipsis bool
}

// Items renders the page controls: the first and last page are always shown,
// pages within window of the current page are shown, and each collapsed gap
// becomes a single ellipsis.
func (p *Pager) Items(window int) []Item {
	if p.TotalPages == 0 {
		return nil
	}
	if window < 0 {
		window = 0
	}

	shown := func(n int) bool {
		if n == 1 || n == p.TotalPages {
			return true
		}
		return n >= p.Page-window && n <= p.Page+window
	}

	var items []Item
	inGap := false
	for n := 1; n <= p.TotalPages; n++ {
		if shown(n) {
			items = append(items, Item{Page: n})
			inGap = false
			continue
		}
		if !inGap {
			items = append(items, Item{Ellipsis: true})
			inGap = true
		}
	}
	return items
}
