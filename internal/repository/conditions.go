package repository

import "github.com/Agent-cat/Chaitra/internal/model"

// Condition is one predicate in a search. Conditions in a slice are AND-ed;
// an OrGroup is satisfied when any of its members match. Keeping the variants
// as a small closed set lets implementations fold them exhaustively into their
// native query syntax.
type Condition interface {
	isCondition()
}

// Contains matches rows whose column case-insensitively contains Value.
type Contains struct {
	Column string
	Value  string
}

// Equals matches rows whose column equals Value exactly.
type Equals struct {
	Column string
	Value  any
}

// Range matches rows whose numeric column lies within the given inclusive
// bounds. A nil bound is open on that side.
type Range struct {
	Column string
	Min    *float64
	Max    *float64
}

// OrGroup matches rows satisfying at least one member condition.
type OrGroup struct {
	Members []Condition
}

func (Contains) isCondition() {}
func (Equals) isCondition()   {}
func (Range) isCondition()    {}
func (OrGroup) isCondition()  {}

// SearchQuery carries caller-supplied filter criteria plus pagination.
// All filter fields are optional; zero values mean "not set".
type SearchQuery struct {
	Search   string
	Location string
	Type     *model.PropertyType
	MinPrice *float64
	MaxPrice *float64
	MinSize  *float64
	MaxSize  *float64
	BHK      *int
	Page     int
	Limit    int
}

// Normalize applies pagination defaults: page 1, limit 10.
func (q SearchQuery) Normalize() SearchQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	return q
}

// Offset returns the row offset for the current page.
func (q SearchQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Conditions folds the active criteria into predicate conditions.
//
// Search and location share one OR-group: a listing matches if any of
// name/address/description/location contains the search text, OR its location
// contains the location text. A row matching on location alone is included
// even when an unrelated search string is set.
func (q SearchQuery) Conditions() []Condition {
	var conds []Condition

	var group []Condition
	if q.Search != "" {
		for _, col := range []string{"name", "address", "description", "location"} {
			group = append(group, Contains{Column: col, Value: q.Search})
		}
	}
	if q.Location != "" {
		group = append(group, Contains{Column: "location", Value: q.Location})
	}
	if len(group) > 0 {
		conds = append(conds, OrGroup{Members: group})
	}

	if q.Type != nil {
		conds = append(conds, Equals{Column: "type", Value: string(*q.Type)})
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		conds = append(conds, Range{Column: "price", Min: q.MinPrice, Max: q.MaxPrice})
	}
	if q.MinSize != nil || q.MaxSize != nil {
		conds = append(conds, Range{Column: "size", Min: q.MinSize, Max: q.MaxSize})
	}
	if q.BHK != nil {
		conds = append(conds, Equals{Column: "bhk", Value: *q.BHK})
	}
	return conds
}
