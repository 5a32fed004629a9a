package model

import "time"

// PropertyType is the listing category.
type PropertyType string

const (
	TypeApartment        PropertyType = "APARTMENT"
	TypeVilla            PropertyType = "VILLA"
	TypePlot             PropertyType = "PLOT"
	TypeIndependentHouse PropertyType = "INDEPENDENTHOUSE"
)

// Valid reports whether t is one of the known categories.
func (t PropertyType) Valid() bool {
	switch t {
	case TypeApartment, TypeVilla, TypePlot, TypeIndependentHouse:
		return true
	}
	return false
}

// Property represents one real-estate listing.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Property struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Address       string        `json:"address"`
	Location      string        `json:"location"`
	Price         float64       `json:"price"`
	Size          float64       `json:"size"`
	BHK           *int          `json:"bhk"`
	Type          *PropertyType `json:"type"`
	Description   string        `json:"description"`
	Image         []string      `json:"image"`
	Video         []string      `json:"video"`
	IsRecommended bool          `json:"isRecommended"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// FilterStats describes the full unfiltered collection so filter controls can
// always offer complete ranges regardless of the active filter.
type FilterStats struct {
	MinPrice float64  `json:"minPrice"`
	MaxPrice float64  `json:"maxPrice"`
	MinSize  float64  `json:"minSize"`
	MaxSize  float64  `json:"maxSize"`
	Types    []string `json:"types"`
	BHKs     []int    `json:"bhks"`
}
