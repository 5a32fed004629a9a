// Package repository contains the data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import (
	"context"

	"github.com/Agent-cat/Chaitra/internal/model"
)

// PropertyRepository defines data access for property listings.
// No business logic here, strictly persistence operations.
type PropertyRepository interface {
	// Create inserts a new property row.
	// The caller provides required fields (ID, timestamps) according to the schema defaults.
	// Returns the stored property (may include values set by the DB).
	Create(ctx context.Context, p *model.Property) (*model.Property, error)

	// FindByID returns a property by its ID.
	FindByID(ctx context.Context, id string) (*model.Property, error)

	// FindPage returns one page of properties matching the folded conditions,
	// ordered by creation time descending.
	FindPage(ctx context.Context, conds []Condition, pq PageQuery) ([]model.Property, error)

	// Count returns the number of rows matching the folded conditions.
	Count(ctx context.Context, conds []Condition) (int, error)

	// Bounds returns the global min/max of price and size over the whole table.
	Bounds(ctx context.Context) (Bounds, error)

	// DistinctTypes returns the distinct non-null type values present.
	DistinctTypes(ctx context.Context) ([]string, error)

	// DistinctBHKs returns the distinct non-null bhk values present, ascending.
	DistinctBHKs(ctx context.Context) ([]int, error)

	// Update applies only the fields set in patch and returns the updated row.
	Update(ctx context.Context, id string, patch PropertyPatch) (*model.Property, error)

	// Delete removes a property by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// Bounds holds min/max aggregates over price and size.
// Zero values are returned for an empty table.
type Bounds struct {
	MinPrice float64
	MaxPrice float64
	MinSize  float64
	MaxSize  float64
}

// PropertyPatch is a partial update: nil fields are left untouched.
type PropertyPatch struct {
	Name          *string
	Address       *string
	Location      *string
	Price         *float64
	Size          *float64
	BHK           *int
	Type          *model.PropertyType
	Description   *string
	Image         *[]string
	Video         *[]string
	IsRecommended *bool
}

// IsZero reports whether the patch would change nothing.
func (p PropertyPatch) IsZero() bool {
	return p.Name == nil && p.Address == nil && p.Location == nil &&
		p.Price == nil && p.Size == nil && p.BHK == nil && p.Type == nil &&
		p.Description == nil && p.Image == nil && p.Video == nil &&
		p.IsRecommended == nil
}
