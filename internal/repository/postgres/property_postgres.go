package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Agent-cat/Chaitra/internal/model"
	"github.com/Agent-cat/Chaitra/internal/repository"
)

// PropertyPostgres is a PostgreSQL implementation of repository.PropertyRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type PropertyPostgres struct {
	db *sql.DB
}

// NewPropertyPostgres creates a new PropertyPostgres repository.
func NewPropertyPostgres(db *sql.DB) *PropertyPostgres {
	return &PropertyPostgres{db: db}
}

var _ repository.PropertyRepository = (*PropertyPostgres)(nil)

const propertyColumns = `id, name, address, location, price, size, bhk, type, description, image, video, is_recommended, created_at, updated_at`

// buildWhere folds predicate conditions into a WHERE clause. Conditions are
// AND-ed; OrGroup members are OR-ed inside parentheses. Returns an empty
// string when there are no conditions.
func buildWhere(conds []repository.Condition, args *[]any) string {
	if len(conds) == 0 {
		return ""
	}
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, renderCondition(c, args))
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

func renderCondition(c repository.Condition, args *[]any) string {
	switch v := c.(type) {
	case repository.Contains:
		*args = append(*args, "%"+v.Value+"%")
		return fmt.Sprintf("%s ILIKE $%d", v.Column, len(*args))
	case repository.Equals:
		*args = append(*args, v.Value)
		return fmt.Sprintf("%s = $%d", v.Column, len(*args))
	case repository.Range:
		var frags []string
		if v.Min != nil {
			*args = append(*args, *v.Min)
			frags = append(frags, fmt.Sprintf("%s >= $%d", v.Column, len(*args)))
		}
		if v.Max != nil {
			*args = append(*args, *v.Max)
			frags = append(frags, fmt.Sprintf("%s <= $%d", v.Column, len(*args)))
		}
		return strings.Join(frags, " AND ")
	case repository.OrGroup:
		members := make([]string, 0, len(v.Members))
		for _, m := range v.Members {
			members = append(members, renderCondition(m, args))
		}
		return "(" + strings.Join(members, " OR ") + ")"
	default:
		// Closed set; unreachable for conditions produced by SearchQuery.
		return "TRUE"
	}
}

func scanProperty(row interface{ Scan(...any) error }) (*model.Property, error) {
	var (
		p        model.Property
		bhk      sql.NullInt64
		ptype    sql.NullString
		imageRaw []byte
		videoRaw []byte
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Address,
		&p.Location,
		&p.Price,
		&p.Size,
		&bhk,
		&ptype,
		&p.Description,
		&imageRaw,
		&videoRaw,
		&p.IsRecommended,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if bhk.Valid {
		v := int(bhk.Int64)
		p.BHK = &v
	}
	if ptype.Valid {
		t := model.PropertyType(ptype.String)
		p.Type = &t
	}
	if err := json.Unmarshal(imageRaw, &p.Image); err != nil {
		return nil, fmt.Errorf("decode image paths: %w", err)
	}
	if len(videoRaw) > 0 {
		if err := json.Unmarshal(videoRaw, &p.Video); err != nil {
			return nil, fmt.Errorf("decode video paths: %w", err)
		}
	}
	return &p, nil
}

// Create inserts a new property row and returns the stored record.
func (r *PropertyPostgres) Create(ctx context.Context, p *model.Property) (*model.Property, error) {
	const q = `
		INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + propertyColumns + `
	`
	image, err := json.Marshal(emptyIfNil(p.Image))
	if err != nil {
		return nil, err
	}
	video, err := json.Marshal(emptyIfNil(p.Video))
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.Name,
		p.Address,
		p.Location,
		p.Price,
		p.Size,
		nullableInt(p.BHK),
		nullableType(p.Type),
		p.Description,
		image,
		video,
		p.IsRecommended,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return scanProperty(row)
}

// FindByID fetches a single property by its ID.
func (r *PropertyPostgres) FindByID(ctx context.Context, id string) (*model.Property, error) {
	const q = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE id = $1
	`
	return scanProperty(r.db.QueryRowContext(ctx, q, id))
}

// FindPage returns one page of matching properties, most recent first.
func (r *PropertyPostgres) FindPage(ctx context.Context, conds []repository.Condition, pq repository.PageQuery) ([]model.Property, error) {
	var args []any
	where := buildWhere(conds, &args)
	args = append(args, pq.Limit, pq.Offset)
	q := fmt.Sprintf(`
		SELECT `+propertyColumns+`
		FROM properties%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of properties matching the conditions.
func (r *PropertyPostgres) Count(ctx context.Context, conds []repository.Condition) (int, error) {
	var args []any
	where := buildWhere(conds, &args)
	q := `SELECT COUNT(*) FROM properties` + where
	var total int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Bounds returns global min/max price and size over the whole table.
func (r *PropertyPostgres) Bounds(ctx context.Context) (repository.Bounds, error) {
	const q = `
		SELECT COALESCE(MIN(price), 0), COALESCE(MAX(price), 0),
		       COALESCE(MIN(size), 0), COALESCE(MAX(size), 0)
		FROM properties
	`
	var b repository.Bounds
	err := r.db.QueryRowContext(ctx, q).Scan(&b.MinPrice, &b.MaxPrice, &b.MinSize, &b.MaxSize)
	if err != nil {
		return repository.Bounds{}, err
	}
	return b, nil
}

// DistinctTypes returns the distinct non-null type values present.
func (r *PropertyPostgres) DistinctTypes(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT type FROM properties WHERE type IS NOT NULL ORDER BY type`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DistinctBHKs returns the distinct non-null bhk values present, ascending.
func (r *PropertyPostgres) DistinctBHKs(ctx context.Context) ([]int, error) {
	const q = `SELECT DISTINCT bhk FROM properties WHERE bhk IS NOT NULL ORDER BY bhk`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int, 0)
	for rows.Next() {
		var b int
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update applies only the fields set in patch and returns the updated row.
// updated_at is always bumped alongside the changed fields.
func (r *PropertyPostgres) Update(ctx context.Context, id string, patch repository.PropertyPatch) (*model.Property, error) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Size != nil {
		set("size", *patch.Size)
	}
	if patch.BHK != nil {
		set("bhk", *patch.BHK)
	}
	if patch.Type != nil {
		set("type", string(*patch.Type))
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Image != nil {
		b, err := json.Marshal(emptyIfNil(*patch.Image))
		if err != nil {
			return nil, err
		}
		set("image", b)
	}
	if patch.Video != nil {
		b, err := json.Marshal(emptyIfNil(*patch.Video))
		if err != nil {
			return nil, err
		}
		set("video", b)
	}
	if patch.IsRecommended != nil {
		set("is_recommended", *patch.IsRecommended)
	}
	if len(sets) == 0 {
		return nil, sql.ErrNoRows
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	q := fmt.Sprintf(`
		UPDATE properties SET %s
		WHERE id = $%d
		RETURNING `+propertyColumns+`
	`, strings.Join(sets, ", "), len(args))

	return scanProperty(r.db.QueryRowContext(ctx, q, args...))
}

// Delete removes a property by ID. It does not return an error if the row does not exist.
func (r *PropertyPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM properties WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableType(t *model.PropertyType) any {
	if t == nil {
		return nil
	}
	return string(*t)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
