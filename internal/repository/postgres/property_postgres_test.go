package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/Agent-cat/Chaitra/internal/model"
	"github.com/Agent-cat/Chaitra/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var propertyTestColumns = []string{
	"id", "name", "address", "location", "price", "size", "bhk", "type",
	"description", "image", "video", "is_recommended", "created_at", "updated_at",
}

func propertyRow(id string) []driverValue {
	now := time.Now().UTC()
	return []driverValue{
		id, "Sea View", "12 Beach Rd", "Goa", 500000.0, 1200.0, int64(2), "VILLA",
		"near the beach", []byte(`["/properties/1-a.png"]`), []byte(`[]`), false, now, now,
	}
}

type driverValue = driver.Value

func addPropertyRow(rows *sqlmock.Rows, vals []driverValue) *sqlmock.Rows {
	return rows.AddRow(vals...)
}

func floatPtr(v float64) *float64 { return &v }

func TestPropertyPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	bhk := 2
	villa := model.TypeVilla
	p := &model.Property{
		ID:          "test-uuid",
		Name:        "Sea View",
		Address:     "12 Beach Rd",
		Location:    "Goa",
		Price:       500000,
		Size:        1200,
		BHK:         &bhk,
		Type:        &villa,
		Description: "near the beach",
		Image:       []string{"/properties/1-a.png"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	rows := addPropertyRow(sqlmock.NewRows(propertyTestColumns), propertyRow("test-uuid"))

	mock.ExpectQuery("INSERT INTO properties").
		WithArgs(
			p.ID, p.Name, p.Address, p.Location, p.Price, p.Size, bhk, "VILLA",
			p.Description, []byte(`["/properties/1-a.png"]`), []byte(`[]`), false, now, now,
		).
		WillReturnRows(rows)

	stored, err := repo.Create(ctx, p)

	assert.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "test-uuid", stored.ID)
	require.NotNil(t, stored.BHK)
	assert.Equal(t, 2, *stored.BHK)
	require.NotNil(t, stored.Type)
	assert.Equal(t, model.TypeVilla, *stored.Type)
	assert.Equal(t, []string{"/properties/1-a.png"}, stored.Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := addPropertyRow(sqlmock.NewRows(propertyTestColumns), propertyRow("test-id"))

		mock.ExpectQuery("SELECT (.+) FROM properties\\s+WHERE id = ").
			WithArgs("test-id").
			WillReturnRows(rows)

		p, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "test-id", p.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM properties\\s+WHERE id = ").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, p)
	})

	t.Run("null bhk and type", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows(propertyTestColumns).AddRow(
			"plot-id", "Plot", "Field Rd", "", 90000.0, 600.0, nil, nil,
			"", []byte(`[]`), []byte(`[]`), false, now, now,
		)
		mock.ExpectQuery("SELECT (.+) FROM properties\\s+WHERE id = ").
			WithArgs("plot-id").
			WillReturnRows(rows)

		p, err := repo.FindByID(ctx, "plot-id")

		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Nil(t, p.BHK)
		assert.Nil(t, p.Type)
	})
}

func TestPropertyPostgres_FindPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyPostgres(db)
	ctx := context.Background()

	t.Run("no conditions", func(t *testing.T) {
		rows := addPropertyRow(sqlmock.NewRows(propertyTestColumns), propertyRow("p1"))

		mock.ExpectQuery("SELECT (.+) FROM properties\\s+ORDER BY created_at DESC, id DESC\\s+LIMIT \\$1 OFFSET \\$2").
			WithArgs(10, 0).
			WillReturnRows(rows)

		items, err := repo.FindPage(ctx, nil, repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("search and location share one OR group", func(t *testing.T) {
		q := repository.SearchQuery{Search: "lake", Location: "goa"}

		rows := addPropertyRow(sqlmock.NewRows(propertyTestColumns), propertyRow("p1"))

		mock.ExpectQuery(`WHERE \(name ILIKE \$1 OR address ILIKE \$2 OR description ILIKE \$3 OR location ILIKE \$4 OR location ILIKE \$5\)`).
			WithArgs("%lake%", "%lake%", "%lake%", "%lake%", "%goa%", 10, 0).
			WillReturnRows(rows)

		items, err := repo.FindPage(ctx, q.Conditions(), repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("inclusive range and exact bhk", func(t *testing.T) {
		bhk := 3
		q := repository.SearchQuery{
			MinPrice: floatPtr(100),
			MaxPrice: floatPtr(200),
			BHK:      &bhk,
		}

		rows := sqlmock.NewRows(propertyTestColumns)

		mock.ExpectQuery(`WHERE price >= \$1 AND price <= \$2 AND bhk = \$3`).
			WithArgs(100.0, 200.0, 3, 5, 10).
			WillReturnRows(rows)

		items, err := repo.FindPage(ctx, q.Conditions(), repository.PageQuery{Limit: 5, Offset: 10})

		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestPropertyPostgres_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyPostgres(db)
	ctx := context.Background()

	t.Run("filtered", func(t *testing.T) {
		villa := model.TypeVilla
		q := repository.SearchQuery{Type: &villa}

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties WHERE type = \$1`).
			WithArgs("VILLA").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		total, err := repo.Count(ctx, q.Conditions())

		assert.NoError(t, err)
		assert.Equal(t, 7, total)
	})

	t.Run("unfiltered", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		total, err := repo.Count(ctx, nil)

		assert.NoError(t, err)
		assert.Equal(t, 42, total)
	})
}

func TestPropertyPostgres_Bounds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyPostgres(db)

	mock.ExpectQuery(`SELECT COALESCE\(MIN\(price\), 0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"min_price", "max_price", "min_size", "max_size"}).
			AddRow(90000.0, 750000.0, 600.0, 2400.0))

	b, err := repo.Bounds(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, repository.Bounds{MinPrice: 90000, MaxPrice: 750000, MinSize: 600, MaxSize: 2400}, b)
}

func TestPropertyPostgres_Distinct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyPostgres(db)
	ctx := context.Background()

	t.Run("types", func(t *testing.T) {
		mock.ExpectQuery(`SELECT DISTINCT type FROM properties WHERE type IS NOT NULL`).
			WillReturnRows(sqlmock.NewRows([]string{"type"}).AddRow("APARTMENT").AddRow("VILLA"))

		types, err := repo.DistinctTypes(ctx)

		assert.NoError(t, err)
		assert.Equal(t, []string{"APARTMENT", "VILLA"}, types)
	})

	t.Run("bhks ascending", func(t *testing.T) {
		mock.ExpectQuery(`SELECT DISTINCT bhk FROM properties WHERE bhk IS NOT NULL ORDER BY bhk`).
			WillReturnRows(sqlmock.NewRows([]string{"bhk"}).AddRow(1).AddRow(2).AddRow(3))

		bhks, err := repo.DistinctBHKs(ctx)

		assert.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, bhks)
	})
}

func TestPropertyPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyPostgres(db)
	ctx := context.Background()

	t.Run("partial fields only", func(t *testing.T) {
		price := 650000.0
		name := "Renamed"
		patch := repository.PropertyPatch{Name: &name, Price: &price}

		rows := addPropertyRow(sqlmock.NewRows(propertyTestColumns), propertyRow("test-id"))

		mock.ExpectQuery(`UPDATE properties SET name = \$1, price = \$2, updated_at = now\(\)\s+WHERE id = \$3`).
			WithArgs("Renamed", 650000.0, "test-id").
			WillReturnRows(rows)

		p, err := repo.Update(ctx, "test-id", patch)

		assert.NoError(t, err)
		assert.NotNil(t, p)
	})

	t.Run("media list replacement", func(t *testing.T) {
		img := []string{"/a.png", "/properties/2-b.png"}
		patch := repository.PropertyPatch{Image: &img}

		rows := addPropertyRow(sqlmock.NewRows(propertyTestColumns), propertyRow("test-id"))

		mock.ExpectQuery(`UPDATE properties SET image = \$1, updated_at = now\(\)\s+WHERE id = \$2`).
			WithArgs([]byte(`["/a.png","/properties/2-b.png"]`), "test-id").
			WillReturnRows(rows)

		p, err := repo.Update(ctx, "test-id", patch)

		assert.NoError(t, err)
		assert.NotNil(t, p)
	})

	t.Run("empty patch issues no write", func(t *testing.T) {
		p, err := repo.Update(ctx, "test-id", repository.PropertyPatch{})

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, p)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		name := "Renamed"
		mock.ExpectQuery(`UPDATE properties SET name = \$1`).
			WithArgs("Renamed", "missing").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.Update(ctx, "missing", repository.PropertyPatch{Name: &name})

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, p)
	})
}

func TestPropertyPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyPostgres(db)
	ctx := context.Background()

	t.Run("existing row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM properties WHERE id = ").
			WithArgs("test-id").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "test-id"))
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM properties WHERE id = ").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Delete(ctx, "missing"))
	})
}
