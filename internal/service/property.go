package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Agent-cat/Chaitra/internal/model"
	"github.com/Agent-cat/Chaitra/internal/repository"
	"github.com/Agent-cat/Chaitra/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("property not found")
	ErrNoChanges  = errors.New("no changes to apply")
	ErrUpload     = errors.New("media upload failed")
)

// mediaPrefix is the object-key prefix for uploaded listing media; stored
// paths are "/" + key, e.g. /properties/1693483200000-a1b2c3-house.png.
const mediaPrefix = "properties"

// MediaFile is one uploaded media blob with its original name.
type MediaFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CreatePropertyInput carries the fields for a new listing. Media files are
// persisted to storage before the row is inserted.
type CreatePropertyInput struct {
	Name          string
	Address       string
	Location      string
	Price         float64
	Size          float64
	BHK           *int
	Type          *model.PropertyType
	Description   string
	IsRecommended bool
	Images        []MediaFile
	Videos        []MediaFile
}

// UpdatePropertyInput is a partial update: nil fields are left untouched.
//
// Media fields follow the admin-panel contract: the final image list is the
// caller-supplied retained paths concatenated with newly uploaded paths, in
// that order. If neither retained paths nor new files are supplied the field
// is not modified.
type UpdatePropertyInput struct {
	Name           *string
	Address        *string
	Location       *string
	Price          *float64
	Size           *float64
	BHK            *int
	Type           *model.PropertyType
	Description    *string
	IsRecommended  *bool
	ExistingImages *[]string
	ExistingVideos *[]string
	NewImages      []MediaFile
	NewVideos      []MediaFile
}

// Pagination describes the page window of a search result.
type Pagination struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

// SearchResult is the service-level DTO for a property search: one page of
// items, collection-wide filter stats, and pagination state.
type SearchResult struct {
	Items      []model.Property  `json:"items"`
	Stats      model.FilterStats `json:"stats"`
	Pagination Pagination        `json:"pagination"`
}

// PropertyService defines the use cases for handling property listings.
type PropertyService interface {
	// Search runs a filtered, paginated query plus the unfiltered stats
	// queries and assembles them into one result.
	Search(ctx context.Context, q repository.SearchQuery) (*SearchResult, error)

	// Get returns a single property by its ID.
	Get(ctx context.Context, id string) (*model.Property, error)

	// Create uploads media to object storage first, then inserts the record.
	// Any upload failure aborts before the insert.
	Create(ctx context.Context, in CreatePropertyInput) (*model.Property, error)

	// Update applies a partial update; only supplied fields change.
	Update(ctx context.Context, id string, in UpdatePropertyInput) (*model.Property, error)

	// Delete removes a property row by ID. Media objects are left in place.
	Delete(ctx context.Context, id string) error
}

// propertyService is a concrete implementation of PropertyService.
type propertyService struct {
	store storage.Storage
	repo  repository.PropertyRepository
}

// NewPropertyService constructs a new PropertyService.
func NewPropertyService(store storage.Storage, repo repository.PropertyRepository) PropertyService {
	return &propertyService{store: store, repo: repo}
}

// Search fans the page, count, bounds, and distinct lookups out concurrently
// and joins them before shaping the response. The stats queries deliberately
// ignore the active filter so the UI can always offer full-range controls.
func (s *propertyService) Search(ctx context.Context, q repository.SearchQuery) (*SearchResult, error) {
	q = q.Normalize()
	conds := q.Conditions()

	var (
		items  []model.Property
		total  int
		bounds repository.Bounds
		types  []string
		bhks   []int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.FindPage(gctx, conds, repository.PageQuery{Limit: q.Limit, Offset: q.Offset()})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, conds)
		return err
	})
	g.Go(func() error {
		var err error
		bounds, err = s.repo.Bounds(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		types, err = s.repo.DistinctTypes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bhks, err = s.repo.DistinctBHKs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + q.Limit - 1) / q.Limit
	}

	return &SearchResult{
		Items: items,
		Stats: model.FilterStats{
			MinPrice: bounds.MinPrice,
			MaxPrice: bounds.MaxPrice,
			MinSize:  bounds.MinSize,
			MaxSize:  bounds.MaxSize,
			Types:    types,
			BHKs:     bhks,
		},
		Pagination: Pagination{
			Total:       total,
			TotalPages:  totalPages,
			CurrentPage: q.Page,
			Limit:       q.Limit,
		},
	}, nil
}

// Get returns a property by ID.
func (s *propertyService) Get(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *propertyService) Create(ctx context.Context, in CreatePropertyInput) (*model.Property, error) {
	imagePaths, err := s.uploadAll(ctx, in.Images)
	if err != nil {
		return nil, fmt.Errorf("%w: upload images: %v", ErrUpload, err)
	}
	videoPaths, err := s.uploadAll(ctx, in.Videos)
	if err != nil {
		return nil, fmt.Errorf("%w: upload videos: %v", ErrUpload, err)
	}

	now := time.Now().UTC()
	p := &model.Property{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Address:       in.Address,
		Location:      in.Location,
		Price:         in.Price,
		Size:          in.Size,
		BHK:           in.BHK,
		Type:          in.Type,
		Description:   in.Description,
		Image:         imagePaths,
		Video:         videoPaths,
		IsRecommended: in.IsRecommended,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	stored, err := s.repo.Create(ctx, p)
	if err != nil {
		// Uploaded objects are intentionally left in place; cleanup of
		// orphaned media is out of scope.
		return nil, fmt.Errorf("insert property: %w", err)
	}
	return stored, nil
}

func (s *propertyService) Update(ctx context.Context, id string, in UpdatePropertyInput) (*model.Property, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	patch := repository.PropertyPatch{
		Name:          in.Name,
		Address:       in.Address,
		Location:      in.Location,
		Price:         in.Price,
		Size:          in.Size,
		BHK:           in.BHK,
		Type:          in.Type,
		Description:   in.Description,
		IsRecommended: in.IsRecommended,
	}

	// Refuse a no-op write before touching storage.
	if patch.IsZero() &&
		in.ExistingImages == nil && len(in.NewImages) == 0 &&
		in.ExistingVideos == nil && len(in.NewVideos) == 0 {
		return nil, ErrNoChanges
	}

	image, err := s.resolveMedia(ctx, in.ExistingImages, in.NewImages)
	if err != nil {
		return nil, fmt.Errorf("%w: upload images: %v", ErrUpload, err)
	}
	video, err := s.resolveMedia(ctx, in.ExistingVideos, in.NewVideos)
	if err != nil {
		return nil, fmt.Errorf("%w: upload videos: %v", ErrUpload, err)
	}
	patch.Image = image
	patch.Video = video

	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update property: %w", err)
	}
	return p, nil
}

// Delete removes the row only. Media files referenced by the listing are not
// removed from storage.
func (s *propertyService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}

// uploadAll persists each file to object storage and returns the stored paths
// in input order. The returned slice is never nil.
func (s *propertyService) uploadAll(ctx context.Context, files []MediaFile) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if f.Reader == nil {
			return nil, fmt.Errorf("file %q has no content", f.Name)
		}
		key := storage.MediaKey(mediaPrefix, f.Name)
		info, err := s.store.Put(ctx, key, f.Reader, storage.PutObjectOptions{
			Size:        f.Size,
			ContentType: f.ContentType,
			Metadata: map[string]string{
				"original-filename": f.Name,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("store %q: %w", f.Name, err)
		}
		paths = append(paths, "/"+info.Key)
	}
	return paths, nil
}

// resolveMedia computes the final media list for an update: retained existing
// paths first, newly uploaded paths after. A nil return means "leave the
// field untouched".
func (s *propertyService) resolveMedia(ctx context.Context, existing *[]string, files []MediaFile) (*[]string, error) {
	if existing == nil && len(files) == 0 {
		return nil, nil
	}
	final := make([]string, 0)
	if existing != nil {
		final = append(final, *existing...)
	}
	uploaded, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}
	final = append(final, uploaded...)
	return &final, nil
}
