package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Agent-cat/Chaitra/internal/model"
	"github.com/Agent-cat/Chaitra/internal/repository"
	"github.com/Agent-cat/Chaitra/internal/service"
)

// HealthCheck returns a handler that checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListProperties handles the filtered, paginated property search.
func ListProperties(svc service.PropertyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, errCode := parseSearchQuery(c)
		if errCode != "" {
			return writeError(c, fiber.StatusBadRequest, errCode, "invalid query parameter")
		}

		res, err := svc.Search(c.UserContext(), q)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch properties")
		}
		return c.JSON(res)
	}
}

// GetProperty returns a single property by ID.
func GetProperty(svc service.PropertyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "property not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch property")
		}
		return c.JSON(p)
	}
}

// CreateProperty handles the multipart create form (fields plus images/videos files).
func CreateProperty(svc service.PropertyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart form required")
		}

		in := service.CreatePropertyInput{
			Name:        formValue(form, "name"),
			Address:     formValue(form, "address"),
			Location:    formValue(form, "location"),
			Description: formValue(form, "description"),
		}
		if in.Name == "" || in.Address == "" {
			return writeError(c, fiber.StatusBadRequest, "MISSING_FIELD", "name and address are required")
		}

		if in.Price, err = strconv.ParseFloat(formValue(form, "price"), 64); err != nil || in.Price < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PRICE", "invalid price")
		}
		if in.Size, err = strconv.ParseFloat(formValue(form, "size"), 64); err != nil || in.Size < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SIZE", "invalid size")
		}
		if v := formValue(form, "bhk"); v != "" {
			bhk, err := strconv.Atoi(v)
			if err != nil || bhk < 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BHK", "invalid bhk")
			}
			in.BHK = &bhk
		}
		if v := formValue(form, "type"); v != "" {
			t := model.PropertyType(v)
			if !t.Valid() {
				return writeError(c, fiber.StatusBadRequest, "INVALID_TYPE", "invalid property type")
			}
			in.Type = &t
		}
		if v := formValue(form, "isRecommended"); v != "" {
			in.IsRecommended, _ = strconv.ParseBool(v)
		}

		images, openErr := openFiles(form.File["images"])
		if openErr != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeFiles(images)
		videos, openErr := openFiles(form.File["videos"])
		if openErr != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeFiles(videos)
		in.Images = mediaFiles(images)
		in.Videos = mediaFiles(videos)

		p, err := svc.Create(c.UserContext(), in)
		if err != nil {
			if errors.Is(err, service.ErrUpload) {
				return writeError(c, fiber.StatusInternalServerError, "UPLOAD_FAILED", "failed to upload media")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to create property")
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// UpdateProperty handles the multipart partial-update form. Only fields present
// in the form change; existingImages/existingVideos carry the retained paths as
// JSON arrays and new files are appended after them.
func UpdateProperty(svc service.PropertyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart form required")
		}

		var in service.UpdatePropertyInput
		in.Name = optString(form, "name")
		in.Address = optString(form, "address")
		in.Location = optString(form, "location")
		in.Description = optString(form, "description")

		if v := optString(form, "price"); v != nil {
			price, err := strconv.ParseFloat(*v, 64)
			if err != nil || price < 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_PRICE", "invalid price")
			}
			in.Price = &price
		}
		if v := optString(form, "size"); v != nil {
			size, err := strconv.ParseFloat(*v, 64)
			if err != nil || size < 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_SIZE", "invalid size")
			}
			in.Size = &size
		}
		if v := optString(form, "bhk"); v != nil {
			bhk, err := strconv.Atoi(*v)
			if err != nil || bhk < 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BHK", "invalid bhk")
			}
			in.BHK = &bhk
		}
		if v := optString(form, "type"); v != nil {
			t := model.PropertyType(*v)
			if !t.Valid() {
				return writeError(c, fiber.StatusBadRequest, "INVALID_TYPE", "invalid property type")
			}
			in.Type = &t
		}
		if v := optString(form, "isRecommended"); v != nil {
			rec, err := strconv.ParseBool(*v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_RECOMMENDED", "invalid isRecommended")
			}
			in.IsRecommended = &rec
		}
		if v := optString(form, "existingImages"); v != nil {
			var paths []string
			if err := json.Unmarshal([]byte(*v), &paths); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_EXISTING_IMAGES", "existingImages must be a JSON array")
			}
			in.ExistingImages = &paths
		}
		if v := optString(form, "existingVideos"); v != nil {
			var paths []string
			if err := json.Unmarshal([]byte(*v), &paths); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_EXISTING_VIDEOS", "existingVideos must be a JSON array")
			}
			in.ExistingVideos = &paths
		}

		images, openErr := openFiles(form.File["images"])
		if openErr != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeFiles(images)
		videos, openErr := openFiles(form.File["videos"])
		if openErr != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeFiles(videos)
		in.NewImages = mediaFiles(images)
		in.NewVideos = mediaFiles(videos)

		p, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNoChanges):
				return writeError(c, fiber.StatusConflict, "NO_CHANGES", "no changes to apply")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "property not found")
			case errors.Is(err, service.ErrUpload):
				return writeError(c, fiber.StatusInternalServerError, "UPLOAD_FAILED", "failed to upload media")
			default:
				// Update is the one operation that forwards the underlying message.
				return writeError(c, fiber.StatusInternalServerError, "UPDATE_FAILED", err.Error())
			}
		}
		return c.JSON(p)
	}
}

// DeleteProperty removes a property by ID. Associated media files stay in storage.
func DeleteProperty(svc service.PropertyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete property")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// parseSearchQuery reads the filter criteria from query parameters. It returns
// an error code for the first invalid parameter, or "" on success.
func parseSearchQuery(c *fiber.Ctx) (repository.SearchQuery, string) {
	q := repository.SearchQuery{
		Search:   c.Query("search"),
		Location: c.Query("location"),
	}

	var err error
	if q.Page, err = strconv.Atoi(c.Query("page", "1")); err != nil || q.Page < 1 {
		return q, "INVALID_PAGE"
	}
	if q.Limit, err = strconv.Atoi(c.Query("limit", "10")); err != nil || q.Limit < 1 {
		return q, "INVALID_LIMIT"
	}
	if v := c.Query("type"); v != "" {
		t := model.PropertyType(v)
		if !t.Valid() {
			return q, "INVALID_TYPE"
		}
		q.Type = &t
	}
	if code := parseFloatParam(c, "minPrice", &q.MinPrice); code != "" {
		return q, code
	}
	if code := parseFloatParam(c, "maxPrice", &q.MaxPrice); code != "" {
		return q, code
	}
	if code := parseFloatParam(c, "minSize", &q.MinSize); code != "" {
		return q, code
	}
	if code := parseFloatParam(c, "maxSize", &q.MaxSize); code != "" {
		return q, code
	}
	if v := c.Query("bhk"); v != "" {
		bhk, err := strconv.Atoi(v)
		if err != nil || bhk < 0 {
			return q, "INVALID_BHK"
		}
		q.BHK = &bhk
	}
	return q, ""
}

func parseFloatParam(c *fiber.Ctx, name string, dst **float64) string {
	v := c.Query(name)
	if v == "" {
		return ""
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return "INVALID_" + strconvUpper(name)
	}
	*dst = &f
	return ""
}

func strconvUpper(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		out[i] = ch
	}
	return string(out)
}

func formValue(form *multipart.Form, key string) string {
	if vals, ok := form.Value[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// optString distinguishes "field absent" from "field empty" so partial updates
// only touch what the form actually carried.
func optString(form *multipart.Form, key string) *string {
	if vals, ok := form.Value[key]; ok && len(vals) > 0 {
		v := vals[0]
		return &v
	}
	return nil
}

type openedFile struct {
	header *multipart.FileHeader
	file   multipart.File
}

func openFiles(headers []*multipart.FileHeader) ([]openedFile, error) {
	out := make([]openedFile, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			closeFiles(out)
			return nil, err
		}
		out = append(out, openedFile{header: h, file: f})
	}
	return out, nil
}

func closeFiles(files []openedFile) {
	for _, f := range files {
		f.file.Close()
	}
}

func mediaFiles(files []openedFile) []service.MediaFile {
	out := make([]service.MediaFile, 0, len(files))
	for _, f := range files {
		ct := f.header.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		out = append(out, service.MediaFile{
			Name:        f.header.Filename,
			ContentType: ct,
			Size:        f.header.Size,
			Reader:      f.file,
		})
	}
	return out
}
