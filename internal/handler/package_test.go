package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suntrail/agency-server/internal/model"
	"github.com/suntrail/agency-server/internal/service"
)

type fakePackageRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*model.Package, error)
	findBySlugFn    func(ctx context.Context, slug string) (*model.Package, error)
	findAllFn       func(ctx context.Context, limit, offset int) ([]model.Package, error)
	findPublishedFn func(ctx context.Context) ([]model.Package, error)
	createFn        func(ctx context.Context, params model.CreatePackageParams) (*model.Package, error)
	updateFn        func(ctx context.Context, id string, params model.UpdatePackageParams) (*model.Package, error)
	deleteFn        func(ctx context.Context, id string) error
	countFn         func(ctx context.Context) (int, error)
}

func (f *fakePackageRepo) FindByID(ctx context.Context, id string) (*model.Package, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakePackageRepo) FindBySlug(ctx context.Context, slug string) (*model.Package, error) {
	return f.findBySlugFn(ctx, slug)
}

func (f *fakePackageRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Package, error) {
	return f.findAllFn(ctx, limit, offset)
}

func (f *fakePackageRepo) FindPublished(ctx context.Context) ([]model.Package, error) {
	return f.findPublishedFn(ctx)
}

func (f *fakePackageRepo) Create(ctx context.Context, params model.CreatePackageParams) (*model.Package, error) {
	return f.createFn(ctx, params)
}

func (f *fakePackageRepo) Update(ctx context.Context, id string, params model.UpdatePackageParams) (*model.Package, error) {
	return f.updateFn(ctx, id, params)
}

func (f *fakePackageRepo) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func (f *fakePackageRepo) Count(ctx context.Context) (int, error) {
	return f.countFn(ctx)
}

type nopCache struct{}

func (nopCache) GetBytes(ctx context.Context, key string) ([]byte, error) { return nil, nil }
func (nopCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}
func (nopCache) Delete(ctx context.Context, key string) error { return nil }

func newPackageRouter(repo *fakePackageRepo) chi.Router {
	h := NewPackageHandler(service.NewPackageService(repo, nopCache{}))

	r := chi.NewRouter()
	r.Mount("/api/packages", h.PublicRoutes())
	r.Mount("/admin/api/packages", h.AdminRoutes())
	return r
}

func samplePackage(published bool) *model.Package {
	return &model.Package{
		ID:         "pkg-1",
		Slug:       "bali-retreat",
		Title:      "Bali Retreat",
		Summary:    "Seven days in Ubud",
		PriceCents: 249900,
		Days:       7,
		Published:  published,
	}
}

func TestPublicPackageRoutes(t *testing.T) {
	t.Run("lists published packages", func(t *testing.T) {
		repo := &fakePackageRepo{
			findPublishedFn: func(ctx context.Context) ([]model.Package, error) {
				return []model.Package{*samplePackage(true)}, nil
			},
		}

		rec := httptest.NewRecorder()
		newPackageRouter(repo).ServeHTTP(rec, httptest.NewRequest("GET", "/api/packages", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "bali-retreat")
		assert.Contains(t, rec.Body.String(), `"total":1`)
	})

	t.Run("serves a published package by slug", func(t *testing.T) {
		repo := &fakePackageRepo{
			findBySlugFn: func(ctx context.Context, slug string) (*model.Package, error) {
				require.Equal(t, "bali-retreat", slug)
				return samplePackage(true), nil
			},
		}

		rec := httptest.NewRecorder()
		newPackageRouter(repo).ServeHTTP(rec, httptest.NewRequest("GET", "/api/packages/bali-retreat", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Bali Retreat")
	})

	t.Run("hides drafts behind 404", func(t *testing.T) {
		repo := &fakePackageRepo{
			findBySlugFn: func(ctx context.Context, slug string) (*model.Package, error) {
				return samplePackage(false), nil
			},
		}

		rec := httptest.NewRecorder()
		newPackageRouter(repo).ServeHTTP(rec, httptest.NewRequest("GET", "/api/packages/bali-retreat", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns 500 on a database failure", func(t *testing.T) {
		repo := &fakePackageRepo{
			findPublishedFn: func(ctx context.Context) ([]model.Package, error) {
				return nil, errors.New("connection refused")
			},
		}

		rec := httptest.NewRecorder()
		newPackageRouter(repo).ServeHTTP(rec, httptest.NewRequest("GET", "/api/packages", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestAdminPackageRoutes(t *testing.T) {
	t.Run("creates a package", func(t *testing.T) {
		repo := &fakePackageRepo{
			findBySlugFn: func(ctx context.Context, slug string) (*model.Package, error) {
				return nil, nil
			},
			createFn: func(ctx context.Context, params model.CreatePackageParams) (*model.Package, error) {
				assert.Equal(t, "bali-retreat", params.Slug)
				assert.Equal(t, 7, params.Days)
				return samplePackage(false), nil
			},
		}

		body := `{"slug":"bali-retreat","title":"Bali Retreat","priceCents":249900,"days":7}`
		req := httptest.NewRequest("POST", "/admin/api/packages", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newPackageRouter(repo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("rejects an invalid slug", func(t *testing.T) {
		repo := &fakePackageRepo{}

		body := `{"slug":"Bali Retreat!","title":"Bali Retreat"}`
		req := httptest.NewRequest("POST", "/admin/api/packages", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newPackageRouter(repo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a duplicate slug with 409", func(t *testing.T) {
		repo := &fakePackageRepo{
			findBySlugFn: func(ctx context.Context, slug string) (*model.Package, error) {
				return samplePackage(true), nil
			},
		}

		body := `{"slug":"bali-retreat","title":"Bali Retreat"}`
		req := httptest.NewRequest("POST", "/admin/api/packages", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newPackageRouter(repo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("updates a package", func(t *testing.T) {
		published := true
		repo := &fakePackageRepo{
			updateFn: func(ctx context.Context, id string, params model.UpdatePackageParams) (*model.Package, error) {
				assert.Equal(t, "pkg-1", id)
				require.NotNil(t, params.Published)
				assert.Equal(t, published, *params.Published)
				return samplePackage(true), nil
			},
		}

		req := httptest.NewRequest("PATCH", "/admin/api/packages/pkg-1", strings.NewReader(`{"published":true}`))
		rec := httptest.NewRecorder()
		newPackageRouter(repo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("returns 404 updating a missing package", func(t *testing.T) {
		repo := &fakePackageRepo{
			updateFn: func(ctx context.Context, id string, params model.UpdatePackageParams) (*model.Package, error) {
				return nil, nil
			},
		}

		req := httptest.NewRequest("PATCH", "/admin/api/packages/nope", strings.NewReader(`{"published":true}`))
		rec := httptest.NewRecorder()
		newPackageRouter(repo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("lists with pagination defaults", func(t *testing.T) {
		repo := &fakePackageRepo{
			findAllFn: func(ctx context.Context, limit, offset int) ([]model.Package, error) {
				assert.Equal(t, DefaultLimit, limit)
				assert.Equal(t, 0, offset)
				return []model.Package{*samplePackage(true)}, nil
			},
			countFn: func(ctx context.Context) (int, error) { return 1, nil },
		}

		rec := httptest.NewRecorder()
		newPackageRouter(repo).ServeHTTP(rec, httptest.NewRequest("GET", "/admin/api/packages", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total":1`)
	})

	t.Run("deletes a package", func(t *testing.T) {
		deleted := ""
		repo := &fakePackageRepo{
			deleteFn: func(ctx context.Context, id string) error {
				deleted = id
				return nil
			},
		}

		req := httptest.NewRequest("DELETE", "/admin/api/packages/pkg-1", nil)
		rec := httptest.NewRecorder()
		newPackageRouter(repo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pkg-1", deleted)
	})
}
