package service

import (
	"context"
	"encoding/json"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/suntrail/agency-server/internal/config"
	apperrors "github.com/suntrail/agency-server/internal/errors"
	"github.com/suntrail/agency-server/internal/model"
	"github.com/suntrail/agency-server/internal/redis"
	"github.com/suntrail/agency-server/internal/repository"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Cache holds the published package listing between admin writes. A miss is
// (nil, nil); cache failures degrade to direct database reads.
type Cache interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type PackageService struct {
	pkgRepo  repository.PackageRepository
	cache    Cache
	cacheTTL time.Duration
}

func NewPackageService(pkgRepo repository.PackageRepository, cache Cache) *PackageService {
	return &PackageService{
		pkgRepo:  pkgRepo,
		cache:    cache,
		cacheTTL: config.PackageCacheTTL,
	}
}

// ListPublished serves the public listing, preferring the cache.
func (s *PackageService) ListPublished(ctx context.Context) ([]model.Package, error) {
	key := redis.PackageListKey()

	cached, err := s.cache.GetBytes(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("package cache read failed, falling back to database")
	} else if cached != nil {
		var packages []model.Package
		if err := json.Unmarshal(cached, &packages); err != nil {
			log.Warn().Err(err).Msg("package cache entry corrupt, falling back to database")
		} else {
			return packages, nil
		}
	}

	packages, err := s.pkgRepo.FindPublished(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	if data, err := json.Marshal(packages); err == nil {
		if err := s.cache.SetBytes(ctx, key, data, s.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("package cache write failed")
		}
	}

	return packages, nil
}

func (s *PackageService) GetPublishedBySlug(ctx context.Context, slug string) (*model.Package, error) {
	pkg, err := s.pkgRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if pkg == nil || !pkg.Published {
		return nil, apperrors.NotFound("Package")
	}
	return pkg, nil
}

// List returns all packages for the admin editor, drafts included.
func (s *PackageService) List(ctx context.Context, limit, offset int) ([]model.Package, int, error) {
	packages, err := s.pkgRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	total, err := s.pkgRepo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	return packages, total, nil
}

func (s *PackageService) GetByID(ctx context.Context, id string) (*model.Package, error) {
	pkg, err := s.pkgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if pkg == nil {
		return nil, apperrors.NotFound("Package")
	}
	return pkg, nil
}

func (s *PackageService) Create(ctx context.Context, params model.CreatePackageParams) (*model.Package, error) {
	if params.Title == "" {
		return nil, apperrors.MissingRequired("title")
	}
	if !slugRegex.MatchString(params.Slug) {
		return nil, apperrors.InvalidInput("slug", "must be lowercase letters, digits and hyphens")
	}

	existing, err := s.pkgRepo.FindBySlug(ctx, params.Slug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Package")
	}

	pkg, err := s.pkgRepo.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	s.invalidateListing(ctx)
	return pkg, nil
}

func (s *PackageService) Update(ctx context.Context, id string, params model.UpdatePackageParams) (*model.Package, error) {
	pkg, err := s.pkgRepo.Update(ctx, id, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if pkg == nil {
		return nil, apperrors.NotFound("Package")
	}

	s.invalidateListing(ctx)
	return pkg, nil
}

func (s *PackageService) Delete(ctx context.Context, id string) error {
	if err := s.pkgRepo.Delete(ctx, id); err != nil {
		return apperrors.Database(err)
	}
	s.invalidateListing(ctx)
	return nil
}

func (s *PackageService) invalidateListing(ctx context.Context) {
	if err := s.cache.Delete(ctx, redis.PackageListKey()); err != nil {
		log.Warn().Err(err).Msg("package cache invalidation failed")
	}
}
