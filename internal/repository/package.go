package repository

import (
	"context"
	"strconv"

	"github.com/suntrail/agency-server/internal/database"
	"github.com/suntrail/agency-server/internal/model"
)

type PackageRepository interface {
	FindByID(ctx context.Context, id string) (*model.Package, error)
	FindBySlug(ctx context.Context, slug string) (*model.Package, error)
	FindAll(ctx context.Context, limit, offset int) ([]model.Package, error)
	FindPublished(ctx context.Context) ([]model.Package, error)
	Create(ctx context.Context, params model.CreatePackageParams) (*model.Package, error)
	Update(ctx context.Context, id string, params model.UpdatePackageParams) (*model.Package, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type packageRepo struct {
	db database.DBTX
}

func NewPackageRepository(db database.DBTX) PackageRepository {
	return &packageRepo{db: db}
}

func (r *packageRepo) FindByID(ctx context.Context, id string) (*model.Package, error) {
	var pkg model.Package
	err := r.db.GetContext(ctx, &pkg, `SELECT * FROM packages WHERE id = $1`, id)
	return HandleNotFound(&pkg, err)
}

func (r *packageRepo) FindBySlug(ctx context.Context, slug string) (*model.Package, error) {
	var pkg model.Package
	err := r.db.GetContext(ctx, &pkg, `SELECT * FROM packages WHERE slug = $1`, slug)
	return HandleNotFound(&pkg, err)
}

func (r *packageRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Package, error) {
	var packages []model.Package
	err := r.db.SelectContext(ctx, &packages, `
		SELECT * FROM packages
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *packageRepo) FindPublished(ctx context.Context) ([]model.Package, error) {
	var packages []model.Package
	err := r.db.SelectContext(ctx, &packages, `
		SELECT * FROM packages
		WHERE published = TRUE
		ORDER BY title
	`)
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *packageRepo) Create(ctx context.Context, params model.CreatePackageParams) (*model.Package, error) {
	var pkg model.Package
	err := r.db.GetContext(ctx, &pkg, `
		INSERT INTO packages (slug, title, summary, description, price_cents, days)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, params.Slug, params.Title, params.Summary, params.Description, params.PriceCents, params.Days)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepo) Update(ctx context.Context, id string, params model.UpdatePackageParams) (*model.Package, error) {
	query := `UPDATE packages SET updated_at = NOW()`
	args := []interface{}{}
	argIndex := 1

	appendSet := func(column string, value interface{}) {
		query += `, ` + column + ` = $` + strconv.Itoa(argIndex)
		args = append(args, value)
		argIndex++
	}

	if params.Title != nil {
		appendSet("title", *params.Title)
	}
	if params.Summary != nil {
		appendSet("summary", *params.Summary)
	}
	if params.Description != nil {
		appendSet("description", *params.Description)
	}
	if params.PriceCents != nil {
		appendSet("price_cents", *params.PriceCents)
	}
	if params.Days != nil {
		appendSet("days", *params.Days)
	}
	if params.Published != nil {
		appendSet("published", *params.Published)
	}

	query += ` WHERE id = $` + strconv.Itoa(argIndex) + ` RETURNING *`
	args = append(args, id)

	var pkg model.Package
	err := r.db.GetContext(ctx, &pkg, query, args...)
	return HandleNotFound(&pkg, err)
}

func (r *packageRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	return err
}

func (r *packageRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM packages`)
	return count, err
}
