package model

import (
	"time"
)

type Package struct {
	ID          string    `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Title       string    `db:"title" json:"title"`
	Summary     string    `db:"summary" json:"summary"`
	Description string    `db:"description" json:"description"`
	PriceCents  int       `db:"price_cents" json:"priceCents"`
	Days        int       `db:"days" json:"days"`
	Published   bool      `db:"published" json:"published"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type CreatePackageParams struct {
	Slug        string
	Title       string
	Summary     string
	Description string
	PriceCents  int
	Days        int
}

type UpdatePackageParams struct {
	Title       *string
	Summary     *string
	Description *string
	PriceCents  *int
	Days        *int
	Published   *bool
}
