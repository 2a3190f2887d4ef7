package repository

import (
	"context"

	"github.com/suntrail/agency-server/internal/database"
	"github.com/suntrail/agency-server/internal/model"
)

type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	Seed(ctx context.Context, username, passwordHash string) error
}

type adminRepo struct {
	db database.DBTX
}

func NewAdminRepository(db database.DBTX) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, `
		SELECT * FROM admins
		WHERE username = $1
	`, username)
	return HandleNotFound(&admin, err)
}

// Seed inserts the bootstrap admin account if the username is not taken.
// Existing accounts are left untouched.
func (r *adminRepo) Seed(ctx context.Context, username, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
	`, username, passwordHash)
	return err
}
