package model

import (
	"time"
)

// Admin accounts are provisioned out-of-band (seeded at startup or by hand);
// the server never mutates them.
type Admin struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Session is valid only while now < ExpiresAt. Expiry is computed on lookup,
// never flagged in the row.
type Session struct {
	ID           string    `db:"id" json:"id"`
	AdminID      string    `db:"admin_id" json:"adminId"`
	SessionToken string    `db:"session_token" json:"-"`
	ExpiresAt    time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type CreateSessionParams struct {
	AdminID      string
	SessionToken string
	ExpiresAt    time.Time
}
