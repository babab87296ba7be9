package repository

import (
	"context"

	"github.com/stemsi/survey-analytics/internal/database"
	"github.com/stemsi/survey-analytics/internal/model"
)

// AdminRepository handles admin data access.
type AdminRepository struct {
	db database.DBTX
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(db database.DBTX) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByUsername retrieves an admin by their unique username.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM admins WHERE username = $1`, username,
	).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// CreateIfMissing inserts the admin unless the username is taken.
// created reports whether a row was written.
func (r *AdminRepository) CreateIfMissing(ctx context.Context, a *model.Admin) (created bool, err error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO admins (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (username) DO NOTHING`,
		a.Username, a.Email, a.PasswordHash,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
