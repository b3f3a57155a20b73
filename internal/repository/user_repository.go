package repository

import (
	"database/sql"

	"github.com/adlift/adcampaign-backend/internal/model"
)

// UserRepositoryInterface defines the methods the auth layer needs
type UserRepositoryInterface interface {
	GetByGoogleID(googleID string) (*model.User, error)
	GetByID(id int) (*model.User, error)
	Create(u *model.User) error
}

// UserRepository is the concrete implementation
type UserRepository struct {
	DB *sql.DB
}

// GetByGoogleID fetches a user by their Google profile ID
func (r *UserRepository) GetByGoogleID(googleID string) (*model.User, error) {
	query := `
        SELECT id, google_id, display_name, email, created_at
        FROM users
        WHERE google_id = $1
    `
	row := r.DB.QueryRow(query, googleID)

	var u model.User
	if err := row.Scan(&u.ID, &u.GoogleID, &u.DisplayName, &u.Email, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user by ID
func (r *UserRepository) GetByID(id int) (*model.User, error) {
	query := `
        SELECT id, google_id, display_name, email, created_at
        FROM users
        WHERE id = $1
    `
	row := r.DB.QueryRow(query, id)

	var u model.User
	if err := row.Scan(&u.ID, &u.GoogleID, &u.DisplayName, &u.Email, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and assigns its ID
func (r *UserRepository) Create(u *model.User) error {
	query := `
        INSERT INTO users (google_id, display_name, email, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query, u.GoogleID, u.DisplayName, u.Email).Scan(&u.ID, &u.CreatedAt)
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
