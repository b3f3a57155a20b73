// internal/model/user.go
package model

import "time"

type User struct {
	ID          int       `db:"id" json:"id"`
	GoogleID    string    `db:"google_id" json:"google_id"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Email       string    `db:"email" json:"email"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
