package model

import "time"

// User is an account that can call the authenticated API surface.
type User struct {
	ID             int       `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	Name           *string   `db:"name"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
