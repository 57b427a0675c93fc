package db

import (
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaret/internal/model"
)

// inserts new user into table, returns new user ID.
func CreateUser(email, hashedPassword string, name *string) (int, error) {
	query := `
	INSERT INTO users (email, hashed_password, name, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	RETURNING id;
	`
	var newID int
	err := DB.QueryRow(query, email, hashedPassword, name).Scan(&newID)
	if err != nil {
		log.Error().Msg("failed to create user")
		return 0, err
	}
	return newID, nil
}

// fetches user by email. returns nil, sql.ErrNoRows if not found.
func GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	query := `
	SELECT id, email, hashed_password, name, created_at, updated_at
	FROM users
	WHERE email = $1;
	`
	err := DB.Get(&u, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Msg("failed to get user by email")
		return nil, err
	}
	return &u, nil
}

// fetches a user by ID. Returns nil, sql.ErrNoRows if not found.
func GetUserByID(id int) (*model.User, error) {
	var u model.User
	query := `
	SELECT id, email, hashed_password, name, created_at, updated_at
	FROM users
	WHERE id = $1;
	`
	err := DB.Get(&u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Msg("failed to get user by id")
		return nil, err
	}
	return &u, nil
}
