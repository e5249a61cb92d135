// Package user holds the admin-managed user accounts of the store.
package user

import (
	"context"
	"fmt"
	"time"
)

// User is a store account. PasswordHash is stored as supplied by the admin
// form; hashing happens upstream.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// EmptyFieldError indicates a required text field was empty.
type EmptyFieldError struct {
	Field string
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

// New validates the required fields and builds a User ready for insertion.
func New(email, passwordHash string, active bool) (*User, error) {
	if email == "" {
		return nil, &EmptyFieldError{Field: "email"}
	}
	if passwordHash == "" {
		return nil, &EmptyFieldError{Field: "password_hash"}
	}
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     active,
	}, nil
}

// Repository defines persistence for users.
type Repository interface {
	// Insert persists the user and returns the generated user id.
	Insert(ctx context.Context, u *User) (int64, error)

	// List returns users ordered by id, for selection in the order form.
	List(ctx context.Context) ([]User, error)
}
