package store

import (
	"context"
	"errors"

	"github.com/creatorlink/creatorlink/internal/domain/user"
)

var (
	// ErrUserNotFound is returned by the lookup operations when no
	// record matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned by Create when a record with the same
	// email (case-sensitive exact match) already exists.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrNoMatch is returned by Verify for an unknown email and for a
	// wrong password alike, so callers cannot tell the two apart.
	ErrNoMatch = errors.New("no matching credentials")
)

// Store is the credential store contract. All variants behave
// identically with respect to email uniqueness, id assignment and
// password verification; only persistence differs.
type Store interface {
	FindByID(ctx context.Context, id int) (user.User, error)
	FindByEmail(ctx context.Context, email string) (user.User, error)

	// Create hashes the raw password, assigns the next id and persists
	// the record. The returned record includes the hash; callers strip
	// it before external exposure.
	Create(ctx context.Context, req user.CreateUserRequest) (user.User, error)

	// Verify looks the email up and checks the password against the
	// stored hash. Absent email and wrong password both yield ErrNoMatch.
	Verify(ctx context.Context, email, rawPassword string) (user.User, error)
}
