package store

import (
	"context"
	"errors"

	"github.com/creatorlink/creatorlink/internal/domain/user"
)

// EnsureSeedUser creates a bootstrap account at startup when the seed
// env vars are set. Works against any store variant; a no-op when the
// email is empty or the account already exists.
func EnsureSeedUser(ctx context.Context, s Store, email, password, name, role string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.FindByEmail(ctx, email)

	if err == nil {
		return nil
	}

	if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	_, err = s.Create(ctx, user.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	})

	if errors.Is(err, ErrEmailTaken) {
		// lost a race with another instance, fine
		return nil
	}

	return err
}
