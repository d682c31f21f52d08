package store

import (
	"context"
	"errors"

	"github.com/creatorlink/creatorlink/internal/domain/user"
)

// Keep this small interface so tests can fake it easily.
type Observer interface {
	ObserveStore(op string, fn func() error) error
}

// Instrumented decorates a Store with per-operation metrics. Expected
// outcomes (not found, duplicate email, credential mismatch) are not
// counted as errors; only real storage failures are.
type Instrumented struct {
	next Store
	obs  Observer
}

func NewInstrumented(next Store, obs Observer) *Instrumented {
	return &Instrumented{
		next: next,
		obs:  obs,
	}
}

func (s *Instrumented) FindByID(ctx context.Context, id int) (user.User, error) {
	var u user.User
	var opErr error

	_ = s.obs.ObserveStore("find_by_id", func() error {
		u, opErr = s.next.FindByID(ctx, id)
		return storageFailureOnly(opErr)
	})

	return u, opErr
}

func (s *Instrumented) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	var opErr error

	_ = s.obs.ObserveStore("find_by_email", func() error {
		u, opErr = s.next.FindByEmail(ctx, email)
		return storageFailureOnly(opErr)
	})

	return u, opErr
}

func (s *Instrumented) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	var u user.User
	var opErr error

	_ = s.obs.ObserveStore("create", func() error {
		u, opErr = s.next.Create(ctx, req)
		return storageFailureOnly(opErr)
	})

	return u, opErr
}

func (s *Instrumented) Verify(ctx context.Context, email, rawPassword string) (user.User, error) {
	var u user.User
	var opErr error

	_ = s.obs.ObserveStore("verify", func() error {
		u, opErr = s.next.Verify(ctx, email, rawPassword)
		return storageFailureOnly(opErr)
	})

	return u, opErr
}

func storageFailureOnly(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrNoMatch) {
		return nil
	}

	return err
}
