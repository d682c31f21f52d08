package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/creatorlink/creatorlink/internal/domain/user"
	"github.com/creatorlink/creatorlink/internal/security"
	"github.com/creatorlink/creatorlink/internal/store"
)

func newTestRepo() *UsersRepo {
	return NewUsersRepo(security.SHA256Hasher{})
}

func createReq(name, email string) user.CreateUserRequest {
	return user.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: "secret1",
		Role:     user.RoleCreator,
	}
}

func TestCreateAssignsUniqueMonotonicIDs(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	emails := []string{"a@x.com", "b@x.com", "c@x.com"}

	for i, email := range emails {
		u, err := r.Create(ctx, createReq("U", email))

		if err != nil {
			t.Fatalf("create %s: %v", email, err)
		}

		if u.ID != i+1 {
			t.Fatalf("got id %d, want %d", u.ID, i+1)
		}

		if u.PasswordHash == "secret1" {
			t.Fatal("stored hash equals plaintext password")
		}
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	if _, err := r.Create(ctx, createReq("Ann", "ann@x.com")); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := r.Create(ctx, createReq("Other Ann", "ann@x.com"))

	if !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}

	// record count must not have grown
	if len(r.items) != 1 {
		t.Fatalf("got %d records, want 1", len(r.items))
	}
}

func TestEmailMatchIsCaseSensitive(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	if _, err := r.Create(ctx, createReq("Ann", "Ann@x.com")); err != nil {
		t.Fatalf("create: %v", err)
	}

	// different casing is a different email as stored
	if _, err := r.Create(ctx, createReq("ann", "ann@x.com")); err != nil {
		t.Fatalf("lowercase variant should be a distinct email: %v", err)
	}

	if _, err := r.FindByEmail(ctx, "ANN@X.COM"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}

func TestVerifyOutcomesAreIndistinguishable(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	if _, err := r.Create(ctx, createReq("Ann", "ann@x.com")); err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := r.Verify(ctx, "ann@x.com", "secret1")

	if err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}

	if u.Email != "ann@x.com" {
		t.Fatalf("verify returned wrong user: %s", u.Email)
	}

	wrongPass := func() error {
		_, err := r.Verify(ctx, "ann@x.com", "nope")
		return err
	}()

	unknownEmail := func() error {
		_, err := r.Verify(ctx, "ghost@x.com", "secret1")
		return err
	}()

	if !errors.Is(wrongPass, store.ErrNoMatch) || !errors.Is(unknownEmail, store.ErrNoMatch) {
		t.Fatalf("wrong password (%v) and unknown email (%v) must both be ErrNoMatch", wrongPass, unknownEmail)
	}
}

func TestFindByID(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, createReq("Ann", "ann@x.com"))

	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := r.FindByID(ctx, created.ID)

	if err != nil {
		t.Fatalf("find by id: %v", err)
	}

	if got != created {
		t.Fatalf("got %+v, want %+v", got, created)
	}

	if _, err := r.FindByID(ctx, 999); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}
