package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/creatorlink/creatorlink/internal/domain/user"
	"github.com/creatorlink/creatorlink/internal/security"
	"github.com/creatorlink/creatorlink/internal/store"
)

func newTestRepo(t *testing.T) (*UsersRepo, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.csv")

	r, err := NewUsersRepo(path, security.SHA256Hasher{})

	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	return r, path
}

func createReq(name, email, role string) user.CreateUserRequest {
	return user.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: "secret1",
		Role:     role,
	}
}

func TestNewRepoWritesHeader(t *testing.T) {
	_, path := newTestRepo(t)

	data, err := os.ReadFile(path)

	if err != nil {
		t.Fatalf("read backing file: %v", err)
	}

	if string(data) != "id,name,email,password,profile_picture,role\n" {
		t.Fatalf("unexpected file contents: %q", string(data))
	}
}

func TestHeaderRepairPreservesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")

	// legacy file written without the header row
	legacy := "1,Ann,ann@x.com,5b11618c2e44027877d0cd0921ed166b9f176f50587fc91e7534dd2946db77d6,,influencer\n"

	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	r, err := NewUsersRepo(path, security.SHA256Hasher{})

	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	data, err := os.ReadFile(path)

	if err != nil {
		t.Fatalf("read repaired file: %v", err)
	}

	if !strings.HasPrefix(string(data), "id,name,email,password,profile_picture,role\n1,Ann,") {
		t.Fatalf("header not prepended: %q", string(data))
	}

	u, err := r.FindByEmail(context.Background(), "ann@x.com")

	if err != nil {
		t.Fatalf("row lost during repair: %v", err)
	}

	if u.ID != 1 || u.Role != "influencer" {
		t.Fatalf("row mangled during repair: %+v", u)
	}
}

func TestCreateAndReloadKeepsFieldsAndMonotonicIDs(t *testing.T) {
	r, path := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, user.CreateUserRequest{
		Name:           "Ann",
		Email:          "ann@x.com",
		Password:       "secret1",
		ProfilePicture: "/uploads/ann.png",
		Role:           user.RoleInfluencer,
	})

	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.ID != 1 {
		t.Fatalf("got id %d, want 1", created.ID)
	}

	// simulate a restart: a fresh repo over the same file
	r2, err := NewUsersRepo(path, security.SHA256Hasher{})

	if err != nil {
		t.Fatalf("reopen repo: %v", err)
	}

	got, err := r2.FindByEmail(ctx, "ann@x.com")

	if err != nil {
		t.Fatalf("find after reload: %v", err)
	}

	if got != created {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got, created)
	}

	// next id keeps climbing after the restart
	second, err := r2.Create(ctx, createReq("Bob", "bob@x.com", user.RoleSponsor))

	if err != nil {
		t.Fatalf("create after reload: %v", err)
	}

	if second.ID != 2 {
		t.Fatalf("got id %d, want 2", second.ID)
	}
}

func TestCreateRejectsDuplicateEmailWithoutAppending(t *testing.T) {
	r, path := newTestRepo(t)
	ctx := context.Background()

	if _, err := r.Create(ctx, createReq("Ann", "ann@x.com", user.RoleCreator)); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := r.Create(ctx, createReq("Other", "ann@x.com", user.RoleCreator))

	if !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}

	data, err := os.ReadFile(path)

	if err != nil {
		t.Fatalf("read backing file: %v", err)
	}

	// header plus exactly one record
	lines := strings.Count(strings.TrimSpace(string(data)), "\n") + 1

	if lines != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", lines, string(data))
	}
}

func TestMalformedRowSurfacesExplicitError(t *testing.T) {
	r, path := newTestRepo(t)
	ctx := context.Background()

	if _, err := r.Create(ctx, createReq("Ann", "ann@x.com", user.RoleCreator)); err != nil {
		t.Fatalf("create: %v", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)

	if err != nil {
		t.Fatalf("open for append: %v", err)
	}

	if _, err := f.WriteString("not-a-number,Bob,bob@x.com,deadbeef,,creator\n"); err != nil {
		t.Fatalf("append garbage: %v", err)
	}

	f.Close()

	_, err = r.FindByEmail(ctx, "ann@x.com")

	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("malformed row should fail with its line number, got %v", err)
	}
}

func TestConcurrentCreatesAssignUniqueIDs(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	const n = 16

	var wg sync.WaitGroup

	ids := make([]int, n)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			u, err := r.Create(ctx, createReq("U", "u"+string(rune('a'+i))+"@x.com", user.RoleCreator))

			if err != nil {
				t.Errorf("create %d: %v", i, err)
				return
			}

			ids[i] = u.ID
		}(i)
	}

	wg.Wait()

	seen := make(map[int]bool, n)

	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id assigned: %d", id)
		}
		seen[id] = true
	}
}

func TestVerifyAgainstStoredDigest(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := r.Create(ctx, createReq("Ann", "ann@x.com", user.RoleCreator)); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := r.Verify(ctx, "ann@x.com", "secret1"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}

	if _, err := r.Verify(ctx, "ann@x.com", "wrong"); !errors.Is(err, store.ErrNoMatch) {
		t.Fatalf("wrong password: got %v, want ErrNoMatch", err)
	}

	if _, err := r.Verify(ctx, "ghost@x.com", "secret1"); !errors.Is(err, store.ErrNoMatch) {
		t.Fatalf("unknown email: got %v, want ErrNoMatch", err)
	}
}
