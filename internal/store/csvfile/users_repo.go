package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/creatorlink/creatorlink/internal/domain/user"
	"github.com/creatorlink/creatorlink/internal/security"
	"github.com/creatorlink/creatorlink/internal/store"
)

// column order of the backing file
var header = []string{"id", "name", "email", "password", "profile_picture", "role"}

// UsersRepo persists users in a flat csv file, one record per line with
// a mandatory header row. Every read parses the whole file; every
// create appends a single line. The mutex serializes operations so two
// concurrent creates cannot derive the same next id from a stale read.
type UsersRepo struct {
	mu     sync.Mutex
	path   string
	hasher security.Hasher
}

func NewUsersRepo(path string, hasher security.Hasher) (*UsersRepo, error) {
	r := &UsersRepo{
		path:   path,
		hasher: hasher,
	}

	if err := r.ensureHeader(); err != nil {
		return nil, fmt.Errorf("init users csv: %w", err)
	}

	return r, nil
}

// ensureHeader creates the backing file with the header row when it is
// missing, and repairs a pre-existing file that lacks the header by
// rewriting it once with the header prepended, keeping existing rows.
func (r *UsersRepo) ensureHeader() error {
	data, err := os.ReadFile(r.path)

	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(r.path, []byte(strings.Join(header, ",")+"\n"), 0o644)
		}

		return err
	}

	trimmed := strings.TrimSpace(string(data))

	if trimmed == "" {
		return os.WriteFile(r.path, []byte(strings.Join(header, ",")+"\n"), 0o644)
	}

	firstLine, _, _ := strings.Cut(trimmed, "\n")

	if firstLine == strings.Join(header, ",") {
		return nil
	}

	// legacy headerless file
	repaired := strings.Join(header, ",") + "\n" + trimmed + "\n"

	return os.WriteFile(r.path, []byte(repaired), 0o644)
}

func (r *UsersRepo) FindByID(ctx context.Context, id int) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.readAll()

	if err != nil {
		return user.User{}, err
	}

	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}

	return user.User{}, store.ErrUserNotFound
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok, err := r.findByEmailLocked(email)

	if err != nil {
		return user.User{}, err
	}

	if !ok {
		return user.User{}, store.ErrUserNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	hash, err := r.hasher.Hash(req.Password)

	if err != nil {
		return user.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.readAll()

	if err != nil {
		return user.User{}, err
	}

	for _, existing := range users {
		if existing.Email == req.Email {
			return user.User{}, store.ErrEmailTaken
		}
	}

	// next id derived under the lock, so concurrent creates cannot
	// both observe the same max
	maxID := 0

	for _, existing := range users {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}

	u := user.User{
		ID:             maxID + 1,
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		ProfilePicture: req.ProfilePicture,
		Role:           req.Role,
	}

	if err := r.appendRow(u); err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Verify(ctx context.Context, email, rawPassword string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok, err := r.findByEmailLocked(email)

	if err != nil {
		return user.User{}, err
	}

	if !ok {
		return user.User{}, store.ErrNoMatch
	}

	if err := r.hasher.Compare(u.PasswordHash, rawPassword); err != nil {
		return user.User{}, store.ErrNoMatch
	}

	return u, nil
}

// caller must hold the mutex
func (r *UsersRepo) findByEmailLocked(email string) (user.User, bool, error) {
	users, err := r.readAll()

	if err != nil {
		return user.User{}, false, err
	}

	for _, u := range users {
		if u.Email == email {
			return u, true, nil
		}
	}

	return user.User{}, false, nil
}

// readAll parses the entire backing file. No incremental index is kept;
// the file is small and re-reading keeps every operation self-contained.
func (r *UsersRepo) readAll() ([]user.User, error) {
	f, err := os.Open(r.path)

	if err != nil {
		return nil, fmt.Errorf("open users csv: %w", err)
	}

	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(header)

	var users []user.User

	line := 0

	for {
		record, err := reader.Read()

		if errors.Is(err, io.EOF) {
			break
		}

		line++

		if err != nil {
			return nil, fmt.Errorf("users csv line %d: %w", line, err)
		}

		if line == 1 {
			// header row
			continue
		}

		u, err := parseRow(record)

		if err != nil {
			return nil, fmt.Errorf("users csv line %d: %w", line, err)
		}

		users = append(users, u)
	}

	return users, nil
}

func (r *UsersRepo) appendRow(u user.User) error {
	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_APPEND, 0o644)

	if err != nil {
		return fmt.Errorf("open users csv for append: %w", err)
	}

	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(serializeRow(u)); err != nil {
		return fmt.Errorf("append user row: %w", err)
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("flush user row: %w", err)
	}

	return nil
}

func parseRow(record []string) (user.User, error) {
	if len(record) != len(header) {
		return user.User{}, fmt.Errorf("expected %d fields, got %d", len(header), len(record))
	}

	id, err := strconv.Atoi(record[0])

	if err != nil {
		return user.User{}, fmt.Errorf("invalid id %q", record[0])
	}

	return user.User{
		ID:             id,
		Name:           record[1],
		Email:          record[2],
		PasswordHash:   record[3],
		ProfilePicture: record[4],
		Role:           record[5],
	}, nil
}

func serializeRow(u user.User) []string {
	return []string{
		strconv.Itoa(u.ID),
		u.Name,
		u.Email,
		u.PasswordHash,
		u.ProfilePicture,
		u.Role,
	}
}
