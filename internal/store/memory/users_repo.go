package memory

import (
	"context"
	"sync"

	"github.com/creatorlink/creatorlink/internal/domain/user"
	"github.com/creatorlink/creatorlink/internal/security"
	"github.com/creatorlink/creatorlink/internal/store"
)

// UsersRepo keeps the whole user table in a mutex-guarded map. Records
// are lost on process restart.
type UsersRepo struct {
	mu     sync.RWMutex
	items  map[int]user.User
	nextID int
	hasher security.Hasher
}

func NewUsersRepo(hasher security.Hasher) *UsersRepo {
	return &UsersRepo{
		items:  make(map[int]user.User),
		nextID: 1,
		hasher: hasher,
	}
}

func (r *UsersRepo) FindByID(ctx context.Context, id int) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, store.ErrUserNotFound
	}

	return u, nil
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.findByEmailLocked(email)

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

	if _, ok := r.findByEmailLocked(req.Email); ok {
		return user.User{}, store.ErrEmailTaken
	}

	u := user.User{
		ID:             r.nextID,
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		ProfilePicture: req.ProfilePicture,
		Role:           req.Role,
	}

	r.items[u.ID] = u
	r.nextID++

	return u, nil
}

func (r *UsersRepo) Verify(ctx context.Context, email, rawPassword string) (user.User, error) {
	u, err := r.FindByEmail(ctx, email)

	if err != nil {
		return user.User{}, store.ErrNoMatch
	}

	if err := r.hasher.Compare(u.PasswordHash, rawPassword); err != nil {
		return user.User{}, store.ErrNoMatch
	}

	return u, nil
}

// caller must hold at least the read lock
func (r *UsersRepo) findByEmailLocked(email string) (user.User, bool) {
	for _, u := range r.items {
		if u.Email == email {
			return u, true
		}
	}

	return user.User{}, false
}
