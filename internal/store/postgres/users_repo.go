package postgres

import (
	"context"
	"errors"

	"github.com/creatorlink/creatorlink/internal/domain/user"
	"github.com/creatorlink/creatorlink/internal/security"
	"github.com/creatorlink/creatorlink/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsersRepo is the pgx-backed store variant. Id assignment and email
// uniqueness are delegated to the database (sequence + unique index),
// which closes the read-then-write races the flat-file variant has to
// guard with a mutex.
type UsersRepo struct {
	pool   *pgxpool.Pool
	hasher security.Hasher
}

func NewUsersRepo(pool *pgxpool.Pool, hasher security.Hasher) *UsersRepo {
	return &UsersRepo{
		pool:   pool,
		hasher: hasher,
	}
}

func (r *UsersRepo) FindByID(ctx context.Context, id int) (user.User, error) {
	return r.findOne(ctx,
		`SELECT id, name, email, password_hash, profile_picture, role
         FROM users
         WHERE id = $1`,
		id,
	)
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	return r.findOne(ctx,
		`SELECT id, name, email, password_hash, profile_picture, role
         FROM users
         WHERE email = $1`,
		email,
	)
}

func (r *UsersRepo) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	hash, err := r.hasher.Hash(req.Password)

	if err != nil {
		return user.User{}, err
	}

	u := user.User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		ProfilePicture: req.ProfilePicture,
		Role:           req.Role,
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO users(name, email, password_hash, profile_picture, role)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id`,
		u.Name, u.Email, u.PasswordHash, u.ProfilePicture, u.Role,
	).Scan(&u.ID)

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, store.ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Verify(ctx context.Context, email, rawPassword string) (user.User, error) {
	u, err := r.FindByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return user.User{}, store.ErrNoMatch
		}

		return user.User{}, err
	}

	if err := r.hasher.Compare(u.PasswordHash, rawPassword); err != nil {
		return user.User{}, store.ErrNoMatch
	}

	return u, nil
}

func (r *UsersRepo) findOne(ctx context.Context, query string, arg any) (user.User, error) {
	var u user.User

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.ProfilePicture,
		&u.Role,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, store.ErrUserNotFound
		}

		return user.User{}, err
	}

	return u, nil
}
