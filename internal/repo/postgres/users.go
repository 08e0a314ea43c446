package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/clubhouse/messageboard/internal/domain/user"
	"github.com/clubhouse/messageboard/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailAlreadyUsed = errors.New("email already in use")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrEmptyName        = errors.New("name fields must not be empty")
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const userColumns = `id, email, first_name, last_name, password_hash, password_salt, membership, is_admin, created_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.PasswordSalt,
		&u.Membership,
		&u.Admin,
		&u.CreatedAt,
	)

	return u, err
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		var scanErr error
		u, scanErr = scanUser(r.pool.QueryRow(
			ctx,
			`SELECT `+userColumns+`
			 FROM users
			 WHERE lower(email) = $1`,
			user.NormalizeEmail(email),
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		var scanErr error
		u, scanErr = scanUser(r.pool.QueryRow(
			ctx,
			`SELECT `+userColumns+`
			 FROM users
			 WHERE id = $1`,
			id,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

// Create inserts a new guest user. Email uniqueness is enforced by the unique
// index; a concurrent duplicate surfaces here as ErrEmailAlreadyUsed, not as a
// raw pg error.
func (r *UsersRepo) Create(ctx context.Context, email, firstName, lastName, passwordHash, passwordSalt string) (user.User, error) {
	email = user.NormalizeEmail(email)

	if !user.ValidEmail(email) {
		return user.User{}, ErrInvalidEmail
	}

	if firstName == "" || lastName == "" {
		return user.User{}, ErrEmptyName
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		PasswordSalt: passwordSalt,
		Membership:   user.MembershipGuest,
		Admin:        false,
		CreatedAt:    time.Now().UTC(),
	}

	err := r.observe("users.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO users (`+userColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			`,
			u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.PasswordSalt, u.Membership, u.Admin, u.CreatedAt,
		)
		return execErr
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, ErrEmailAlreadyUsed
		}

		return user.User{}, err
	}

	return u, nil
}

// SetMembership is idempotent; setting the membership a user already has is a
// no-op update.
func (r *UsersRepo) SetMembership(ctx context.Context, id, membership string) error {
	return r.observe("users.set_membership", func() error {
		_, err := r.pool.Exec(ctx, `
			UPDATE users
			SET membership = $2
			WHERE id = $1
		`, id, membership)

		return err
	})
}

func (r *UsersRepo) SetAdmin(ctx context.Context, id string, admin bool) error {
	return r.observe("users.set_admin", func() error {
		_, err := r.pool.Exec(ctx, `
			UPDATE users
			SET is_admin = $2
			WHERE id = $1
		`, id, admin)

		return err
	})
}
