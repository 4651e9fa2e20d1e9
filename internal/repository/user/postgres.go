package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketfront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const userColumns = `id::text, email, password_hash, COALESCE(full_name, ''), COALESCE(phone, ''), role, status, created_at`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (email, password_hash, full_name, phone, role, status)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
RETURNING ` + userColumns + `
`
	return r.scanUser(r.pool.QueryRow(ctx, q,
		strings.ToLower(strings.TrimSpace(u.Email)),
		u.PasswordHash,
		u.FullName,
		u.Phone,
		u.Role,
		u.Status,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id, fullName, phone string) error {
	const q = `
UPDATE users
SET full_name = COALESCE(NULLIF($2, ''), full_name),
    phone = COALESCE(NULLIF($3, ''), phone)
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, id, fullName, phone)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	const q = `
SELECT id::text, user_id::text, full_name, COALESCE(phone, ''), street, city, COALESCE(state, ''), postal_code, country, is_default, created_at
FROM addresses
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("user repo: list addresses user=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.Street, &a.City, &a.State, &a.PostalCode, &a.Country, &a.IsDefault, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Role, &u.Status, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: scan error=%v", err)
		return nil, err
	}
	return &u, nil
}
