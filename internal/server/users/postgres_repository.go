package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/rosterctl/internal/common"
	"github.com/dmitrijs2005/rosterctl/internal/dbx"
)

const uniqueViolation = "23505"

const selectUser = `SELECT id, name, email, password_hash, status, last_login, created_at FROM users`

type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository accepts either *sql.DB or *sql.Tx.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	query :=
		`INSERT INTO users (name, email, password_hash, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`

	u := *user
	if u.Status == "" {
		u.Status = StatusUnverified
	}

	err := r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, string(u.Status)).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+` WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id)
	return scanUser(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*User, error) {
	var (
		u         User
		status    string
		lastLogin sql.NullTime
	)
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &status, &lastLogin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.Status = Status(status)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` ORDER BY last_login DESC NULLS LAST, id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Verify(ctx context.Context, id int64) error {
	query :=
		`UPDATE users
		 SET status = CASE WHEN status = 'UNVERIFIED' THEN 'ACTIVE' ELSE status END
		 WHERE id = $1`

	n, err := r.exec(ctx, query, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	n, err := r.exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at.UTC())
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, ids []int64, status Status, from ...Status) (int, error) {
	if len(from) == 0 {
		return r.exec(ctx, `UPDATE users SET status = $1 WHERE id = ANY($2)`, string(status), ids)
	}

	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}
	return r.exec(ctx,
		`UPDATE users SET status = $1 WHERE id = ANY($2) AND status = ANY($3)`,
		string(status), ids, states)
}

func (r *PostgresRepository) Delete(ctx context.Context, ids []int64) (int, error) {
	return r.exec(ctx, `DELETE FROM users WHERE id = ANY($1)`, ids)
}

func (r *PostgresRepository) DeleteUnverified(ctx context.Context) (int, error) {
	return r.exec(ctx, `DELETE FROM users WHERE status = 'UNVERIFIED'`)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return int(n), nil
}
