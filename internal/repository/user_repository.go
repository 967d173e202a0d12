package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/Kiraws/ExploreTogoBack/internal/model"
	"github.com/Kiraws/ExploreTogoBack/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Create hashes the password and inserts the user, returning its ID.
// Emails are normalized to lower case before storage so the unique
// index catches case-variant duplicates.
func (r *UserRepo) Create(ctx context.Context, name, firstname, email, password string, genre *string, role string, cost int) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.DB.QueryRowContext(ctx,
		`INSERT INTO users (name, firstname, email, password_hash, genre, role)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		name, firstname, email, hash, genre, role).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	return id, nil
}

const userColumns = `id, name, firstname, email, password_hash, genre, role, active, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Firstname, &u.Email, &u.PasswordHash,
		&u.Genre, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`, email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 LIMIT 1`, id))
}

// UpdateProfile applies the non-nil profile fields and returns the
// refreshed row. An email change can still trip the unique index.
func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, name, firstname, email, genre *string) (model.User, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 5)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if name != nil {
		set("name", *name)
	}
	if firstname != nil {
		set("firstname", *firstname)
	}
	if email != nil {
		set("email", strings.ToLower(strings.TrimSpace(*email)))
	}
	if genre != nil {
		set("genre", *genre)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = NOW()")
		args = append(args, id)
		q := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
		if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
			if isUniqueViolation(err) {
				return model.User{}, ErrEmailExists
			}
			return model.User{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// SetPassword replaces the stored hash. Used by the reset flow.
func (r *UserRepo) SetPassword(ctx context.Context, id int64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Deactivate soft-deletes the account. The row stays so likes,
// favorites and reservations keep their foreign keys.
func (r *UserRepo) Deactivate(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
