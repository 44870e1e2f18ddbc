package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"petshop-crm/internal/domain/users"
	"petshop-crm/internal/ports/auth"
)

type UsersRepo struct {
	db *DB
}

func NewUsersRepo(db *DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.exec(ctx, r.db.sql, `
		INSERT INTO users (
			id, open_id, name, email, login_method, role,
			created_at, updated_at, last_signed_in
		) VALUES (?,?,?,?,?,?,?,?,?)
	`,
		u.ID, u.OpenID, u.Name, u.Email, u.LoginMethod, string(u.Role),
		toMillis(u.CreatedAt), toMillis(u.UpdatedAt), toMillis(u.LastSignedIn),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.db.exec(ctx, r.db.sql, `
		UPDATE users
		SET name = ?, email = ?, login_method = ?, role = ?,
			updated_at = ?, last_signed_in = ?
		WHERE open_id = ?
	`,
		u.Name, u.Email, u.LoginMethod, string(u.Role),
		toMillis(u.UpdatedAt), toMillis(u.LastSignedIn),
		u.OpenID,
	)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func (r *UsersRepo) GetByOpenID(ctx context.Context, openID string) (users.User, error) {
	openID = strings.TrimSpace(openID)
	if openID == "" {
		return users.User{}, ErrNotFound
	}

	var (
		u                               users.User
		role                            string
		createdAt, updatedAt, lastLogin int64
	)
	err := r.db.queryRow(ctx, r.db.sql, `
		SELECT id, open_id, name, email, login_method, role,
			created_at, updated_at, last_signed_in
		FROM users
		WHERE open_id = ?
	`, openID).Scan(
		&u.ID, &u.OpenID, &u.Name, &u.Email, &u.LoginMethod, &role,
		&createdAt, &updatedAt, &lastLogin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, ErrNotFound
	}
	if err != nil {
		return users.User{}, err
	}
	u.Role = auth.Role(role)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	u.LastSignedIn = fromMillis(lastLogin)
	return u, nil
}
