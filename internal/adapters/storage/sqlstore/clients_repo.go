package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"petshop-crm/internal/domain/clients"
)

type ClientsRepo struct {
	db *DB
}

func NewClientsRepo(db *DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

const clientColumns = `
	id, name, phone, email, address, tax_id, notes,
	active, last_visit, created_at, updated_at`

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) error {
	_, err := r.db.exec(ctx, r.db.sql, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)
	`,
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.TaxID, c.Notes,
		c.Active, toNullMillis(c.LastVisit), toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// Update no toca last_visit: solo lo escribe la creación de agendamientos.
func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) error {
	res, err := r.db.exec(ctx, r.db.sql, `
		UPDATE clients
		SET name = ?, phone = ?, email = ?, address = ?, tax_id = ?, notes = ?,
			active = ?, updated_at = ?
		WHERE id = ?
	`,
		c.Name, c.Phone, c.Email, c.Address, c.TaxID, c.Notes,
		c.Active, toMillis(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func (r *ClientsRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return clients.Client{}, ErrNotFound
	}
	row := r.db.queryRow(ctx, r.db.sql, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return clients.Client{}, ErrNotFound
	}
	return c, err
}

func (r *ClientsRepo) List(ctx context.Context, search string) ([]clients.Client, error) {
	q := `SELECT ` + clientColumns + ` FROM clients`
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		q += ` WHERE LOWER(name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(email) LIKE ?`
		args = append(args, likePattern(s), likePattern(s), likePattern(s))
	}
	q += ` ORDER BY created_at DESC`
	return r.list(ctx, q, args...)
}

// Delete falla con ErrConflict si quedan mascotas o agendamientos del cliente.
func (r *ClientsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	res, err := r.db.exec(ctx, r.db.sql, `
		DELETE FROM clients
		WHERE id = ?
			AND NOT EXISTS (SELECT 1 FROM pets WHERE client_id = ?)
			AND NOT EXISTS (SELECT 1 FROM grooming_appointments WHERE client_id = ?)
	`, id, id, id)
	if err != nil {
		return err
	}
	if err := rowsAffected(res); err == nil {
		return nil
	}

	ok, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if ok {
		return ErrConflict
	}
	return ErrNotFound
}

func (r *ClientsRepo) Inactive(ctx context.Context, cutoff time.Time) ([]clients.Client, error) {
	return r.list(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE last_visit IS NULL OR last_visit < ?
		ORDER BY name ASC
	`, toMillis(cutoff))
}

func (r *ClientsRepo) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.db.scalar(ctx, `SELECT COUNT(*) FROM clients WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ClientsRepo) list(ctx context.Context, q string, args ...any) ([]clients.Client, error) {
	rows, err := r.db.query(ctx, r.db.sql, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]clients.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanClient(s scanner) (clients.Client, error) {
	var (
		c                    clients.Client
		lastVisit            sql.NullInt64
		createdAt, updatedAt int64
	)
	if err := s.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.TaxID, &c.Notes,
		&c.Active, &lastVisit, &createdAt, &updatedAt,
	); err != nil {
		return clients.Client{}, err
	}
	c.LastVisit = fromNullMillis(lastVisit)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}
