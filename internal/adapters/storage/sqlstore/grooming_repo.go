package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"petshop-crm/internal/domain/grooming"
	"petshop-crm/internal/platform/money"
)

type GroomingRepo struct {
	db *DB
}

func NewGroomingRepo(db *DB) *GroomingRepo {
	return &GroomingRepo{db: db}
}

const appointmentColumns = `
	a.id, a.pet_id, a.client_id, a.service, a.status,
	a.scheduled_at, a.completed_at, a.price, a.notes, a.groomer,
	a.check_in_token, a.created_at, a.updated_at`

// CreateWithVisit: el insert y el last_visit del cliente van juntos o no van.
func (r *GroomingRepo) CreateWithVisit(ctx context.Context, a grooming.Appointment, visitAt time.Time) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := r.db.exec(ctx, tx, `
			INSERT INTO grooming_appointments (
				id, pet_id, client_id, service, status,
				scheduled_at, completed_at, price, notes, groomer,
				check_in_token, created_at, updated_at
			) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
		`,
			a.ID, a.PetID, a.ClientID, string(a.Service), string(a.Status),
			toMillis(a.ScheduledAt), toNullMillis(a.CompletedAt), int64(a.Price), a.Notes, a.Groomer,
			a.CheckInToken, toMillis(a.CreatedAt), toMillis(a.UpdatedAt),
		)
		if isUniqueViolation(err) {
			return ErrConflict
		}
		if err != nil {
			return err
		}

		res, err := r.db.exec(ctx, tx, `UPDATE clients SET last_visit = ? WHERE id = ?`, toMillis(visitAt), a.ClientID)
		if err != nil {
			return err
		}
		return rowsAffected(res)
	})
}

func (r *GroomingRepo) Update(ctx context.Context, a grooming.Appointment) error {
	res, err := r.db.exec(ctx, r.db.sql, `
		UPDATE grooming_appointments
		SET
			service = ?, status = ?, scheduled_at = ?, completed_at = ?,
			price = ?, notes = ?, groomer = ?, updated_at = ?
		WHERE id = ?
	`,
		string(a.Service), string(a.Status), toMillis(a.ScheduledAt), toNullMillis(a.CompletedAt),
		int64(a.Price), a.Notes, a.Groomer, toMillis(a.UpdatedAt),
		a.ID,
	)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func (r *GroomingRepo) GetByID(ctx context.Context, id string) (grooming.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return grooming.Appointment{}, ErrNotFound
	}
	row := r.db.queryRow(ctx, r.db.sql, `SELECT `+appointmentColumns+` FROM grooming_appointments a WHERE a.id = ?`, id)
	a, err := scanAppointment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return grooming.Appointment{}, ErrNotFound
	}
	return a, err
}

// GetByToken trae el agendamiento con los datos públicos de mascota y tutor.
func (r *GroomingRepo) GetByToken(ctx context.Context, token string) (grooming.Tracking, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return grooming.Tracking{}, ErrNotFound
	}
	row := r.db.queryRow(ctx, r.db.sql, `
		SELECT `+appointmentColumns+`,
			p.name, p.species, p.breed, c.name
		FROM grooming_appointments a
		JOIN pets p ON p.id = a.pet_id
		JOIN clients c ON c.id = a.client_id
		WHERE a.check_in_token = ?
	`, token)

	var t grooming.Tracking
	a, err := scanAppointment(row, &t.PetName, &t.PetSpecies, &t.PetBreed, &t.ClientName)
	if errors.Is(err, sql.ErrNoRows) {
		return grooming.Tracking{}, ErrNotFound
	}
	if err != nil {
		return grooming.Tracking{}, err
	}
	t.Appointment = a
	return t, nil
}

func (r *GroomingRepo) ListInRange(ctx context.Context, from, to *time.Time) ([]grooming.Appointment, error) {
	var (
		where []string
		args  []any
	)
	if from != nil {
		where = append(where, `a.scheduled_at >= ?`)
		args = append(args, toMillis(*from))
	}
	if to != nil {
		where = append(where, `a.scheduled_at <= ?`)
		args = append(args, toMillis(*to))
	}
	q := `SELECT ` + appointmentColumns + ` FROM grooming_appointments a`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY a.scheduled_at ASC`
	return r.list(ctx, q, args...)
}

func (r *GroomingRepo) ListByClient(ctx context.Context, clientID string) ([]grooming.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+` FROM grooming_appointments a
		WHERE a.client_id = ?
		ORDER BY a.scheduled_at DESC
	`, strings.TrimSpace(clientID))
}

func (r *GroomingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.exec(ctx, r.db.sql, `DELETE FROM grooming_appointments WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func (r *GroomingRepo) list(ctx context.Context, q string, args ...any) ([]grooming.Appointment, error) {
	rows, err := r.db.query(ctx, r.db.sql, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]grooming.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// scanAppointment acepta destinos extra para columnas agregadas al final (joins).
func scanAppointment(s scanner, extra ...any) (grooming.Appointment, error) {
	var (
		a                    grooming.Appointment
		service, status      string
		scheduledAt, price   int64
		completedAt          sql.NullInt64
		createdAt, updatedAt int64
	)
	dest := []any{
		&a.ID, &a.PetID, &a.ClientID, &service, &status,
		&scheduledAt, &completedAt, &price, &a.Notes, &a.Groomer,
		&a.CheckInToken, &createdAt, &updatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return grooming.Appointment{}, err
	}
	a.Service = grooming.ServiceType(service)
	a.Status = grooming.Status(status)
	a.ScheduledAt = fromMillis(scheduledAt)
	a.CompletedAt = fromNullMillis(completedAt)
	a.Price = money.Cents(price)
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return a, nil
}
