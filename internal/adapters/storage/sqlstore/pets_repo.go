package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"petshop-crm/internal/domain/pets"
)

type PetsRepo struct {
	db *DB
}

func NewPetsRepo(db *DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, client_id, name, species, breed, size,
	weight, birth_date, color, observations, vaccinations, image_url,
	active, created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.exec(ctx, r.db.sql, `
		INSERT INTO pets (`+petColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		p.ID, p.ClientID, p.Name, string(p.Species), p.Breed, string(p.Size),
		toNullDecimal(p.Weight), toNullMillis(p.BirthDate), p.Color, p.Observations, p.Vaccinations, p.ImageURL,
		p.Active, toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.exec(ctx, r.db.sql, `
		UPDATE pets
		SET
			name = ?, species = ?, breed = ?, size = ?,
			weight = ?, birth_date = ?, color = ?,
			observations = ?, vaccinations = ?, image_url = ?,
			active = ?, updated_at = ?
		WHERE id = ?
	`,
		p.Name, string(p.Species), p.Breed, string(p.Size),
		toNullDecimal(p.Weight), toNullMillis(p.BirthDate), p.Color,
		p.Observations, p.Vaccinations, p.ImageURL,
		p.Active, toMillis(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, ErrNotFound
	}
	row := r.db.queryRow(ctx, r.db.sql, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id)
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) List(ctx context.Context, search string) ([]pets.Pet, error) {
	q := `SELECT ` + petColumns + ` FROM pets`
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		q += ` WHERE LOWER(name) LIKE ? OR LOWER(breed) LIKE ?`
		args = append(args, likePattern(s), likePattern(s))
	}
	q += ` ORDER BY created_at DESC`
	return r.list(ctx, q, args...)
}

func (r *PetsRepo) ListByClient(ctx context.Context, clientID string) ([]pets.Pet, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return []pets.Pet{}, nil
	}
	return r.list(ctx, `
		SELECT `+petColumns+` FROM pets
		WHERE client_id = ?
		ORDER BY created_at ASC
	`, clientID)
}

// Delete falla con ErrConflict si la mascota tiene agendamientos.
func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	res, err := r.db.exec(ctx, r.db.sql, `
		DELETE FROM pets
		WHERE id = ?
			AND NOT EXISTS (SELECT 1 FROM grooming_appointments WHERE pet_id = ?)
	`, id, id)
	if err != nil {
		return err
	}
	if err := rowsAffected(res); err == nil {
		return nil
	}

	n, err := r.db.scalar(ctx, `SELECT COUNT(*) FROM pets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	return ErrNotFound
}

func (r *PetsRepo) list(ctx context.Context, q string, args ...any) ([]pets.Pet, error) {
	rows, err := r.db.query(ctx, r.db.sql, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPet(s scanner) (pets.Pet, error) {
	var (
		p                    pets.Pet
		species, size        string
		weight               decimal.NullDecimal
		birthDate            sql.NullInt64
		createdAt, updatedAt int64
	)
	if err := s.Scan(
		&p.ID, &p.ClientID, &p.Name, &species, &p.Breed, &size,
		&weight, &birthDate, &p.Color, &p.Observations, &p.Vaccinations, &p.ImageURL,
		&p.Active, &createdAt, &updatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.Species = pets.Species(species)
	p.Size = pets.Size(size)
	if weight.Valid {
		w := weight.Decimal
		p.Weight = &w
	}
	p.BirthDate = fromNullMillis(birthDate)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
