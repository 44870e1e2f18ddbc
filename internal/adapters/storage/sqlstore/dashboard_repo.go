package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"petshop-crm/internal/domain/dashboard"
	"petshop-crm/internal/platform/money"
)

type DashboardRepo struct {
	db *DB
}

func NewDashboardRepo(db *DB) *DashboardRepo {
	return &DashboardRepo{db: db}
}

func (r *DashboardRepo) SumAmount(ctx context.Context, typ dashboard.TransactionType, from, to time.Time) (money.Cents, error) {
	v, err := r.db.scalar(ctx, `
		SELECT CAST(COALESCE(SUM(amount), 0) AS BIGINT)
		FROM transactions
		WHERE type = ? AND date >= ? AND date < ?
	`, string(typ), toMillis(from), toMillis(to))
	return money.Cents(v), err
}

func (r *DashboardRepo) CountActiveClients(ctx context.Context) (int, error) {
	n, err := r.db.scalar(ctx, `SELECT COUNT(*) FROM clients WHERE active = ?`, true)
	return int(n), err
}

func (r *DashboardRepo) CountActiveProducts(ctx context.Context) (int, error) {
	n, err := r.db.scalar(ctx, `SELECT COUNT(*) FROM products WHERE active = ?`, true)
	return int(n), err
}

func (r *DashboardRepo) CountAppointments(ctx context.Context, from, to time.Time) (int, error) {
	n, err := r.db.scalar(ctx, `
		SELECT COUNT(*) FROM grooming_appointments
		WHERE scheduled_at >= ? AND scheduled_at < ?
	`, toMillis(from), toMillis(to))
	return int(n), err
}

func (r *DashboardRepo) CountLowStock(ctx context.Context) (int, error) {
	n, err := r.db.scalar(ctx, `SELECT COUNT(*) FROM products WHERE stock <= min_stock`)
	return int(n), err
}

func (r *DashboardRepo) CreateTransaction(ctx context.Context, t dashboard.Transaction) error {
	_, err := r.db.exec(ctx, r.db.sql, `
		INSERT INTO transactions (
			id, type, category, description, amount, date,
			client_id, appointment_id, product_id, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?)
	`,
		t.ID, string(t.Type), t.Category, t.Description, int64(t.Amount), toMillis(t.Date),
		toNullString(t.ClientID), toNullString(t.AppointmentID), toNullString(t.ProductID),
		toMillis(t.CreatedAt),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *DashboardRepo) ListTransactions(ctx context.Context, from, to *time.Time) ([]dashboard.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if from != nil {
		where = append(where, `date >= ?`)
		args = append(args, toMillis(*from))
	}
	if to != nil {
		where = append(where, `date <= ?`)
		args = append(args, toMillis(*to))
	}
	q := `
		SELECT id, type, category, description, amount, date,
			client_id, appointment_id, product_id, created_at
		FROM transactions`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY date DESC`

	rows, err := r.db.query(ctx, r.db.sql, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dashboard.Transaction, 0)
	for rows.Next() {
		var (
			t                        dashboard.Transaction
			typ                      string
			amount, date, createdAt  int64
			clientID, apptID, prodID sql.NullString
		)
		if err := rows.Scan(
			&t.ID, &typ, &t.Category, &t.Description, &amount, &date,
			&clientID, &apptID, &prodID, &createdAt,
		); err != nil {
			return nil, err
		}
		t.Type = dashboard.TransactionType(typ)
		t.Amount = money.Cents(amount)
		t.Date = fromMillis(date)
		t.ClientID = fromNullString(clientID)
		t.AppointmentID = fromNullString(apptID)
		t.ProductID = fromNullString(prodID)
		t.CreatedAt = fromMillis(createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}
