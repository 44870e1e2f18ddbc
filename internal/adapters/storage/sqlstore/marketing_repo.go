package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"petshop-crm/internal/domain/marketing"
)

type MarketingRepo struct {
	db *DB
}

func NewMarketingRepo(db *DB) *MarketingRepo {
	return &MarketingRepo{db: db}
}

const campaignColumns = `
	id, name, message, discount_percent, target_days_inactive,
	status, sent_count, created_at, updated_at`

func (r *MarketingRepo) Create(ctx context.Context, c marketing.Campaign) error {
	_, err := r.db.exec(ctx, r.db.sql, `
		INSERT INTO marketing_campaigns (`+campaignColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?)
	`,
		c.ID, c.Name, c.Message, c.DiscountPercent, c.TargetDaysInactive,
		string(c.Status), c.SentCount, toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// Update no escribe sent_count.
func (r *MarketingRepo) Update(ctx context.Context, c marketing.Campaign) error {
	res, err := r.db.exec(ctx, r.db.sql, `
		UPDATE marketing_campaigns
		SET name = ?, message = ?, discount_percent = ?, target_days_inactive = ?,
			status = ?, updated_at = ?
		WHERE id = ?
	`,
		c.Name, c.Message, c.DiscountPercent, c.TargetDaysInactive,
		string(c.Status), toMillis(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func (r *MarketingRepo) GetByID(ctx context.Context, id string) (marketing.Campaign, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return marketing.Campaign{}, ErrNotFound
	}
	row := r.db.queryRow(ctx, r.db.sql, `SELECT `+campaignColumns+` FROM marketing_campaigns WHERE id = ?`, id)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return marketing.Campaign{}, ErrNotFound
	}
	return c, err
}

func (r *MarketingRepo) List(ctx context.Context) ([]marketing.Campaign, error) {
	rows, err := r.db.query(ctx, r.db.sql, `
		SELECT `+campaignColumns+` FROM marketing_campaigns
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]marketing.Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *MarketingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.exec(ctx, r.db.sql, `DELETE FROM marketing_campaigns WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func scanCampaign(s scanner) (marketing.Campaign, error) {
	var (
		c                    marketing.Campaign
		status               string
		createdAt, updatedAt int64
	)
	if err := s.Scan(
		&c.ID, &c.Name, &c.Message, &c.DiscountPercent, &c.TargetDaysInactive,
		&status, &c.SentCount, &createdAt, &updatedAt,
	); err != nil {
		return marketing.Campaign{}, err
	}
	c.Status = marketing.Status(status)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}
