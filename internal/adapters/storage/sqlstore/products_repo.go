package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"petshop-crm/internal/domain/products"
	"petshop-crm/internal/platform/money"
)

type ProductsRepo struct {
	db *DB
}

func NewProductsRepo(db *DB) *ProductsRepo {
	return &ProductsRepo{db: db}
}

const productColumns = `
	id, name, sku, description, category, brand,
	price, cost_price, stock, min_stock, unit,
	tags, image_url, active, ai_generated,
	created_at, updated_at`

func (r *ProductsRepo) Create(ctx context.Context, p products.Product) error {
	_, err := r.db.exec(ctx, r.db.sql, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		p.ID, p.Name, p.SKU, p.Description, p.Category, p.Brand,
		int64(p.Price), int64(p.CostPrice), p.Stock, p.MinStock, p.Unit,
		p.Tags, p.ImageURL, p.Active, p.AIGenerated,
		toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *ProductsRepo) Update(ctx context.Context, p products.Product) error {
	res, err := r.db.exec(ctx, r.db.sql, `
		UPDATE products
		SET
			name = ?, sku = ?, description = ?, category = ?, brand = ?,
			price = ?, cost_price = ?, stock = ?, min_stock = ?, unit = ?,
			tags = ?, image_url = ?, active = ?, ai_generated = ?,
			updated_at = ?
		WHERE id = ?
	`,
		p.Name, p.SKU, p.Description, p.Category, p.Brand,
		int64(p.Price), int64(p.CostPrice), p.Stock, p.MinStock, p.Unit,
		p.Tags, p.ImageURL, p.Active, p.AIGenerated,
		toMillis(p.UpdatedAt),
		p.ID,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func (r *ProductsRepo) GetByID(ctx context.Context, id string) (products.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return products.Product{}, ErrNotFound
	}
	row := r.db.queryRow(ctx, r.db.sql, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return products.Product{}, ErrNotFound
	}
	return p, err
}

func (r *ProductsRepo) List(ctx context.Context, f products.ListFilter) ([]products.Product, error) {
	var (
		where []string
		args  []any
	)
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, `(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)`)
		args = append(args, likePattern(s), likePattern(s))
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		where = append(where, `category = ?`)
		args = append(args, c)
	}

	q := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC`
	return r.list(ctx, q, args...)
}

func (r *ProductsRepo) LowStock(ctx context.Context) ([]products.Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE stock <= min_stock
		ORDER BY stock ASC, name ASC
	`)
}

func (r *ProductsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.exec(ctx, r.db.sql, `DELETE FROM products WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func (r *ProductsRepo) list(ctx context.Context, q string, args ...any) ([]products.Product, error) {
	rows, err := r.db.query(ctx, r.db.sql, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]products.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// scanner lo cumplen *sql.Row y *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (products.Product, error) {
	var (
		p                    products.Product
		price, cost          int64
		createdAt, updatedAt int64
	)
	if err := s.Scan(
		&p.ID, &p.Name, &p.SKU, &p.Description, &p.Category, &p.Brand,
		&price, &cost, &p.Stock, &p.MinStock, &p.Unit,
		&p.Tags, &p.ImageURL, &p.Active, &p.AIGenerated,
		&createdAt, &updatedAt,
	); err != nil {
		return products.Product{}, err
	}
	p.Price = money.Cents(price)
	p.CostPrice = money.Cents(cost)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}
