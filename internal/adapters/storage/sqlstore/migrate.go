package sqlstore

import (
	"context"
	"fmt"
	"strings"
)

// schema es el mismo para ambos motores salvo el tipo decimal del peso.
// Timestamps en epoch ms, montos en centavos.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id             TEXT PRIMARY KEY,
	open_id        TEXT NOT NULL UNIQUE,
	name           TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL DEFAULT '',
	login_method   TEXT NOT NULL DEFAULT '',
	role           TEXT NOT NULL DEFAULT 'user',
	created_at     BIGINT NOT NULL,
	updated_at     BIGINT NOT NULL,
	last_signed_in BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	sku          TEXT NOT NULL UNIQUE,
	description  TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL DEFAULT '',
	brand        TEXT NOT NULL DEFAULT '',
	price        BIGINT NOT NULL DEFAULT 0,
	cost_price   BIGINT NOT NULL DEFAULT 0,
	stock        INTEGER NOT NULL DEFAULT 0,
	min_stock    INTEGER NOT NULL DEFAULT 5,
	unit         TEXT NOT NULL DEFAULT 'un',
	tags         TEXT NOT NULL DEFAULT '',
	image_url    TEXT NOT NULL DEFAULT '',
	active       BOOLEAN NOT NULL,
	ai_generated BOOLEAN NOT NULL,
	created_at   BIGINT NOT NULL,
	updated_at   BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	phone      TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	address    TEXT NOT NULL DEFAULT '',
	tax_id     TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	active     BOOLEAN NOT NULL,
	last_visit BIGINT,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_clients_last_visit ON clients (last_visit);

CREATE TABLE IF NOT EXISTS pets (
	id           TEXT PRIMARY KEY,
	client_id    TEXT NOT NULL REFERENCES clients (id),
	name         TEXT NOT NULL,
	species      TEXT NOT NULL,
	breed        TEXT NOT NULL DEFAULT '',
	size         TEXT NOT NULL,
	weight       {{DECIMAL}},
	birth_date   BIGINT,
	color        TEXT NOT NULL DEFAULT '',
	observations TEXT NOT NULL DEFAULT '',
	vaccinations TEXT NOT NULL DEFAULT '',
	image_url    TEXT NOT NULL DEFAULT '',
	active       BOOLEAN NOT NULL,
	created_at   BIGINT NOT NULL,
	updated_at   BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pets_client ON pets (client_id);

CREATE TABLE IF NOT EXISTS grooming_appointments (
	id             TEXT PRIMARY KEY,
	pet_id         TEXT NOT NULL REFERENCES pets (id),
	client_id      TEXT NOT NULL REFERENCES clients (id),
	service        TEXT NOT NULL,
	status         TEXT NOT NULL,
	scheduled_at   BIGINT NOT NULL,
	completed_at   BIGINT,
	price          BIGINT NOT NULL DEFAULT 0,
	notes          TEXT NOT NULL DEFAULT '',
	groomer        TEXT NOT NULL DEFAULT '',
	check_in_token TEXT NOT NULL UNIQUE,
	created_at     BIGINT NOT NULL,
	updated_at     BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_appointments_scheduled ON grooming_appointments (scheduled_at);
CREATE INDEX IF NOT EXISTS idx_appointments_client ON grooming_appointments (client_id);
CREATE INDEX IF NOT EXISTS idx_appointments_pet ON grooming_appointments (pet_id);

CREATE TABLE IF NOT EXISTS transactions (
	id             TEXT PRIMARY KEY,
	type           TEXT NOT NULL,
	category       TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	amount         BIGINT NOT NULL,
	date           BIGINT NOT NULL,
	client_id      TEXT,
	appointment_id TEXT,
	product_id     TEXT,
	created_at     BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (type, date);

CREATE TABLE IF NOT EXISTS marketing_campaigns (
	id                   TEXT PRIMARY KEY,
	name                 TEXT NOT NULL,
	message              TEXT NOT NULL,
	discount_percent     INTEGER NOT NULL DEFAULT 0,
	target_days_inactive INTEGER NOT NULL DEFAULT 30,
	status               TEXT NOT NULL DEFAULT 'draft',
	sent_count           INTEGER NOT NULL DEFAULT 0,
	created_at           BIGINT NOT NULL,
	updated_at           BIGINT NOT NULL
);
`

// Migrate crea el esquema si no existe. Es idempotente.
func (d *DB) Migrate(ctx context.Context) error {
	decimalType := "TEXT"
	if d.driver == DriverPostgres {
		decimalType = "NUMERIC(8,2)"
	}
	ddl := strings.ReplaceAll(schema, "{{DECIMAL}}", decimalType)

	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
