package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id               BIGSERIAL PRIMARY KEY,
		supplier         VARCHAR(120) NOT NULL,
		name             VARCHAR(120) NOT NULL,
		description      TEXT,
		price_cents      BIGINT NOT NULL CHECK (price_cents >= 0),
		image            VARCHAR(255),
		brand            VARCHAR(120),
		weight           VARCHAR(50),
		ingredients      TEXT,
		allergens        TEXT,
		nutritional_info TEXT,
		stock            INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                BIGSERIAL PRIMARY KEY,
		stripe_session_id VARCHAR(255) NOT NULL UNIQUE,
		amount_total      BIGINT NOT NULL DEFAULT 0,
		currency          VARCHAR(10) NOT NULL DEFAULT 'usd',
		paid              BOOLEAN NOT NULL DEFAULT false,
		payload           TEXT,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS products_supplier_idx ON products (supplier)`,
}
