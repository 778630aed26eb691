// internal/domain/catalog/ddl.go
package catalog

// DDL reference (for schema alignment with migrations)
const ProductsTableDDL = `
CREATE TABLE products (
  id UUID PRIMARY KEY,
  owner_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  price BIGINT NOT NULL DEFAULT 0,
  cost BIGINT NOT NULL DEFAULT 0,
  tracks_stock BOOLEAN NOT NULL DEFAULT TRUE,
  stock INTEGER NOT NULL DEFAULT 0,
  reserved INTEGER NOT NULL DEFAULT 0,
  min_stock INTEGER NOT NULL DEFAULT 0,
  units_sold INTEGER NOT NULL DEFAULT 0,

  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

  UNIQUE (owner_id, sku),
  CHECK (stock >= 0),
  CHECK (reserved >= 0),
  CHECK (stock >= reserved)
);
`

const ProductColorsTableDDL = `
CREATE TABLE product_colors (
  id UUID PRIMARY KEY,
  product_id UUID NOT NULL REFERENCES products(id),
  name TEXT NOT NULL,
  hex_code TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  reserved INTEGER NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0,
  active BOOLEAN NOT NULL DEFAULT TRUE,

  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

  CHECK (stock >= 0),
  CHECK (reserved >= 0),
  CHECK (stock >= reserved)
);
CREATE INDEX idx_product_colors_product ON product_colors (product_id);
`

const ProductVariantsTableDDL = `
CREATE TABLE product_variants (
  id UUID PRIMARY KEY,
  product_id UUID NOT NULL REFERENCES products(id),
  name TEXT NOT NULL,
  value TEXT,
  sku TEXT,
  price_extra BIGINT NOT NULL DEFAULT 0,
  stock INTEGER NOT NULL DEFAULT 0,
  reserved INTEGER NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0,

  CHECK (stock >= 0),
  CHECK (reserved >= 0),
  CHECK (stock >= reserved)
);
CREATE INDEX idx_product_variants_product ON product_variants (product_id);
`
