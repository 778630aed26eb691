// internal/domain/sale/ddl.go
package sale

// DDL reference (for schema alignment with migrations)
const SalesTableDDL = `
CREATE SEQUENCE sale_number_seq START 1;

CREATE TABLE sales (
  id UUID PRIMARY KEY,
  number TEXT NOT NULL UNIQUE,
  owner_id TEXT NOT NULL,
  customer_id UUID REFERENCES customers(id),
  customer_name TEXT,
  subtotal BIGINT NOT NULL DEFAULT 0,
  discount_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
  discount BIGINT NOT NULL DEFAULT 0,
  total BIGINT NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  seller TEXT,
  notes TEXT,

  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX idx_sales_owner_created ON sales (owner_id, created_at DESC);
`

const SaleLinesTableDDL = `
CREATE TABLE sale_lines (
  id UUID PRIMARY KEY,
  sale_id UUID NOT NULL REFERENCES sales(id),
  product_id UUID NOT NULL REFERENCES products(id),
  variant_id UUID REFERENCES product_variants(id),
  color_id UUID REFERENCES product_colors(id),
  quantity INTEGER NOT NULL,
  unit_price BIGINT NOT NULL,
  line_discount BIGINT NOT NULL DEFAULT 0,
  subtotal BIGINT NOT NULL,

  CHECK (quantity >= 1)
);
CREATE INDEX idx_sale_lines_sale ON sale_lines (sale_id);
`
