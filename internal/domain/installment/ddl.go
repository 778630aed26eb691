// internal/domain/installment/ddl.go
package installment

// DDL reference (for schema alignment with migrations)
const InstallmentsTableDDL = `
CREATE TABLE installments (
  id UUID PRIMARY KEY,
  order_id UUID NOT NULL REFERENCES orders(id),
  amount BIGINT NOT NULL,
  method TEXT NOT NULL,
  reference TEXT,
  notes TEXT,
  status TEXT NOT NULL,
  receipt_url TEXT,
  actor TEXT,

  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  confirmed_at TIMESTAMPTZ,

  CHECK (amount > 0)
);
CREATE INDEX idx_installments_order ON installments (order_id, created_at);
`
