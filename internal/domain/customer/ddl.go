// internal/domain/customer/ddl.go
package customer

// DDL reference (for schema alignment with migrations)
const CustomersTableDDL = `
CREATE TABLE customers (
  id UUID PRIMARY KEY,
  owner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  document_type TEXT NOT NULL DEFAULT 'dni',
  document_number TEXT,
  address TEXT,
  active BOOLEAN NOT NULL DEFAULT TRUE,

  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX idx_customers_owner ON customers (owner_id);
`
