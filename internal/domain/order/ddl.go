// internal/domain/order/ddl.go
package order

// DDL reference (for schema alignment with migrations)
const OrdersTableDDL = `
CREATE SEQUENCE order_number_seq START 1;

CREATE TABLE orders (
  id UUID PRIMARY KEY,
  number TEXT NOT NULL UNIQUE,
  owner_id TEXT NOT NULL,
  customer_id UUID REFERENCES customers(id),
  sale_id UUID REFERENCES sales(id),
  delivery_address TEXT,
  contact_phone TEXT,
  delivery_instructions TEXT,
  channel TEXT NOT NULL,
  payment_status TEXT NOT NULL,
  status TEXT NOT NULL,
  amount_paid BIGINT NOT NULL DEFAULT 0,
  amount_pending BIGINT NOT NULL DEFAULT 0,
  notes TEXT,
  tracking_code TEXT,
  carrier TEXT,

  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  confirmed_at TIMESTAMPTZ,
  shipped_at TIMESTAMPTZ,
  delivered_at TIMESTAMPTZ
);
CREATE INDEX idx_orders_owner_created ON orders (owner_id, created_at DESC);
CREATE INDEX idx_orders_owner_status ON orders (owner_id, status);
`

const OrderStatusHistoryTableDDL = `
CREATE TABLE order_status_history (
  id UUID PRIMARY KEY,
  order_id UUID NOT NULL REFERENCES orders(id),
  from_status TEXT,
  to_status TEXT NOT NULL,
  note TEXT,
  actor TEXT,
  active BOOLEAN NOT NULL DEFAULT TRUE,

  changed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX idx_order_history_order ON order_status_history (order_id, changed_at);
CREATE UNIQUE INDEX uq_order_history_active ON order_status_history (order_id) WHERE active;
`
