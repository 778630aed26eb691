// cmd/ddlgen/ddlgen.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"localix/internal/domain/catalog"
	"localix/internal/domain/customer"
	"localix/internal/domain/installment"
	"localix/internal/domain/order"
	"localix/internal/domain/sale"
)

func mustWrite(path string, content string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		panic(err)
	}
}

// ddlgen dumps the per-domain DDL reference constants into migration files.
// Ordering matters: customers and products come before the tables that
// reference them.
func main() {
	outDir := filepath.Join("internal", "infra", "database", "migrations")

	files := []struct {
		name string
		ddl  string
	}{
		{"init_products.sql", catalog.ProductsTableDDL},
		{"init_product_colors.sql", catalog.ProductColorsTableDDL},
		{"init_product_variants.sql", catalog.ProductVariantsTableDDL},
		{"init_customers.sql", customer.CustomersTableDDL},
		{"init_sales.sql", sale.SalesTableDDL},
		{"init_sale_lines.sql", sale.SaleLinesTableDDL},
		{"init_orders.sql", order.OrdersTableDDL},
		{"init_order_status_history.sql", order.OrderStatusHistoryTableDDL},
		{"init_installments.sql", installment.InstallmentsTableDDL},
	}

	for _, f := range files {
		path := filepath.Join(outDir, f.name)
		mustWrite(path, f.ddl)
		fmt.Println("wrote", path)
	}
}
