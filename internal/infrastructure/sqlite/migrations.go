package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Shape forma de la tabla lots a crear.
type Shape string

const (
	ShapeLegacy Shape = "legacy" // solo quantity
	ShapeSplit  Shape = "split"  // packages + loose_units + units_per_package + deactivation_reason
	ShapeFull   Shape = "full"   // ambas formas
)

// ParseShape acepta legacy, split o full.
func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case ShapeLegacy:
		return ShapeLegacy, nil
	case ShapeSplit:
		return ShapeSplit, nil
	case ShapeFull, "":
		return ShapeFull, nil
	}
	return "", fmt.Errorf("forma de lots desconocida: %q", s)
}

func lotsTable(shape Shape) string {
	cols := []string{
		"id TEXT PRIMARY KEY",
		"product_id TEXT NOT NULL",
		"code TEXT NOT NULL DEFAULT ''",
		"expiration_date DATETIME",
		"cost_price TEXT NOT NULL DEFAULT '0'",
		"sale_price TEXT NOT NULL DEFAULT '0'",
		"discount_pct TEXT NOT NULL DEFAULT '0'",
		"tax_rate TEXT NOT NULL DEFAULT '0'",
		"active INTEGER NOT NULL DEFAULT 1",
		"created_at DATETIME NOT NULL",
		"updated_at DATETIME NOT NULL",
	}
	if shape == ShapeLegacy || shape == ShapeFull {
		cols = append(cols, "quantity INTEGER NOT NULL DEFAULT 0")
	}
	if shape == ShapeSplit || shape == ShapeFull {
		cols = append(cols,
			"packages INTEGER NOT NULL DEFAULT 0",
			"loose_units INTEGER NOT NULL DEFAULT 0",
			"units_per_package INTEGER NOT NULL DEFAULT 1",
			"deactivation_reason TEXT",
		)
	}
	return "CREATE TABLE IF NOT EXISTS lots (\n\t" + strings.Join(cols, ",\n\t") + "\n)"
}

// Migrate crea el esquema del libro. La forma de lots solo aplica si la tabla no existe.
func Migrate(ctx context.Context, db *sqlx.DB, shape Shape) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS products (
            id TEXT PRIMARY KEY,
            code TEXT NOT NULL UNIQUE,
            name TEXT NOT NULL,
            min_stock INTEGER NOT NULL DEFAULT 0,
            stock_actual INTEGER NOT NULL DEFAULT 0,
            active INTEGER NOT NULL DEFAULT 1,
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL
        )`,
		lotsTable(shape),
		`CREATE INDEX IF NOT EXISTS idx_lots_product ON lots (product_id, expiration_date, id)`,
		`CREATE TABLE IF NOT EXISTS lot_history (
            id TEXT PRIMARY KEY,
            transaction_id TEXT NOT NULL,
            lot_id TEXT NOT NULL,
            product_id TEXT NOT NULL,
            action TEXT NOT NULL,
            units INTEGER NOT NULL,
            detail TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL,
            created_by TEXT
        )`,
		`CREATE INDEX IF NOT EXISTS idx_lot_history_lot ON lot_history (lot_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS purchase_orders (
            id TEXT PRIMARY KEY,
            supplier TEXT NOT NULL,
            invoice_number TEXT NOT NULL DEFAULT '',
            total_cost TEXT NOT NULL,
            created_at DATETIME NOT NULL,
            created_by TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS purchase_lines (
            id TEXT PRIMARY KEY,
            purchase_id TEXT NOT NULL,
            product_id TEXT NOT NULL,
            lot_id TEXT NOT NULL,
            created_lot INTEGER NOT NULL,
            packages INTEGER NOT NULL,
            unit_factor INTEGER NOT NULL,
            unit_cost TEXT NOT NULL,
            sale_price TEXT NOT NULL,
            tax_rate TEXT NOT NULL,
            discount_pct TEXT NOT NULL,
            subtotal TEXT NOT NULL,
            created_at DATETIME NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS sales (
            id TEXT PRIMARY KEY,
            subtotal TEXT NOT NULL,
            discount_total TEXT NOT NULL,
            tax_total TEXT NOT NULL,
            total TEXT NOT NULL,
            created_at DATETIME NOT NULL,
            created_by TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS sale_lines (
            id TEXT PRIMARY KEY,
            sale_id TEXT NOT NULL,
            product_id TEXT NOT NULL,
            lot_id TEXT NOT NULL,
            mode TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            units_sold INTEGER NOT NULL,
            unit_price TEXT NOT NULL,
            subtotal TEXT NOT NULL,
            discount TEXT NOT NULL,
            tax TEXT NOT NULL,
            total TEXT NOT NULL,
            created_at DATETIME NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_sale_lines_sale ON sale_lines (sale_id)`,
		`CREATE TABLE IF NOT EXISTS devolutions (
            id TEXT PRIMARY KEY,
            sale_id TEXT NOT NULL,
            reason TEXT NOT NULL DEFAULT '',
            refund_total TEXT NOT NULL,
            created_at DATETIME NOT NULL,
            created_by TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS devolution_lines (
            id TEXT PRIMARY KEY,
            devolution_id TEXT NOT NULL,
            sale_line_id TEXT NOT NULL,
            product_id TEXT NOT NULL,
            lot_id TEXT NOT NULL,
            units INTEGER NOT NULL,
            refund TEXT NOT NULL,
            created_at DATETIME NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_devolution_lines_sale_line ON devolution_lines (sale_line_id)`,
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
