// Package sqlite es el almacenamiento embebido del libro de inventario (sqlx + modernc.org/sqlite).
// Una sola conexión abierta serializa las transacciones: es el equivalente al bloqueo de filas
// que PostgreSQL obtiene con SELECT FOR UPDATE.
package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Querier es la interfaz común de *sqlx.DB y *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
}

// Open abre (o crea) la base en path. ":memory:" crea una base en memoria por proceso.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	return db, nil
}
