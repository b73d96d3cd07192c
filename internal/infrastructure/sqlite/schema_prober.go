package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
)

var _ schema.Prober = (*SchemaProber)(nil)

// SchemaProber lee las columnas de lots con pragma_table_info.
type SchemaProber struct {
	db *sqlx.DB
}

// NewSchemaProber construye el prober sobre la base.
func NewSchemaProber(db *sqlx.DB) *SchemaProber {
	return &SchemaProber{db: db}
}

// LotColumns devuelve el conjunto de columnas de lots (vacío si la tabla no existe).
func (p *SchemaProber) LotColumns(ctx context.Context) (map[string]bool, error) {
	var names []string
	if err := p.db.SelectContext(ctx, &names, `SELECT name FROM pragma_table_info('lots')`); err != nil {
		return nil, fmt.Errorf("probe lots columns: %w", err)
	}
	cols := make(map[string]bool, len(names))
	for _, n := range names {
		cols[n] = true
	}
	return cols, nil
}
