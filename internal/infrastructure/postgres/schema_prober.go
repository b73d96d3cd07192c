package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
)

var _ schema.Prober = (*SchemaProber)(nil)

// SchemaProber consulta information_schema para conocer las columnas de lots.
type SchemaProber struct {
	q Querier
}

// NewSchemaProber construye el prober. Pasar el pool.
func NewSchemaProber(q Querier) *SchemaProber {
	return &SchemaProber{q: q}
}

// LotColumns devuelve el conjunto de columnas de la tabla lots del esquema actual.
func (p *SchemaProber) LotColumns(ctx context.Context) (map[string]bool, error) {
	query := `
		SELECT column_name FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = 'lots'`
	rows, err := p.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("probe lots columns: %w", err)
	}
	defer rows.Close()
	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("probe lots columns: %w", err)
	}
	return cols, nil
}
