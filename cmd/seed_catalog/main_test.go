package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func latin1(t *testing.T, s string) *bytes.Reader {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestImportCatalog(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db, sqlite.ShapeFull))
	uc := usecase.NewProductUseCase(sqlite.NewProductRepository(db))

	csv := "codigo;nombre;stock_minimo\n" +
		"ACE-500;Acetaminofén 500 mg;20\n" +
		"IBU-400;Ibuprofeno 400 mg;\n" +
		"ACE-500;Duplicado;5\n" +
		"SIN-NOMBRE;;3\n" +
		"LOR-10;Loratadina 10 mg;diez\n"

	res, err := importCatalog(ctx, latin1(t, csv), uc, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, importResult{Created: 2, Skipped: 1, Invalid: 2}, res)

	p, err := uc.GetByCode(ctx, "ACE-500")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Acetaminofén 500 mg", p.Name, "el nombre se decodifica desde ISO-8859-1")
	assert.Equal(t, int64(20), p.MinStock)
	assert.Zero(t, p.StockActual)

	p, err = uc.GetByCode(ctx, "IBU-400")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Zero(t, p.MinStock)
}

func TestParseRecord_ColumnasInsuficientes(t *testing.T) {
	_, err := parseRecord([]string{"SOLO-CODIGO"})
	assert.Error(t, err)
}
