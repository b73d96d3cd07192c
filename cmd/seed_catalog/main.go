// seed_catalog carga el catálogo de productos desde un CSV exportado del sistema anterior.
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual. El archivo viene en ISO-8859-1
// separado por ';' con las columnas: codigo;nombre;stock_minimo (la primera fila es encabezado).
// Usa el mismo almacenamiento que la API (STORE_DRIVER, DATABASE_URL, SQLITE_PATH...).
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_catalog"})
	ctx := context.Background()

	var repo repository.ProductRepository
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		shape, err := sqlite.ParseShape(cfg.Store.Shape)
		if err != nil {
			log.Fatal().Err(err).Msg("forma de lotes SQLite")
		}
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir SQLite")
		}
		defer db.Close()
		if err := sqlite.Migrate(ctx, db, shape); err != nil {
			log.Fatal().Err(err).Msg("migrar SQLite")
		}
		repo = sqlite.NewProductRepository(db)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repo = postgres.NewProductRepository(pool)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", csvPath).Msg("abrir CSV")
	}
	defer f.Close()

	res, err := importCatalog(ctx, f, usecase.NewProductUseCase(repo), log)
	if err != nil {
		log.Fatal().Err(err).Msg("importar catálogo")
	}
	log.Info().
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Int("invalid", res.Invalid).
		Msg("catálogo importado")
}

type importResult struct {
	Created int
	Skipped int // ya existían
	Invalid int
}

// importCatalog lee el CSV en ISO-8859-1 y crea cada producto. Los códigos existentes se omiten;
// las filas mal formadas se registran y no detienen la carga.
func importCatalog(ctx context.Context, r io.Reader, uc *usecase.ProductUseCase, log *logger.Logger) (importResult, error) {
	var res importResult
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	line := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		line++
		if err != nil {
			return res, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && isHeader(record) {
			continue
		}

		in, err := parseRecord(record)
		if err != nil {
			res.Invalid++
			log.Warn().Int("line", line).Err(err).Msg("fila inválida")
			continue
		}
		if _, err := uc.Create(ctx, in); err != nil {
			switch {
			case errors.Is(err, domain.ErrDuplicate):
				res.Skipped++
			case errors.Is(err, domain.ErrValidation):
				res.Invalid++
				log.Warn().Int("line", line).Err(err).Msg("fila inválida")
			default:
				return res, fmt.Errorf("línea %d: %w", line, err)
			}
			continue
		}
		res.Created++
	}
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "codigo")
}

func parseRecord(record []string) (dto.CreateProductRequest, error) {
	if len(record) < 2 {
		return dto.CreateProductRequest{}, fmt.Errorf("se esperaban al menos 2 columnas, hay %d", len(record))
	}
	in := dto.CreateProductRequest{
		Code: strings.TrimSpace(record[0]),
		Name: strings.TrimSpace(record[1]),
	}
	if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
		minStock, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
		if err != nil {
			return in, fmt.Errorf("stock mínimo %q: %w", record[2], err)
		}
		in.MinStock = minStock
	}
	return in, nil
}
