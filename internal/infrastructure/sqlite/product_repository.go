package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre SQLite.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar db o tx.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

type productRow struct {
	ID          string    `db:"id"`
	Code        string    `db:"code"`
	Name        string    `db:"name"`
	MinStock    int64     `db:"min_stock"`
	StockActual int64     `db:"stock_actual"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (p productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID: p.ID, Code: p.Code, Name: p.Name, MinStock: p.MinStock, StockActual: p.StockActual,
		Active: p.Active, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

const productColumns = `id, code, name, min_stock, stock_actual, active, created_at, updated_at`

// Create persiste un nuevo producto con stock_actual en 0.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, 0, ?, ?, ?)`,
		product.ID, product.Code, product.Name, product.MinStock, product.Active, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	product.StockActual = 0
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE code = ?`, code)
}

// ApplyStockDelta suma delta a stock_actual con piso en cero.
func (r *ProductRepo) ApplyStockDelta(ctx context.Context, id string, delta int64) (int64, error) {
	var stock int64
	err := r.q.QueryRowxContext(ctx,
		`UPDATE products SET stock_actual = MAX(stock_actual + ?, 0), updated_at = ? WHERE id = ? RETURNING stock_actual`,
		delta, time.Now(), id).Scan(&stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		return 0, fmt.Errorf("apply stock delta: %w", err)
	}
	return stock, nil
}

// ListBelowMinimum productos activos con stock_actual < min_stock.
func (r *ProductRepo) ListBelowMinimum(ctx context.Context) ([]*entity.Product, error) {
	var rows []productRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `SELECT `+productColumns+` FROM products
		WHERE active = 1 AND min_stock > 0 AND stock_actual < min_stock ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list products below minimum: %w", err)
	}
	list := make([]*entity.Product, 0, len(rows))
	for _, p := range rows {
		list = append(list, p.toEntity())
	}
	return list, nil
}

func (r *ProductRepo) get(ctx context.Context, query string, arg string) (*entity.Product, error) {
	var p productRow
	if err := sqlx.GetContext(ctx, r.q, &p, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p.toEntity(), nil
}
