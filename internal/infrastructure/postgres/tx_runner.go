package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepos construye el juego de repositorios sobre q (pool o tx) para las capacidades dadas.
func NewRepos(q Querier, caps *schema.Capabilities) inventory.TxRepos {
	return inventory.TxRepos{
		Lots:        NewLotRepository(q, caps),
		Products:    NewProductRepository(q),
		History:     NewHistoryRepository(q),
		Purchases:   NewPurchaseRepository(q),
		Sales:       NewSaleRepository(q),
		Devolutions: NewDevolutionRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, caps *schema.Capabilities, fn func(inventory.TxRepos) error) error {
	return r.run(ctx, pgx.TxOptions{}, caps, fn)
}

// View igual que Run en una transacción de solo lectura.
func (r *TxRunner) View(ctx context.Context, caps *schema.Capabilities, fn func(inventory.TxRepos) error) error {
	return r.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, caps, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, caps *schema.Capabilities, fn func(inventory.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrStorageUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx, caps)); err != nil {
		if isLockTimeout(err) {
			return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return fmt.Errorf("%w: commit transaction: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}
