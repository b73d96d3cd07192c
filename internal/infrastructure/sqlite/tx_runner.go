package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
type TxRunner struct {
	db *sqlx.DB
}

// NewTxRunner construye el runner con la base.
func NewTxRunner(db *sqlx.DB) *TxRunner {
	return &TxRunner{db: db}
}

// NewRepos construye el juego de repositorios sobre q (db o tx) para las capacidades dadas.
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

// Run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, caps *schema.Capabilities, fn func(inventory.TxRepos) error) error {
	return r.run(ctx, caps, true, fn)
}

// View ejecuta fn en una transacción que siempre se descarta.
func (r *TxRunner) View(ctx context.Context, caps *schema.Capabilities, fn func(inventory.TxRepos) error) error {
	return r.run(ctx, caps, false, fn)
}

func (r *TxRunner) run(ctx context.Context, caps *schema.Capabilities, commit bool, fn func(inventory.TxRepos) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrStorageUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewRepos(tx, caps)); err != nil {
		return err
	}
	if !commit {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}
