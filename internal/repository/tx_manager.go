package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxStores are the stores bound to one transaction. Every mutation a
// lifecycle operation performs goes through these, so the slot and the
// booking change together or not at all.
type TxStores struct {
	Slots    SlotStore
	Bookings BookingStore
}

// TxManager runs a function inside a single transaction, rolling back on
// any error exit and committing otherwise.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, stores TxStores) error) error
}

type PgxTxManager struct {
	pool *pgxpool.Pool
}

func NewPgxTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{pool: pool}
}

func (m *PgxTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, stores TxStores) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stores := TxStores{
		Slots:    NewSlotRepository(tx),
		Bookings: NewBookingRepository(tx),
	}

	if err := fn(ctx, stores); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
