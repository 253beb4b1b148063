package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/hospital-contable/internal/application/ledger"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

var _ ledger.LedgerTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLedger inicia una transacción, ejecuta fn con repos contables atados a la tx y hace
// Commit. Cualquier error de fn provoca Rollback y se devuelve tal cual.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	periodRepo repository.PeriodRepository,
	entryRepo repository.JournalEntryRepository,
	counterRepo repository.SequenceCounterRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	periodRepo := NewPeriodRepository(tx)
	entryRepo := NewJournalEntryRepository(tx)
	counterRepo := NewSequenceCounterRepository(tx)

	if err := fn(periodRepo, entryRepo, counterRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
