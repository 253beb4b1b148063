package ledger

import (
	"context"

	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

// LedgerTxRunner ejecuta fn dentro de una transacción con repos contables atados a ella.
// Si fn devuelve error se hace rollback y el error se propaga sin modificar.
type LedgerTxRunner interface {
	RunLedger(ctx context.Context, fn func(
		periodRepo repository.PeriodRepository,
		entryRepo repository.JournalEntryRepository,
		counterRepo repository.SequenceCounterRepository,
	) error) error
}

// SequenceGenerator asigna el siguiente número de comprobante del espacio (prefix, year).
// Se invoca dentro de la transacción de creación con los repos de esa transacción.
type SequenceGenerator interface {
	Next(ctx context.Context,
		entryRepo repository.JournalEntryRepository,
		counterRepo repository.SequenceCounterRepository,
		prefix string, year int,
	) (string, error)
}
