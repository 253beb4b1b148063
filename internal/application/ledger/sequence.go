package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/hospital-contable/internal/domain/accounting"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

// Estrategias de numeración (LEDGER_SEQUENCE_STRATEGY).
const (
	StrategyLookup  = "lookup"
	StrategyCounter = "counter"
	StrategyRedis   = "redis"
)

var (
	_ SequenceGenerator = LookupSequence{}
	_ SequenceGenerator = CounterSequence{}
)

// LookupSequence lee el mayor número del año dentro de la transacción y le suma uno.
// Dos transacciones concurrentes pueden calcular el mismo número; el índice único
// rechaza la segunda y CreateEntry reintenta.
type LookupSequence struct{}

func (LookupSequence) Next(ctx context.Context,
	entryRepo repository.JournalEntryRepository,
	_ repository.SequenceCounterRepository,
	prefix string, year int,
) (string, error) {
	last, err := entryRepo.LastNumber(ctx, prefix, year)
	if err != nil {
		return "", fmt.Errorf("último número: %w", err)
	}
	seq, err := accounting.NextSequence(last, prefix, year)
	if err != nil {
		return "", err
	}
	return accounting.FormatNumber(prefix, year, seq), nil
}

// CounterSequence incrementa un contador por (prefijo, año) en la misma transacción.
type CounterSequence struct{}

func (CounterSequence) Next(ctx context.Context,
	_ repository.JournalEntryRepository,
	counterRepo repository.SequenceCounterRepository,
	prefix string, year int,
) (string, error) {
	seq, err := counterRepo.Increment(ctx, prefix, year)
	if err != nil {
		return "", fmt.Errorf("incrementar consecutivo: %w", err)
	}
	return accounting.FormatNumber(prefix, year, seq), nil
}
