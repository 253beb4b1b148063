package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/hospital-contable/internal/domain/accounting"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

var _ repository.SequenceCounterRepository = (*SequenceCounterRepo)(nil)

// SequenceCounterRepo contador atómico por (prefijo, año) en journal_sequences.
type SequenceCounterRepo struct {
	q Querier
}

// NewSequenceCounterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceCounterRepository(q Querier) *SequenceCounterRepo {
	return &SequenceCounterRepo{q: q}
}

// Increment crea la fila la primera vez, sembrada con el mayor consecutivo ya usado en
// journal_entries, y la incrementa en las siguientes. La fila queda bloqueada hasta el
// commit, así que dos creaciones del mismo año se serializan aquí.
func (r *SequenceCounterRepo) Increment(ctx context.Context, prefix string, year int) (int64, error) {
	const q = `
		INSERT INTO journal_sequences (prefix, year, last_value, updated_at)
		VALUES ($1, $2, COALESCE((
			SELECT MAX(CAST(SUBSTRING(number FROM LENGTH($3::text) + 1) AS BIGINT))
			FROM journal_entries
			WHERE number LIKE $4
			  AND SUBSTRING(number FROM LENGTH($3::text) + 1) ~ '^[0-9]+$'
		), 0) + 1, now())
		ON CONFLICT (prefix, year)
		DO UPDATE SET last_value = journal_sequences.last_value + 1, updated_at = now()
		RETURNING last_value`
	ns := accounting.NumberPrefix(prefix, year)
	var seq int64
	if err := r.q.QueryRow(ctx, q, prefix, year, ns, likeEscape(ns)+"%").Scan(&seq); err != nil {
		return 0, fmt.Errorf("increment journal_sequence: %w", err)
	}
	return seq, nil
}
