package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

var _ repository.PeriodRepository = (*PeriodRepo)(nil)

// PeriodRepo lectura de accounting_periods (usable con pool o tx).
type PeriodRepo struct {
	q Querier
}

// NewPeriodRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPeriodRepository(q Querier) *PeriodRepo {
	return &PeriodRepo{q: q}
}

const periodColumns = `id, label, year, start_date, end_date, status, created_at, updated_at`

// GetOpen devuelve nil, nil si no hay periodo abierto.
func (r *PeriodRepo) GetOpen(ctx context.Context) (*entity.AccountingPeriod, error) {
	const q = `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE status = 'OPEN'
		ORDER BY start_date DESC
		LIMIT 1`
	p, err := scanPeriod(r.q.QueryRow(ctx, q))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open period: %w", err)
	}
	return p, nil
}

func (r *PeriodRepo) GetByID(ctx context.Context, id string) (*entity.AccountingPeriod, error) {
	if !isUUID(id) {
		return nil, nil
	}
	const q = `SELECT ` + periodColumns + ` FROM accounting_periods WHERE id = $1`
	p, err := scanPeriod(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get period by id: %w", err)
	}
	return p, nil
}

func (r *PeriodRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.AccountingPeriod, error) {
	out := make(map[string]*entity.AccountingPeriod, len(ids))
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	const q = `SELECT ` + periodColumns + ` FROM accounting_periods WHERE id = ANY($1::uuid[])`
	rows, err := r.q.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// pgxScanner abstrae pgx.Row y pgx.Rows para reutilizar los scan*.
type pgxScanner interface {
	Scan(dest ...any) error
}

func scanPeriod(row pgxScanner) (*entity.AccountingPeriod, error) {
	var p entity.AccountingPeriod
	err := row.Scan(&p.ID, &p.Label, &p.Year, &p.StartDate, &p.EndDate, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
