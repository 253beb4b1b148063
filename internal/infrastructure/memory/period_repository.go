package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

var _ repository.PeriodRepository = (*PeriodRepository)(nil)

// PeriodRepository implementación en memoria de repository.PeriodRepository.
type PeriodRepository struct {
	db access
}

// GetOpen devuelve el periodo OPEN de inicio más reciente, o nil.
func (r *PeriodRepository) GetOpen(_ context.Context) (*entity.AccountingPeriod, error) {
	var open []*entity.AccountingPeriod
	r.db.read(func(st *state) {
		for _, p := range st.periods {
			if p.IsOpen() {
				open = append(open, copyPeriod(p))
			}
		}
	})
	if len(open) == 0 {
		return nil, nil
	}
	sort.Slice(open, func(i, j int) bool { return open[i].StartDate.After(open[j].StartDate) })
	return open[0], nil
}

func (r *PeriodRepository) GetByID(_ context.Context, id string) (*entity.AccountingPeriod, error) {
	var p *entity.AccountingPeriod
	r.db.read(func(st *state) { p = copyPeriod(st.periods[id]) })
	return p, nil
}

func (r *PeriodRepository) GetByIDs(_ context.Context, ids []string) (map[string]*entity.AccountingPeriod, error) {
	out := make(map[string]*entity.AccountingPeriod, len(ids))
	r.db.read(func(st *state) {
		for _, id := range ids {
			if p, ok := st.periods[id]; ok {
				out[id] = copyPeriod(p)
			}
		}
	})
	return out, nil
}
