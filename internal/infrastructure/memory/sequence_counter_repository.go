package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/hospital-contable/internal/domain/accounting"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

var _ repository.SequenceCounterRepository = (*SequenceCounterRepository)(nil)

// SequenceCounterRepository contador por (prefijo, año) en memoria.
type SequenceCounterRepository struct {
	db access
}

func (r *SequenceCounterRepository) Increment(_ context.Context, prefix string, year int) (int64, error) {
	key := fmt.Sprintf("%s|%d", prefix, year)
	var next int64
	r.db.write(func(st *state) {
		cur, ok := st.counters[key]
		if !ok {
			for number := range st.numbers {
				if seq, err := accounting.ParseSequence(number, prefix, year); err == nil && seq > cur {
					cur = seq
				}
			}
		}
		next = cur + 1
		st.counters[key] = next
	})
	return next, nil
}
