// Package memory implementa los puertos contables en memoria. Se usa en tests y en
// ejecuciones locales sin base de datos; respeta el índice único de números, el
// borrado en cascada de líneas y el rollback de transacciones.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/hospital-contable/internal/application/ledger"
	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

var _ ledger.LedgerTxRunner = (*Store)(nil)

type state struct {
	periods  map[string]*entity.AccountingPeriod
	entries  map[string]*entity.JournalEntry
	lines    map[string][]*entity.JournalLine
	numbers  map[string]string // number -> entry id
	counters map[string]int64
}

func newState() *state {
	return &state{
		periods:  make(map[string]*entity.AccountingPeriod),
		entries:  make(map[string]*entity.JournalEntry),
		lines:    make(map[string][]*entity.JournalLine),
		numbers:  make(map[string]string),
		counters: make(map[string]int64),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.periods {
		c.periods[k] = copyPeriod(v)
	}
	for k, v := range st.entries {
		c.entries[k] = copyEntry(v)
	}
	for k, v := range st.lines {
		c.lines[k] = copyLines(v)
	}
	for k, v := range st.numbers {
		c.numbers[k] = v
	}
	for k, v := range st.counters {
		c.counters[k] = v
	}
	return c
}

// access da acceso al estado: el confirmado (con mutex) o el de una transacción en curso.
type access interface {
	read(fn func(st *state))
	write(fn func(st *state))
}

// Store guarda periodos, comprobantes y contadores. Las transacciones se serializan y
// trabajan sobre una copia que reemplaza al estado confirmado solo si fn termina sin error.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

func (s *Store) write(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

// AddPeriod registra un periodo (lo haría el módulo de gestión de periodos).
func (s *Store) AddPeriod(p *entity.AccountingPeriod) {
	s.write(func(st *state) {
		st.periods[p.ID] = copyPeriod(p)
	})
}

// Periods repositorio de periodos sobre el estado confirmado.
func (s *Store) Periods() *PeriodRepository {
	return &PeriodRepository{db: s}
}

// Entries repositorio de comprobantes sobre el estado confirmado.
func (s *Store) Entries() *JournalEntryRepository {
	return &JournalEntryRepository{db: s}
}

// Counters repositorio de contadores sobre el estado confirmado.
func (s *Store) Counters() *SequenceCounterRepository {
	return &SequenceCounterRepository{db: s}
}

// RunLedger ejecuta fn sobre una copia del estado y la confirma si fn no falla y el
// contexto sigue vigente.
func (s *Store) RunLedger(ctx context.Context, fn func(
	periodRepo repository.PeriodRepository,
	entryRepo repository.JournalEntryRepository,
	counterRepo repository.SequenceCounterRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	var work *state
	s.read(func(st *state) { work = st.clone() })
	tx := &txState{st: work}

	if err := fn(&PeriodRepository{db: tx}, &JournalEntryRepository{db: tx}, &SequenceCounterRepository{db: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.write(func(st *state) { *st = *work })
	return nil
}

// txState estado privado de una transacción; lo usa una sola goroutine.
type txState struct {
	st *state
}

func (t *txState) read(fn func(st *state))  { fn(t.st) }
func (t *txState) write(fn func(st *state)) { fn(t.st) }

func copyPeriod(p *entity.AccountingPeriod) *entity.AccountingPeriod {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func copyEntry(e *entity.JournalEntry) *entity.JournalEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.Lines = nil
	c.Period = nil
	if e.ApprovedAt != nil {
		t := *e.ApprovedAt
		c.ApprovedAt = &t
	}
	if e.VoidedAt != nil {
		t := *e.VoidedAt
		c.VoidedAt = &t
	}
	return &c
}

func copyLines(lines []*entity.JournalLine) []*entity.JournalLine {
	out := make([]*entity.JournalLine, 0, len(lines))
	for _, l := range lines {
		c := *l
		out = append(out, &c)
	}
	return out
}
