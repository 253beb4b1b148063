package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/hospital-contable/internal/domain"
	"github.com/jhoicas/hospital-contable/internal/domain/accounting"
	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
	"golang.org/x/text/cases"
)

var _ repository.JournalEntryRepository = (*JournalEntryRepository)(nil)

// JournalEntryRepository implementación en memoria de repository.JournalEntryRepository.
// Devuelve y guarda copias: lo que el llamador modifique no llega al store sin un Update.
type JournalEntryRepository struct {
	db access
}

func (r *JournalEntryRepository) Create(_ context.Context, e *entity.JournalEntry) error {
	var err error
	r.db.write(func(st *state) {
		if _, dup := st.numbers[e.Number]; dup {
			err = domain.ErrDuplicateNumber
			return
		}
		if _, exists := st.entries[e.ID]; exists {
			err = fmt.Errorf("comprobante %s ya existe", e.ID)
			return
		}
		st.entries[e.ID] = copyEntry(e)
		st.numbers[e.Number] = e.ID
	})
	return err
}

func (r *JournalEntryRepository) CreateLines(_ context.Context, lines []*entity.JournalLine) error {
	var err error
	r.db.write(func(st *state) {
		for _, l := range lines {
			if _, ok := st.entries[l.EntryID]; !ok {
				err = fmt.Errorf("línea %s: comprobante %s no existe", l.ID, l.EntryID)
				return
			}
			for _, existing := range st.lines[l.EntryID] {
				if existing.LineOrder == l.LineOrder {
					err = fmt.Errorf("línea duplicada en orden %d", l.LineOrder)
					return
				}
			}
			c := *l
			st.lines[l.EntryID] = append(st.lines[l.EntryID], &c)
		}
		for _, l := range lines {
			sortLines(st.lines[l.EntryID])
		}
	})
	return err
}

func (r *JournalEntryRepository) GetByID(_ context.Context, id string) (*entity.JournalEntry, error) {
	var e *entity.JournalEntry
	r.db.read(func(st *state) { e = copyEntry(st.entries[id]) })
	return e, nil
}

// GetForUpdate equivale a GetByID: las transacciones en memoria ya son exclusivas.
func (r *JournalEntryRepository) GetForUpdate(ctx context.Context, id string) (*entity.JournalEntry, error) {
	return r.GetByID(ctx, id)
}

func (r *JournalEntryRepository) GetLines(_ context.Context, entryID string) ([]*entity.JournalLine, error) {
	var out []*entity.JournalLine
	r.db.read(func(st *state) { out = copyLines(st.lines[entryID]) })
	return out, nil
}

func (r *JournalEntryRepository) GetLinesByEntryIDs(_ context.Context, entryIDs []string) (map[string][]*entity.JournalLine, error) {
	out := make(map[string][]*entity.JournalLine, len(entryIDs))
	r.db.read(func(st *state) {
		for _, id := range entryIDs {
			if lines, ok := st.lines[id]; ok {
				out[id] = copyLines(lines)
			}
		}
	})
	return out, nil
}

func (r *JournalEntryRepository) LastNumber(_ context.Context, prefix string, year int) (string, error) {
	var last string
	var maxSeq int64
	r.db.read(func(st *state) {
		for number := range st.numbers {
			seq, err := accounting.ParseSequence(number, prefix, year)
			if err != nil {
				continue
			}
			if last == "" || seq > maxSeq {
				last, maxSeq = number, seq
			}
		}
	})
	return last, nil
}

func (r *JournalEntryRepository) UpdateDraft(_ context.Context, e *entity.JournalEntry) (bool, error) {
	var ok bool
	r.db.write(func(st *state) {
		cur, exists := st.entries[e.ID]
		if !exists || cur.Status != entity.EntryStatusDraft {
			return
		}
		cur.Date = e.Date
		cur.Type = e.Type
		cur.Description = e.Description
		cur.OriginDocType = e.OriginDocType
		cur.OriginDocID = e.OriginDocID
		cur.TotalDebit = e.TotalDebit
		cur.TotalCredit = e.TotalCredit
		cur.UpdatedAt = e.UpdatedAt
		ok = true
	})
	return ok, nil
}

func (r *JournalEntryRepository) UpdateStatus(_ context.Context, e *entity.JournalEntry, fromStatus string) (bool, error) {
	var ok bool
	r.db.write(func(st *state) {
		cur, exists := st.entries[e.ID]
		if !exists || cur.Status != fromStatus {
			return
		}
		next := copyEntry(e)
		cur.Status = next.Status
		cur.ApprovedBy = next.ApprovedBy
		cur.ApprovedAt = next.ApprovedAt
		cur.VoidedBy = next.VoidedBy
		cur.VoidedAt = next.VoidedAt
		cur.VoidReason = next.VoidReason
		cur.UpdatedAt = next.UpdatedAt
		ok = true
	})
	return ok, nil
}

func (r *JournalEntryRepository) DeleteLines(_ context.Context, entryID string) error {
	r.db.write(func(st *state) { delete(st.lines, entryID) })
	return nil
}

func (r *JournalEntryRepository) Delete(_ context.Context, id, fromStatus string) (bool, error) {
	var ok bool
	r.db.write(func(st *state) {
		cur, exists := st.entries[id]
		if !exists || cur.Status != fromStatus {
			return
		}
		delete(st.entries, id)
		delete(st.numbers, cur.Number)
		delete(st.lines, id)
		ok = true
	})
	return ok, nil
}

func (r *JournalEntryRepository) List(_ context.Context, f repository.JournalEntryFilter, limit, offset int) ([]*entity.JournalEntry, int, error) {
	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(f.Search))

	var matched []*entity.JournalEntry
	r.db.read(func(st *state) {
		for _, e := range st.entries {
			if f.PeriodID != "" && e.PeriodID != f.PeriodID {
				continue
			}
			if f.Type != "" && e.Type != f.Type {
				continue
			}
			if f.Status != "" && e.Status != f.Status {
				continue
			}
			if f.DateFrom != nil && e.Date.Before(*f.DateFrom) {
				continue
			}
			if f.DateTo != nil && e.Date.After(*f.DateTo) {
				continue
			}
			if search != "" &&
				!strings.Contains(fold.String(e.Number), search) &&
				!strings.Contains(fold.String(e.Description), search) {
				continue
			}
			matched = append(matched, copyEntry(e))
		}
	})

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].Number > matched[j].Number
	})

	total := len(matched)
	if offset >= total {
		return []*entity.JournalEntry{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func sortLines(lines []*entity.JournalLine) {
	sort.Slice(lines, func(i, j int) bool { return lines[i].LineOrder < lines[j].LineOrder })
}
