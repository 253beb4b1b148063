package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/hospital-contable/internal/application/dto"
	"github.com/jhoicas/hospital-contable/internal/domain"
	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

// EntryPage página de comprobantes.
type EntryPage struct {
	Entries    []*entity.JournalEntry
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// ListEntries lista comprobantes filtrados, ordenados por fecha y número descendentes,
// con sus líneas y periodo. page < 1 equivale a 1; limit se acota a [1, 100] (20 por defecto).
func (s *Service) ListEntries(ctx context.Context, filter repository.JournalEntryFilter, page, limit int) (*EntryPage, error) {
	p := dto.PageRequest{Page: page, Limit: limit}
	p.Normalize()

	entries, total, err := s.entries.List(ctx, filter, p.Limit, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("listar comprobantes: %w", err)
	}
	if err := s.attach(ctx, entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*entity.JournalEntry{}
	}
	return &EntryPage{
		Entries:    entries,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: dto.TotalPages(total, p.Limit),
	}, nil
}

// GetByID devuelve el comprobante con líneas (por LineOrder) y periodo.
func (s *Service) GetByID(ctx context.Context, id string) (*entity.JournalEntry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer comprobante: %w", err)
	}
	if entry == nil {
		return nil, domain.NewNotFoundError("journal entry not found")
	}
	if err := s.attach(ctx, []*entity.JournalEntry{entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetOpenPeriod devuelve el periodo abierto, o NotFoundError si no hay ninguno.
func (s *Service) GetOpenPeriod(ctx context.Context) (*entity.AccountingPeriod, error) {
	period, err := s.periods.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("periodo abierto: %w", err)
	}
	if period == nil {
		return nil, domain.NewNotFoundError("no open period")
	}
	return period, nil
}

// attach completa líneas y periodo de los comprobantes con una consulta por tabla.
func (s *Service) attach(ctx context.Context, entries []*entity.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, 0, len(entries))
	periodIDs := make([]string, 0, len(entries))
	seen := make(map[string]bool)
	for _, e := range entries {
		ids = append(ids, e.ID)
		if !seen[e.PeriodID] {
			seen[e.PeriodID] = true
			periodIDs = append(periodIDs, e.PeriodID)
		}
	}
	lines, err := s.entries.GetLinesByEntryIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("leer líneas: %w", err)
	}
	periods, err := s.periods.GetByIDs(ctx, periodIDs)
	if err != nil {
		return fmt.Errorf("leer periodos: %w", err)
	}
	for _, e := range entries {
		e.Lines = lines[e.ID]
		if e.Lines == nil {
			e.Lines = []*entity.JournalLine{}
		}
		e.Period = periods[e.PeriodID]
	}
	return nil
}
