package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/hospital-contable/internal/domain"
	"github.com/jhoicas/hospital-contable/internal/domain/accounting"
	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

// UpdateDraft reemplaza fecha, tipo, descripción, documento de origen y líneas de un
// comprobante en DRAFT. Número y periodo no cambian.
func (s *Service) UpdateDraft(ctx context.Context, id, actorID string, in EntryInput) (*entity.JournalEntry, error) {
	totals, err := accounting.Validate(in.Type, toLines(in.Lines))
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	var updated *entity.JournalEntry
	err = s.txRunner.RunLedger(ctx, func(
		periodRepo repository.PeriodRepository,
		entryRepo repository.JournalEntryRepository,
		_ repository.SequenceCounterRepository,
	) error {
		entry, err := lockEntry(ctx, entryRepo, id)
		if err != nil {
			return err
		}
		if _, err := accounting.CheckTransition(accounting.ActionEdit, entry.Status); err != nil {
			return err
		}

		now := s.now()
		entry.Date = entryDate(in.Date, now)
		entry.Type = totals.Type
		entry.Description = in.Description
		entry.OriginDocType = in.OriginDocType
		entry.OriginDocID = in.OriginDocID
		entry.TotalDebit = totals.Debit
		entry.TotalCredit = totals.Credit
		entry.UpdatedAt = now

		ok, err := entryRepo.UpdateDraft(ctx, entry)
		if err != nil {
			return fmt.Errorf("actualizar comprobante: %w", err)
		}
		if !ok {
			return domain.NewConflictError("journal entry changed concurrently")
		}
		if err := entryRepo.DeleteLines(ctx, entry.ID); err != nil {
			return fmt.Errorf("borrar líneas: %w", err)
		}
		lines := newLines(entry.ID, in.Lines)
		if err := entryRepo.CreateLines(ctx, lines); err != nil {
			return fmt.Errorf("guardar líneas: %w", err)
		}
		entry.Lines = lines
		if entry.Period, err = periodRepo.GetByID(ctx, entry.PeriodID); err != nil {
			return fmt.Errorf("leer periodo: %w", err)
		}
		updated = entry
		return nil
	})
	if err != nil {
		return nil, s.writeFailed(ctx, "update_draft", id, err)
	}
	s.log.Info().Str("entry_id", updated.ID).Str("number", updated.Number).Str("actor", actorID).
		Msg("comprobante editado")
	return updated, nil
}

// lockEntry lee y bloquea el comprobante; NotFoundError si no existe.
func lockEntry(ctx context.Context, entryRepo repository.JournalEntryRepository, id string) (*entity.JournalEntry, error) {
	entry, err := entryRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer comprobante: %w", err)
	}
	if entry == nil {
		return nil, domain.NewNotFoundError("journal entry not found")
	}
	return entry, nil
}
