package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/hospital-contable/internal/domain"
	"github.com/jhoicas/hospital-contable/internal/domain/accounting"
	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

// Submit envía un comprobante DRAFT a revisión (PENDING).
func (s *Service) Submit(ctx context.Context, id, actorID string) (*entity.JournalEntry, error) {
	return s.transition(ctx, id, actorID, accounting.ActionSubmit, nil)
}

// Approve aprueba un comprobante DRAFT o PENDING y registra quién y cuándo.
func (s *Service) Approve(ctx context.Context, id, approverID string) (*entity.JournalEntry, error) {
	return s.transition(ctx, id, approverID, accounting.ActionApprove, func(e *entity.JournalEntry, now time.Time) {
		e.ApprovedBy = approverID
		e.ApprovedAt = &now
	})
}

// Void anula un comprobante que no esté anulado. El comprobante se conserva para auditoría.
func (s *Service) Void(ctx context.Context, id, userID, reason string) (*entity.JournalEntry, error) {
	return s.transition(ctx, id, userID, accounting.ActionVoid, func(e *entity.JournalEntry, now time.Time) {
		e.VoidedBy = userID
		e.VoidedAt = &now
		e.VoidReason = reason
	})
}

// transition aplica action sobre el comprobante bloqueado y actualiza condicionado al
// estado leído; si otra transacción lo cambió entre medio devuelve ConflictError.
func (s *Service) transition(
	ctx context.Context,
	id, actorID string,
	action accounting.Action,
	apply func(e *entity.JournalEntry, now time.Time),
) (*entity.JournalEntry, error) {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	var out *entity.JournalEntry
	err := s.txRunner.RunLedger(ctx, func(
		periodRepo repository.PeriodRepository,
		entryRepo repository.JournalEntryRepository,
		_ repository.SequenceCounterRepository,
	) error {
		entry, err := lockEntry(ctx, entryRepo, id)
		if err != nil {
			return err
		}
		to, err := accounting.CheckTransition(action, entry.Status)
		if err != nil {
			return err
		}

		from := entry.Status
		now := s.now()
		entry.Status = to
		entry.UpdatedAt = now
		if apply != nil {
			apply(entry, now)
		}
		ok, err := entryRepo.UpdateStatus(ctx, entry, from)
		if err != nil {
			return fmt.Errorf("actualizar estado: %w", err)
		}
		if !ok {
			return domain.NewConflictError("journal entry changed concurrently")
		}

		if entry.Lines, err = entryRepo.GetLines(ctx, entry.ID); err != nil {
			return fmt.Errorf("leer líneas: %w", err)
		}
		if entry.Period, err = periodRepo.GetByID(ctx, entry.PeriodID); err != nil {
			return fmt.Errorf("leer periodo: %w", err)
		}
		out = entry
		return nil
	})
	if err != nil {
		return nil, s.writeFailed(ctx, string(action), id, err)
	}
	s.log.Info().
		Str("entry_id", out.ID).
		Str("number", out.Number).
		Str("status", out.Status).
		Str("actor", actorID).
		Msgf("comprobante: %s", action)
	return out, nil
}

// Delete elimina un comprobante DRAFT junto con sus líneas.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	var number string
	err := s.txRunner.RunLedger(ctx, func(
		_ repository.PeriodRepository,
		entryRepo repository.JournalEntryRepository,
		_ repository.SequenceCounterRepository,
	) error {
		entry, err := lockEntry(ctx, entryRepo, id)
		if err != nil {
			return err
		}
		if _, err := accounting.CheckTransition(accounting.ActionDelete, entry.Status); err != nil {
			return err
		}
		if err := entryRepo.DeleteLines(ctx, entry.ID); err != nil {
			return fmt.Errorf("borrar líneas: %w", err)
		}
		ok, err := entryRepo.Delete(ctx, entry.ID, entity.EntryStatusDraft)
		if err != nil {
			return fmt.Errorf("borrar comprobante: %w", err)
		}
		if !ok {
			return domain.NewConflictError("journal entry changed concurrently")
		}
		number = entry.Number
		return nil
	})
	if err != nil {
		return s.writeFailed(ctx, "delete", id, err)
	}
	s.log.Info().Str("entry_id", id).Str("number", number).Str("actor", actorID).Msg("comprobante eliminado")
	return nil
}
