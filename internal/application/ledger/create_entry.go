package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/hospital-contable/internal/domain"
	"github.com/jhoicas/hospital-contable/internal/domain/accounting"
	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/jhoicas/hospital-contable/internal/domain/repository"
)

// CreateEntry valida el comprobante, toma el periodo abierto, asigna número y guarda
// cabecera y líneas (estado DRAFT) en una sola transacción. Si el número choca con
// otro comprobante se reintenta hasta cfg.MaxAttempts veces.
func (s *Service) CreateEntry(ctx context.Context, actorID string, in EntryInput) (*entity.JournalEntry, error) {
	totals, err := accounting.Validate(in.Type, toLines(in.Lines))
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		entry, err := s.createOnce(ctx, actorID, in, totals)
		if err == nil {
			s.log.Info().
				Str("entry_id", entry.ID).
				Str("number", entry.Number).
				Str("actor", actorID).
				Int("attempt", attempt).
				Msg("comprobante creado")
			return entry, nil
		}
		if errors.Is(err, domain.ErrDuplicateNumber) && ctx.Err() == nil {
			s.log.Warn().Int("attempt", attempt).Msg("número de comprobante en uso, reintentando")
			continue
		}
		return nil, s.writeFailed(ctx, "create", "", err)
	}
	return nil, domain.NewConflictError("entry number conflict: retries exhausted")
}

func (s *Service) createOnce(ctx context.Context, actorID string, in EntryInput, totals accounting.Totals) (*entity.JournalEntry, error) {
	var created *entity.JournalEntry
	err := s.txRunner.RunLedger(ctx, func(
		periodRepo repository.PeriodRepository,
		entryRepo repository.JournalEntryRepository,
		counterRepo repository.SequenceCounterRepository,
	) error {
		period, err := periodRepo.GetOpen(ctx)
		if err != nil {
			return fmt.Errorf("periodo abierto: %w", err)
		}
		if period == nil {
			return domain.NewValidationError("no open period")
		}

		number, err := s.sequence.Next(ctx, entryRepo, counterRepo, s.cfg.Prefix, period.Year)
		if err != nil {
			return err
		}

		now := s.now()
		entry := &entity.JournalEntry{
			ID:            uuid.New().String(),
			Number:        number,
			PeriodID:      period.ID,
			Date:          entryDate(in.Date, now),
			Type:          totals.Type,
			Description:   in.Description,
			TotalDebit:    totals.Debit,
			TotalCredit:   totals.Credit,
			Status:        entity.EntryStatusDraft,
			OriginDocType: in.OriginDocType,
			OriginDocID:   in.OriginDocID,
			CreatedBy:     actorID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		lines := newLines(entry.ID, in.Lines)

		if err := entryRepo.Create(ctx, entry); err != nil {
			return err
		}
		if err := entryRepo.CreateLines(ctx, lines); err != nil {
			return fmt.Errorf("guardar líneas: %w", err)
		}
		entry.Lines = lines
		entry.Period = period
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// toLines convierte la entrada en líneas sin identificadores, con montos redondeados
// a accounting.AmountScale decimales.
func toLines(in []LineInput) []*entity.JournalLine {
	lines := make([]*entity.JournalLine, 0, len(in))
	for i, l := range in {
		lines = append(lines, &entity.JournalLine{
			AccountCode:    l.AccountCode,
			AccountName:    l.AccountName,
			Debit:          l.Debit.Round(accounting.AmountScale),
			Credit:         l.Credit.Round(accounting.AmountScale),
			Description:    l.Description,
			ThirdPartyType: l.ThirdPartyType,
			ThirdPartyID:   l.ThirdPartyID,
			ThirdPartyName: l.ThirdPartyName,
			CostCenterID:   l.CostCenterID,
			LineOrder:      i,
		})
	}
	return lines
}

// newLines arma las líneas a persistir con LineOrder 0..n-1 en el orden recibido.
func newLines(entryID string, in []LineInput) []*entity.JournalLine {
	lines := toLines(in)
	for _, l := range lines {
		l.ID = uuid.New().String()
		l.EntryID = entryID
	}
	return lines
}

func entryDate(date, now time.Time) time.Time {
	if date.IsZero() {
		date = now
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
