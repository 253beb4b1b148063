package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/hospital-contable/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Valores por defecto de Config.
const (
	DefaultPrefix       = "AC"
	DefaultMaxAttempts  = 3
	DefaultWriteTimeout = 10 * time.Second
)

// Config parámetros del núcleo contable.
type Config struct {
	Prefix       string        // prefijo de numeración (LEDGER_ENTRY_PREFIX)
	MaxAttempts  int           // intentos de creación ante choque de número
	WriteTimeout time.Duration // límite de cada escritura; 0 deshabilita
}

// EntryInput datos de creación o edición de un comprobante.
type EntryInput struct {
	Date          time.Time // cero: fecha actual
	Type          string
	Description   string
	OriginDocType string
	OriginDocID   string
	Lines         []LineInput
}

// LineInput línea de un comprobante en el orden enviado.
type LineInput struct {
	AccountCode    string
	AccountName    string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	Description    string
	ThirdPartyType string
	ThirdPartyID   string
	ThirdPartyName string
	CostCenterID   string
}

// Service casos de uso del libro diario: creación, edición, ciclo de vida y consultas.
type Service struct {
	txRunner LedgerTxRunner
	periods  repository.PeriodRepository
	entries  repository.JournalEntryRepository
	sequence SequenceGenerator
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewService construye el servicio. periods y entries se usan para lecturas fuera de transacción.
func NewService(
	txRunner LedgerTxRunner,
	periods repository.PeriodRepository,
	entries repository.JournalEntryRepository,
	sequence SequenceGenerator,
	cfg Config,
	log zerolog.Logger,
) *Service {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if sequence == nil {
		sequence = LookupSequence{}
	}
	return &Service{
		txRunner: txRunner,
		periods:  periods,
		entries:  entries,
		sequence: sequence,
		cfg:      cfg,
		log:      log.With().Str("component", "ledger").Logger(),
		now:      time.Now,
	}
}

// WithNow reemplaza el reloj (tests).
func (s *Service) WithNow(now func() time.Time) {
	s.now = now
}

func (s *Service) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.WriteTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.WriteTimeout)
}

// isContextErr indica que la escritura se cortó por cancelación o vencimiento. En ese caso
// el commit pudo o no haberse aplicado: el llamador debe consultar por id.
func isContextErr(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil
}

// writeFailed registra el error de una escritura y lo devuelve sin modificar.
func (s *Service) writeFailed(ctx context.Context, op, entryID string, err error) error {
	if isContextErr(ctx, err) {
		s.log.Warn().Err(err).Str("op", op).Str("entry_id", entryID).
			Msg("escritura interrumpida: resultado desconocido")
	}
	return err
}
