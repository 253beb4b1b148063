package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un comprobante contable.
const (
	EntryStatusDraft    = "DRAFT"    // Recién creado; único estado editable y eliminable
	EntryStatusPending  = "PENDING"  // En revisión antes de aprobar
	EntryStatusApproved = "APPROVED" // Contabilizado
	EntryStatusVoid     = "VOID"     // Anulado; se conserva para auditoría
)

// Tipos de comprobante.
const (
	EntryTypeDiario   = "DIARIO"
	EntryTypeAjuste   = "AJUSTE"
	EntryTypeCierre   = "CIERRE"
	EntryTypeApertura = "APERTURA"
)

// JournalEntry representa la cabecera de un comprobante contable.
// TotalDebit y TotalCredit son la suma de sus líneas y solo cambian cuando se reescriben las líneas en DRAFT.
type JournalEntry struct {
	ID          string
	Number      string // <PREFIJO>-<AÑO>-<consecutivo de 5 dígitos>, ej. AC-2025-00001
	PeriodID    string
	Date        time.Time
	Type        string
	Description string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Status      string

	// Documento de origen (factura, nómina, etc.); se guarda tal cual para trazabilidad.
	OriginDocType string
	OriginDocID   string

	CreatedBy  string
	ApprovedBy string
	ApprovedAt *time.Time
	VoidedBy   string
	VoidedAt   *time.Time
	VoidReason string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Se llenan solo en lecturas.
	Lines  []*JournalLine
	Period *AccountingPeriod
}

// JournalLine representa una línea (débito y/o crédito) de un comprobante.
type JournalLine struct {
	ID          string
	EntryID     string
	AccountCode string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string

	ThirdPartyType string
	ThirdPartyID   string
	ThirdPartyName string
	CostCenterID   string

	LineOrder int
}
