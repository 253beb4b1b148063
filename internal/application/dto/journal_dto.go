package dto

import (
	"time"

	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DateLayout formato de fechas de comprobantes en la API.
const DateLayout = "2006-01-02"

// CreateJournalEntryRequest body para POST /api/accounting/journal-entries y PUT /:id.
// Type vacío equivale a DIARIO. Las reglas contables (cuadre, mínimo de líneas) las valida el núcleo.
type CreateJournalEntryRequest struct {
	Date          string               `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Type          string               `json:"type" validate:"max=20"`
	Description   string               `json:"description" validate:"max=500"`
	OriginDocType string               `json:"origin_doc_type,omitempty" validate:"max=50"`
	OriginDocID   string               `json:"origin_doc_id,omitempty" validate:"max=100"`
	Lines         []JournalLineRequest `json:"lines" validate:"dive"`
}

// JournalLineRequest línea del comprobante en el orden en que se envía.
type JournalLineRequest struct {
	AccountCode    string          `json:"account_code" validate:"max=20"`
	AccountName    string          `json:"account_name,omitempty" validate:"max=200"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Description    string          `json:"description,omitempty" validate:"max=500"`
	ThirdPartyType string          `json:"third_party_type,omitempty" validate:"max=50"`
	ThirdPartyID   string          `json:"third_party_id,omitempty" validate:"max=100"`
	ThirdPartyName string          `json:"third_party_name,omitempty" validate:"max=200"`
	CostCenterID   string          `json:"cost_center_id,omitempty" validate:"max=100"`
}

// VoidJournalEntryRequest body para POST /:id/void.
type VoidJournalEntryRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ListJournalEntriesQuery query string de GET /api/accounting/journal-entries.
// Page y Limit se normalizan con PageRequest.
type ListJournalEntriesQuery struct {
	Page     int    `query:"page" validate:"omitempty,min=0"`
	Limit    int    `query:"limit" validate:"omitempty,min=0"`
	PeriodID string `query:"period_id"`
	Type     string `query:"type" validate:"omitempty,oneof=DIARIO AJUSTE CIERRE APERTURA"`
	Status   string `query:"status" validate:"omitempty,oneof=DRAFT PENDING APPROVED VOID"`
	DateFrom string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Search   string `query:"search" validate:"max=100"`
}

// JournalEntryResponse comprobante con sus líneas y periodo.
type JournalEntryResponse struct {
	ID            string                   `json:"id"`
	Number        string                   `json:"number"`
	PeriodID      string                   `json:"period_id"`
	Date          string                   `json:"date"`
	Type          string                   `json:"type"`
	Description   string                   `json:"description"`
	TotalDebit    decimal.Decimal          `json:"total_debit"`
	TotalCredit   decimal.Decimal          `json:"total_credit"`
	Status        string                   `json:"status"`
	OriginDocType string                   `json:"origin_doc_type,omitempty"`
	OriginDocID   string                   `json:"origin_doc_id,omitempty"`
	CreatedBy     string                   `json:"created_by"`
	ApprovedBy    string                   `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time               `json:"approved_at,omitempty"`
	VoidedBy      string                   `json:"voided_by,omitempty"`
	VoidedAt      *time.Time               `json:"voided_at,omitempty"`
	VoidReason    string                   `json:"void_reason,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	Period        *entity.AccountingPeriod `json:"period,omitempty"`
	Lines         []JournalLineResponse    `json:"lines"`
}

// JournalLineResponse línea en la respuesta.
type JournalLineResponse struct {
	ID             string          `json:"id"`
	LineOrder      int             `json:"line_order"`
	AccountCode    string          `json:"account_code"`
	AccountName    string          `json:"account_name,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Description    string          `json:"description,omitempty"`
	ThirdPartyType string          `json:"third_party_type,omitempty"`
	ThirdPartyID   string          `json:"third_party_id,omitempty"`
	ThirdPartyName string          `json:"third_party_name,omitempty"`
	CostCenterID   string          `json:"cost_center_id,omitempty"`
}

// JournalEntryListResponse página de comprobantes.
type JournalEntryListResponse struct {
	Items []JournalEntryResponse `json:"items"`
	PageResponse
}

// ToJournalEntryResponse mapea la entidad a la respuesta JSON.
func ToJournalEntryResponse(e *entity.JournalEntry) JournalEntryResponse {
	out := JournalEntryResponse{
		ID:            e.ID,
		Number:        e.Number,
		PeriodID:      e.PeriodID,
		Date:          e.Date.Format(DateLayout),
		Type:          e.Type,
		Description:   e.Description,
		TotalDebit:    e.TotalDebit,
		TotalCredit:   e.TotalCredit,
		Status:        e.Status,
		OriginDocType: e.OriginDocType,
		OriginDocID:   e.OriginDocID,
		CreatedBy:     e.CreatedBy,
		ApprovedBy:    e.ApprovedBy,
		ApprovedAt:    e.ApprovedAt,
		VoidedBy:      e.VoidedBy,
		VoidedAt:      e.VoidedAt,
		VoidReason:    e.VoidReason,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		Period:        e.Period,
		Lines:         make([]JournalLineResponse, 0, len(e.Lines)),
	}
	for _, l := range e.Lines {
		out.Lines = append(out.Lines, JournalLineResponse{
			ID:             l.ID,
			LineOrder:      l.LineOrder,
			AccountCode:    l.AccountCode,
			AccountName:    l.AccountName,
			Debit:          l.Debit,
			Credit:         l.Credit,
			Description:    l.Description,
			ThirdPartyType: l.ThirdPartyType,
			ThirdPartyID:   l.ThirdPartyID,
			ThirdPartyName: l.ThirdPartyName,
			CostCenterID:   l.CostCenterID,
		})
	}
	return out
}
