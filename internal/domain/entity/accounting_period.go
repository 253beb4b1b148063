package entity

import "time"

// Estados de un periodo contable.
const (
	PeriodStatusOpen   = "OPEN"
	PeriodStatusClosed = "CLOSED"
)

// AccountingPeriod representa un periodo contable. Lo crea y lo cierra el módulo
// de gestión de periodos; el núcleo contable solo lo lee.
type AccountingPeriod struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Year      int       `json:"year"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOpen indica si el periodo admite nuevos comprobantes.
func (p *AccountingPeriod) IsOpen() bool {
	return p != nil && p.Status == PeriodStatusOpen
}
