package accounting

import (
	"strings"

	"github.com/jhoicas/hospital-contable/internal/domain"
	"github.com/jhoicas/hospital-contable/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	// MinLines cantidad mínima de líneas de un comprobante.
	MinLines = 2
	// AmountScale decimales con que se guardan los montos (NUMERIC(18,2)).
	AmountScale = 2
)

// Tolerance diferencia máxima admitida entre Σdébito y Σcrédito (un centavo).
var Tolerance = decimal.New(1, -2)

// Totals resultado de validar un comprobante: tipo normalizado y sumas de las líneas.
type Totals struct {
	Type   string
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// ValidEntryTypes catálogo de tipos de comprobante.
var ValidEntryTypes = map[string]bool{
	entity.EntryTypeDiario:   true,
	entity.EntryTypeAjuste:   true,
	entity.EntryTypeCierre:   true,
	entity.EntryTypeApertura: true,
}

// NormalizeType devuelve el tipo en mayúsculas; vacío equivale a DIARIO.
func NormalizeType(entryType string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(entryType))
	if t == "" {
		return entity.EntryTypeDiario, nil
	}
	if !ValidEntryTypes[t] {
		return "", domain.NewValidationError("invalid entry type")
	}
	return t, nil
}

// SumLines suma débitos y créditos.
func SumLines(lines []*entity.JournalLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// IsBalanced indica si |debit - credit| <= Tolerance.
func IsBalanced(debit, credit decimal.Decimal) bool {
	return debit.Sub(credit).Abs().LessThanOrEqual(Tolerance)
}

// Validate aplica las reglas de un comprobante en orden: cantidad de líneas, tipo,
// montos no negativos, cuadre y cuenta de cada línea. Las líneas se numeran desde 1
// en los mensajes.
func Validate(entryType string, lines []*entity.JournalLine) (Totals, error) {
	if len(lines) < MinLines {
		return Totals{}, domain.NewValidationError("insufficient lines")
	}
	t, err := NormalizeType(entryType)
	if err != nil {
		return Totals{}, err
	}
	for i, l := range lines {
		if l == nil {
			return Totals{}, domain.NewValidationError("line %d: account code required", i+1)
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return Totals{}, domain.NewValidationError("line %d: negative amount", i+1)
		}
	}
	debit, credit := SumLines(lines)
	if !IsBalanced(debit, credit) {
		return Totals{}, domain.NewValidationError("unbalanced entry: debit=%s credit=%s", debit.String(), credit.String())
	}
	for i, l := range lines {
		if strings.TrimSpace(l.AccountCode) == "" {
			return Totals{}, domain.NewValidationError("line %d: account code required", i+1)
		}
	}
	return Totals{Type: t, Debit: debit, Credit: credit}, nil
}
