package accounting

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumber arma el número de comprobante <PREFIX>-<YEAR>-<seq 5 dígitos>.
// Pasado 99999 el consecutivo crece en dígitos.
func FormatNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}

// NumberPrefix devuelve el espacio de numeración "<PREFIX>-<YEAR>-".
func NumberPrefix(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-", prefix, year)
}

// ParseSequence extrae el consecutivo de number dentro del espacio (prefix, year).
func ParseSequence(number, prefix string, year int) (int64, error) {
	ns := NumberPrefix(prefix, year)
	if !strings.HasPrefix(number, ns) {
		return 0, fmt.Errorf("número %q fuera del espacio %q", number, ns)
	}
	seq, err := strconv.ParseInt(strings.TrimPrefix(number, ns), 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("consecutivo inválido en %q", number)
	}
	return seq, nil
}

// NextSequence devuelve el consecutivo siguiente al último número persistido ("" = ninguno).
func NextSequence(last, prefix string, year int) (int64, error) {
	if last == "" {
		return 1, nil
	}
	seq, err := ParseSequence(last, prefix, year)
	if err != nil {
		return 0, err
	}
	return seq + 1, nil
}
