package billing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/inventario-produccion/internal/domain"
)

// InvoicePrefix prefijo de la numeración de facturas.
const InvoicePrefix = "INV-"

// parseInvoiceNumber devuelve el sufijo numérico de un número INV-NNN.
func parseInvoiceNumber(number string) (int, bool) {
	digits, ok := strings.CutPrefix(number, InvoicePrefix)
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || strings.ContainsAny(digits, "+-") {
		return 0, false
	}
	return n, true
}

// NextInvoiceNumber devuelve el número siguiente a last: "" -> INV-001, INV-009 -> INV-010,
// INV-999 -> INV-1000. Un número previo ilegible es un error: reiniciar chocaría con la
// restricción única o repetiría numeración.
func NextInvoiceNumber(last string) (string, error) {
	if last == "" {
		return fmt.Sprintf("%s%03d", InvoicePrefix, 1), nil
	}
	n, ok := parseInvoiceNumber(last)
	if !ok {
		return "", fmt.Errorf("último número de factura %q no reconocido: %w", last, domain.ErrConflict)
	}
	return fmt.Sprintf("%s%03d", InvoicePrefix, n+1), nil
}
