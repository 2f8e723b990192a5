package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/application/billing"
	"github.com/jhoicas/inventario-produccion/internal/domain"
)

func TestNextInvoiceNumber(t *testing.T) {
	cases := map[string]string{
		"":         "INV-001",
		"INV-001":  "INV-002",
		"INV-009":  "INV-010",
		"INV-099":  "INV-100",
		"INV-999":  "INV-1000",
		"INV-0000": "INV-001",
	}
	for last, want := range cases {
		got, err := billing.NextInvoiceNumber(last)
		require.NoError(t, err, "último %q", last)
		assert.Equal(t, want, got, "último %q", last)
	}
}

func TestNextInvoiceNumber_IlegibleEsError(t *testing.T) {
	for _, last := range []string{"basura", "INV-", "INV-12a", "FAC-010", "INV--3"} {
		_, err := billing.NextInvoiceNumber(last)
		assert.ErrorIs(t, err, domain.ErrConflict, "último %q no debe reiniciar la numeración", last)
	}
}
