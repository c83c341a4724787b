package finance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvoiceNumber(t *testing.T) {
	require.Equal(t, "INV-1001", InvoiceNumber(0))
	require.Equal(t, "INV-1002", InvoiceNumber(1))
	require.Equal(t, "INV-1043", InvoiceNumber(42))
}
