package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakePayment(t *testing.T) {
	client := NewSimulatedClient()

	result, err := client.MakePayment(200, "Payment for subscription")
	require.NoError(t, err)
	require.NotNil(t, result)

	// Simulated payments always complete.
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, "Payment for subscription", result.Description)
	assert.Contains(t, paymentMethods, result.PaymentMethod)

	assert.Regexp(t, `^[A-Z0-9]{10}$`, result.TransactionNo)
	assert.Regexp(t, `^[A-Z0-9]{10}$`, result.ReceiptNo)
	assert.Regexp(t, `^[A-Z0-9]{10}$`, result.PaymentRef)
}

func TestReferencesDiffer(t *testing.T) {
	client := NewSimulatedClient()

	first, err := client.MakePayment(100, "Account deposit")
	require.NoError(t, err)
	second, err := client.MakePayment(100, "Account deposit")
	require.NoError(t, err)

	assert.NotEqual(t, first.TransactionNo, second.TransactionNo)
}
