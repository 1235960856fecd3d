// Package payments provides the payment gateway client. The current client is a simulator: it fabricates the
// reference numbers a real gateway would return so that the purchase flow can record complete transactions.
package payments

import (
	"math/rand"
	"strings"
)

const (
	uppercaseAndDigits = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceLength    = 10
)

var paymentMethods = []string{"CARD", "PAYPAL", "STRIPE"}

// Result holds the fields returned by the gateway for a single payment.
type Result struct {
	TransactionNo string
	ReceiptNo     string
	PaymentRef    string
	PaymentMethod string
	Status        string
	Description   string
}

// Client makes payments against the gateway.
type Client interface {
	MakePayment(amount float64, description string) (*Result, error)
}

// SimulatedClient is a stand-in for a real gateway integration. Payments always succeed with status "completed".
type SimulatedClient struct{}

// NewSimulatedClient returns a payment client that fabricates gateway references.
func NewSimulatedClient() *SimulatedClient {
	return &SimulatedClient{}
}

// reference generates a random uppercase alphanumeric reference string.
func reference() string {
	var b strings.Builder
	for i := 0; i < referenceLength; i++ {
		b.WriteByte(uppercaseAndDigits[rand.Intn(len(uppercaseAndDigits))])
	}
	return b.String()
}

// MakePayment simulates a synchronous call to the payment gateway.
func (c *SimulatedClient) MakePayment(amount float64, description string) (*Result, error) {
	return &Result{
		TransactionNo: reference(),
		ReceiptNo:     reference(),
		PaymentRef:    reference(),
		PaymentMethod: paymentMethods[rand.Intn(len(paymentMethods))],
		Status:        "completed",
		Description:   description,
	}, nil
}
