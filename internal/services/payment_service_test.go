// internal/services/payment_service_test.go
package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v74"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount float64
		cents  int64
	}{
		{0, 0},
		{5.99, 599},
		{75.00, 7500},
		{19.999, 2000},
		{0.01, 1},
		// 0.1+0.2 style float residue must not drop a cent
		{29.9, 2990},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.cents, toMinorUnits(tt.amount), "amount %v", tt.amount)
	}
}

func TestPaymentErrorMessage(t *testing.T) {
	err := &PaymentError{Code: "card_declined", Message: "Your card was declined.", DeclineCode: "insufficient_funds"}
	assert.Equal(t, "payment failed (card_declined/insufficient_funds): Your card was declined.", err.Error())

	err = &PaymentError{Code: "expired_card", Message: "Your card has expired."}
	assert.Equal(t, "payment failed (expired_card): Your card has expired.", err.Error())
}

func TestAsPaymentErrorStripeDecline(t *testing.T) {
	stripeErr := &stripe.Error{
		Code:        stripe.ErrorCodeCardDeclined,
		Msg:         "Your card was declined.",
		DeclineCode: stripe.DeclineCodeInsufficientFunds,
	}

	err := asPaymentError(stripeErr)

	var pe *PaymentError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "card_declined", pe.Code)
	assert.Equal(t, "insufficient_funds", pe.DeclineCode)
	assert.Equal(t, "Your card was declined.", pe.Message)
}

func TestAsPaymentErrorFallsBackToType(t *testing.T) {
	stripeErr := &stripe.Error{
		Type: stripe.ErrorTypeAPI,
		Msg:  "Something went wrong on Stripe's end.",
	}

	err := asPaymentError(stripeErr)

	var pe *PaymentError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, string(stripe.ErrorTypeAPI), pe.Code)
	assert.Empty(t, pe.DeclineCode)
}

func TestAsPaymentErrorNonStripe(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := asPaymentError(cause)

	var pe *PaymentError
	assert.False(t, errors.As(err, &pe))
	assert.ErrorContains(t, err, "payment processor error")
	assert.ErrorContains(t, err, "connection refused")
}
