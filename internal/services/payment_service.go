// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"

	"github.com/velora-shop/velora-backend/internal/config"
)

// ChargeRecord is what a successful authorization leaves behind on the order.
type ChargeRecord struct {
	PaymentID string
	CardBrand string
	CardLast4 string
	Status    string
}

// PaymentError carries the processor's decline details so handlers can
// surface them without parsing error strings.
type PaymentError struct {
	Code        string
	Message     string
	DeclineCode string
}

func (e *PaymentError) Error() string {
	if e.DeclineCode != "" {
		return fmt.Sprintf("payment failed (%s/%s): %s", e.Code, e.DeclineCode, e.Message)
	}
	return fmt.Sprintf("payment failed (%s): %s", e.Code, e.Message)
}

// PaymentProcessor abstracts the card processor so order flows can be tested
// without network calls.
type PaymentProcessor interface {
	Authorize(amountCents int64, currency, methodToken string) (*ChargeRecord, error)
	Refund(paymentID string) error
}

// PaymentService is the Stripe-backed PaymentProcessor.
type PaymentService struct {
	config *config.Config
}

func NewPaymentService(config *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{config: config}
}

// Authorize creates and confirms a PaymentIntent in one call. On decline the
// returned error is a *PaymentError.
func (s *PaymentService) Authorize(amountCents int64, currency, methodToken string) (*ChargeRecord, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(currency),
		PaymentMethod: stripe.String(methodToken),
		Confirm:       stripe.Bool(true),
		// Redirect-based methods are not supported for storefront card
		// payments; a ReturnURL is still required by the API shape.
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.AddExpand("payment_method")

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, asPaymentError(err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, &PaymentError{
			Code:    string(pi.Status),
			Message: "payment was not completed",
		}
	}

	record := &ChargeRecord{
		PaymentID: pi.ID,
		Status:    string(pi.Status),
	}

	if pi.PaymentMethod != nil && pi.PaymentMethod.Card != nil {
		record.CardBrand = string(pi.PaymentMethod.Card.Brand)
		record.CardLast4 = pi.PaymentMethod.Card.Last4
	}

	return record, nil
}

// Refund reverses the full charge behind paymentID.
func (s *PaymentService) Refund(paymentID string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentID),
		Reason:        stripe.String("requested_by_customer"),
	}

	if _, err := refund.New(params); err != nil {
		return asPaymentError(err)
	}

	return nil
}

// asPaymentError maps Stripe errors to *PaymentError, keeping the decline
// code when the card issuer supplied one.
func asPaymentError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		pe := &PaymentError{
			Code:    string(stripeErr.Code),
			Message: stripeErr.Msg,
		}
		if pe.Code == "" {
			pe.Code = string(stripeErr.Type)
		}
		if stripeErr.DeclineCode != "" {
			pe.DeclineCode = string(stripeErr.DeclineCode)
		}
		return pe
	}

	return fmt.Errorf("payment processor error: %w", err)
}

// toMinorUnits converts a decimal amount to the processor's integer minor
// units, rounding to the nearest cent.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
