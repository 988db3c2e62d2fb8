package checkout

import (
	"context"
	"strings"
	"time"
	"unicode"

	paymentgateway "github.com/grocerlink/payment-service/internal/infrastructure/payment-gateway"
	"github.com/grocerlink/payment-service/pkg/errs"
	"github.com/rs/zerolog/log"
)

type CardDetails struct {
	Number     string
	ExpMonth   int64
	ExpYear    int64
	CVC        string
	HolderName string
}

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidateCard runs the client-side checks; the gateway re-validates
// everything on confirm.
func ValidateCard(card CardDetails, now time.Time) []FieldError {
	var fieldErrors []FieldError

	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, card.Number)

	numeric := len(digits) > 0
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if !numeric || len(digits) < 13 || len(digits) > 19 {
		fieldErrors = append(fieldErrors, FieldError{Field: "number", Reason: "card number must be 13-19 digits"})
	}

	if card.ExpMonth < 1 || card.ExpMonth > 12 {
		fieldErrors = append(fieldErrors, FieldError{Field: "expiry", Reason: "expiry month must be between 1 and 12"})
	} else {
		endOfMonth := time.Date(int(card.ExpYear), time.Month(card.ExpMonth)+1, 1, 0, 0, 0, 0, time.UTC)
		if !endOfMonth.After(now) {
			fieldErrors = append(fieldErrors, FieldError{Field: "expiry", Reason: "card has expired"})
		}
	}

	if len(card.CVC) < 3 || len(card.CVC) > 4 {
		fieldErrors = append(fieldErrors, FieldError{Field: "cvc", Reason: "security code must be 3 or 4 digits"})
	}

	if strings.TrimSpace(card.HolderName) == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "holder_name", Reason: "cardholder name is required"})
	}

	return fieldErrors
}

type CardPaymentResult struct {
	GatewayReference string
	Last4            string
	Brand            string
}

// CardPaymentFlow drives one card attempt: a fresh hold scoped to the exact
// total, then a confirm with the entered card. A failed attempt abandons its
// hold; retries always start a new one.
type CardPaymentFlow struct {
	gateway  paymentgateway.Gateway
	currency string
}

func CreateCardPaymentFlow(gateway paymentgateway.Gateway, currency string) *CardPaymentFlow {
	return &CardPaymentFlow{
		gateway:  gateway,
		currency: currency,
	}
}

func (f *CardPaymentFlow) Pay(ctx context.Context, total int64, card CardDetails, metadata map[string]string) (CardPaymentResult, error) {
	if fieldErrors := ValidateCard(card, time.Now()); len(fieldErrors) > 0 {
		return CardPaymentResult{}, fieldErrors[0]
	}

	hold, err := f.gateway.CreateHold(ctx, total, f.currency, metadata)
	if err != nil {
		return CardPaymentResult{}, err
	}

	confirm, err := f.gateway.ConfirmHold(ctx, hold.Reference, paymentgateway.Card{
		Number:     card.Number,
		ExpMonth:   card.ExpMonth,
		ExpYear:    card.ExpYear,
		CVC:        card.CVC,
		HolderName: card.HolderName,
	})
	if err != nil {
		return CardPaymentResult{}, err
	}

	if confirm.Status != paymentgateway.HoldStatusSucceeded {
		log.Error().Str("component", "Pay").Str("status", string(confirm.Status)).Msg("hold confirmation did not succeed")
		return CardPaymentResult{}, errs.ErrGatewayDeclined
	}

	return CardPaymentResult{
		GatewayReference: hold.Reference,
		Last4:            confirm.Last4,
		Brand:            confirm.Brand,
	}, nil
}
