package checkout

import (
	"context"
	"testing"
	"time"

	paymentgateway "github.com/grocerlink/payment-service/internal/infrastructure/payment-gateway"
	"github.com/grocerlink/payment-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	createHold         func(amount int64) (paymentgateway.Hold, error)
	confirmHold        func(holdRef string, card paymentgateway.Card) (paymentgateway.ConfirmResult, error)
	retrieveHold       func(holdRef string) (paymentgateway.Hold, error)
	createCustomer     func(email, name string) (string, error)
	createSetupIntent  func(customerRef string) (paymentgateway.SetupIntent, error)
	confirmSetupIntent func(setupRef, methodToken string) (paymentgateway.Instrument, error)
	detachToken        func(token string) error
}

func (g *stubGateway) CreateHold(_ context.Context, amount int64, _ string, _ map[string]string) (paymentgateway.Hold, error) {
	return g.createHold(amount)
}

func (g *stubGateway) ConfirmHold(_ context.Context, holdRef string, card paymentgateway.Card) (paymentgateway.ConfirmResult, error) {
	return g.confirmHold(holdRef, card)
}

func (g *stubGateway) RetrieveHold(_ context.Context, holdRef string) (paymentgateway.Hold, error) {
	return g.retrieveHold(holdRef)
}

func (g *stubGateway) CreateCustomer(_ context.Context, email, name string) (string, error) {
	return g.createCustomer(email, name)
}

func (g *stubGateway) CreateSetupIntent(_ context.Context, customerRef string) (paymentgateway.SetupIntent, error) {
	return g.createSetupIntent(customerRef)
}

func (g *stubGateway) ConfirmSetupIntent(_ context.Context, setupRef, methodToken string) (paymentgateway.Instrument, error) {
	return g.confirmSetupIntent(setupRef, methodToken)
}

func (g *stubGateway) DetachToken(_ context.Context, token string) error {
	return g.detachToken(token)
}

func validCard() CardDetails {
	return CardDetails{
		Number:     "4242424242424242",
		ExpMonth:   12,
		ExpYear:    2039,
		CVC:        "123",
		HolderName: "Ada Lovelace",
	}
}

func TestValidateCard(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		mutate  func(c *CardDetails)
		wantErr string
	}{
		{name: "valid card", mutate: func(c *CardDetails) {}},
		{name: "valid with spaces", mutate: func(c *CardDetails) { c.Number = "4242 4242 4242 4242" }},
		{name: "too short", mutate: func(c *CardDetails) { c.Number = "424242424242" }, wantErr: "number"},
		{name: "too long", mutate: func(c *CardDetails) { c.Number = "42424242424242424242" }, wantErr: "number"},
		{name: "non numeric", mutate: func(c *CardDetails) { c.Number = "4242abcd42424242" }, wantErr: "number"},
		{name: "month out of range", mutate: func(c *CardDetails) { c.ExpMonth = 13 }, wantErr: "expiry"},
		{name: "expired card", mutate: func(c *CardDetails) { c.ExpMonth = 5; c.ExpYear = 2026 }, wantErr: "expiry"},
		{name: "expiring this month is still valid", mutate: func(c *CardDetails) { c.ExpMonth = 6; c.ExpYear = 2026 }},
		{name: "cvc too short", mutate: func(c *CardDetails) { c.CVC = "12" }, wantErr: "cvc"},
		{name: "cvc too long", mutate: func(c *CardDetails) { c.CVC = "12345" }, wantErr: "cvc"},
		{name: "blank holder name", mutate: func(c *CardDetails) { c.HolderName = "   " }, wantErr: "holder_name"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			card := validCard()
			tc.mutate(&card)

			fieldErrors := ValidateCard(card, now)
			if tc.wantErr == "" {
				assert.Empty(t, fieldErrors)
				return
			}

			require.NotEmpty(t, fieldErrors)
			assert.Equal(t, tc.wantErr, fieldErrors[0].Field)
		})
	}
}

func TestCardPaymentFlow_Pay(t *testing.T) {
	t.Run("successful hold and confirm", func(t *testing.T) {
		var heldAmount int64
		gateway := &stubGateway{
			createHold: func(amount int64) (paymentgateway.Hold, error) {
				heldAmount = amount
				return paymentgateway.Hold{Reference: "pi_123", Status: paymentgateway.HoldStatusRequiresConfirmation, Amount: amount}, nil
			},
			confirmHold: func(holdRef string, card paymentgateway.Card) (paymentgateway.ConfirmResult, error) {
				assert.Equal(t, "pi_123", holdRef)
				return paymentgateway.ConfirmResult{Status: paymentgateway.HoldStatusSucceeded, Last4: "4242", Brand: "visa"}, nil
			},
		}

		flow := CreateCardPaymentFlow(gateway, "cad")
		result, err := flow.Pay(context.Background(), 5150, validCard(), map[string]string{"order_draft": "draft-1"})

		require.NoError(t, err)
		assert.Equal(t, int64(5150), heldAmount)
		assert.Equal(t, "pi_123", result.GatewayReference)
		assert.Equal(t, "4242", result.Last4)
		assert.Equal(t, "visa", result.Brand)
	})

	t.Run("validation failure makes no gateway call", func(t *testing.T) {
		gateway := &stubGateway{
			createHold: func(amount int64) (paymentgateway.Hold, error) {
				t.Fatal("gateway should not be called for an invalid card")
				return paymentgateway.Hold{}, nil
			},
		}

		flow := CreateCardPaymentFlow(gateway, "cad")
		card := validCard()
		card.CVC = "1"

		_, err := flow.Pay(context.Background(), 5150, card, nil)
		var fieldErr FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "cvc", fieldErr.Field)
	})

	t.Run("decline surfaces gateway error", func(t *testing.T) {
		gateway := &stubGateway{
			createHold: func(amount int64) (paymentgateway.Hold, error) {
				return paymentgateway.Hold{Reference: "pi_456", Status: paymentgateway.HoldStatusRequiresConfirmation}, nil
			},
			confirmHold: func(holdRef string, card paymentgateway.Card) (paymentgateway.ConfirmResult, error) {
				return paymentgateway.ConfirmResult{}, errs.ErrGatewayDeclined
			},
		}

		flow := CreateCardPaymentFlow(gateway, "cad")
		_, err := flow.Pay(context.Background(), 5150, validCard(), nil)
		assert.ErrorIs(t, err, errs.ErrGatewayDeclined)
	})

	t.Run("non-succeeded confirmation is a decline", func(t *testing.T) {
		gateway := &stubGateway{
			createHold: func(amount int64) (paymentgateway.Hold, error) {
				return paymentgateway.Hold{Reference: "pi_789", Status: paymentgateway.HoldStatusRequiresConfirmation}, nil
			},
			confirmHold: func(holdRef string, card paymentgateway.Card) (paymentgateway.ConfirmResult, error) {
				return paymentgateway.ConfirmResult{Status: paymentgateway.HoldStatusProcessing}, nil
			},
		}

		flow := CreateCardPaymentFlow(gateway, "cad")
		_, err := flow.Pay(context.Background(), 5150, validCard(), nil)
		assert.ErrorIs(t, err, errs.ErrGatewayDeclined)
	})

	t.Run("each attempt creates a fresh hold", func(t *testing.T) {
		var holds int
		gateway := &stubGateway{
			createHold: func(amount int64) (paymentgateway.Hold, error) {
				holds++
				return paymentgateway.Hold{Reference: "pi_attempt", Status: paymentgateway.HoldStatusRequiresConfirmation}, nil
			},
			confirmHold: func(holdRef string, card paymentgateway.Card) (paymentgateway.ConfirmResult, error) {
				if holds == 1 {
					return paymentgateway.ConfirmResult{}, errs.ErrGatewayDeclined
				}
				return paymentgateway.ConfirmResult{Status: paymentgateway.HoldStatusSucceeded, Last4: "4242", Brand: "visa"}, nil
			},
		}

		flow := CreateCardPaymentFlow(gateway, "cad")
		_, err := flow.Pay(context.Background(), 5150, validCard(), nil)
		require.Error(t, err)

		_, err = flow.Pay(context.Background(), 5150, validCard(), nil)
		require.NoError(t, err)
		assert.Equal(t, 2, holds)
	})
}
