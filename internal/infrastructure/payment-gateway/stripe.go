package paymentgateway

import (
	"context"
	"errors"

	"github.com/grocerlink/payment-service/config"
	"github.com/grocerlink/payment-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

type StripeGateway struct {
	api *client.API
	cb  *gobreaker.CircuitBreaker[any]
}

func CreateStripeGateway(config *config.Config, cb *gobreaker.CircuitBreaker[any]) Gateway {
	api := &client.API{}
	api.Init(config.StripeConfig.SecretKey, nil)

	return &StripeGateway{
		api: api,
		cb:  cb,
	}
}

func (g *StripeGateway) CreateHold(ctx context.Context, amount int64, currency string, metadata map[string]string) (hold Hold, err error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	result, err := g.cb.Execute(func() (any, error) {
		return g.api.PaymentIntents.New(params)
	})
	if err != nil {
		return hold, g.mapError("CreateHold", err)
	}

	intent := result.(*stripe.PaymentIntent)
	return holdFromIntent(intent), nil
}

func (g *StripeGateway) ConfirmHold(ctx context.Context, holdRef string, card Card) (confirm ConfirmResult, err error) {
	methodParams := &stripe.PaymentMethodParams{
		Params: stripe.Params{Context: ctx},
		Type:   stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(card.Number),
			ExpMonth: stripe.Int64(card.ExpMonth),
			ExpYear:  stripe.Int64(card.ExpYear),
			CVC:      stripe.String(card.CVC),
		},
		BillingDetails: &stripe.PaymentMethodBillingDetailsParams{
			Name: stripe.String(card.HolderName),
		},
	}

	result, err := g.cb.Execute(func() (any, error) {
		method, err := g.api.PaymentMethods.New(methodParams)
		if err != nil {
			return nil, err
		}

		intent, err := g.api.PaymentIntents.Confirm(holdRef, &stripe.PaymentIntentConfirmParams{
			Params:        stripe.Params{Context: ctx},
			PaymentMethod: stripe.String(method.ID),
		})
		if err != nil {
			return nil, err
		}

		return ConfirmResult{
			Status: mapIntentStatus(intent.Status),
			Last4:  method.Card.Last4,
			Brand:  string(method.Card.Brand),
		}, nil
	})
	if err != nil {
		return confirm, g.mapError("ConfirmHold", err)
	}

	return result.(ConfirmResult), nil
}

func (g *StripeGateway) RetrieveHold(ctx context.Context, holdRef string) (hold Hold, err error) {
	result, err := g.cb.Execute(func() (any, error) {
		return g.api.PaymentIntents.Get(holdRef, &stripe.PaymentIntentParams{
			Params: stripe.Params{Context: ctx},
		})
	})
	if err != nil {
		return hold, g.mapError("RetrieveHold", err)
	}

	return holdFromIntent(result.(*stripe.PaymentIntent)), nil
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, email string, name string) (customerRef string, err error) {
	result, err := g.cb.Execute(func() (any, error) {
		return g.api.Customers.New(&stripe.CustomerParams{
			Params: stripe.Params{Context: ctx},
			Email:  stripe.String(email),
			Name:   stripe.String(name),
		})
	})
	if err != nil {
		return "", g.mapError("CreateCustomer", err)
	}

	return result.(*stripe.Customer).ID, nil
}

func (g *StripeGateway) CreateSetupIntent(ctx context.Context, customerRef string) (setup SetupIntent, err error) {
	result, err := g.cb.Execute(func() (any, error) {
		return g.api.SetupIntents.New(&stripe.SetupIntentParams{
			Params:             stripe.Params{Context: ctx},
			Customer:           stripe.String(customerRef),
			PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		})
	})
	if err != nil {
		return setup, g.mapError("CreateSetupIntent", err)
	}

	intent := result.(*stripe.SetupIntent)
	return SetupIntent{
		Reference:    intent.ID,
		ClientSecret: intent.ClientSecret,
		CustomerRef:  customerRef,
	}, nil
}

func (g *StripeGateway) ConfirmSetupIntent(ctx context.Context, setupRef string, methodToken string) (instrument Instrument, err error) {
	result, err := g.cb.Execute(func() (any, error) {
		intent, err := g.api.SetupIntents.Confirm(setupRef, &stripe.SetupIntentConfirmParams{
			Params:        stripe.Params{Context: ctx},
			PaymentMethod: stripe.String(methodToken),
		})
		if err != nil {
			return nil, err
		}

		method, err := g.api.PaymentMethods.Get(methodToken, &stripe.PaymentMethodParams{
			Params: stripe.Params{Context: ctx},
		})
		if err != nil {
			return nil, err
		}

		customerRef := ""
		if intent.Customer != nil {
			customerRef = intent.Customer.ID
		}

		return Instrument{
			Token:       method.ID,
			CustomerRef: customerRef,
			Brand:       string(method.Card.Brand),
			Last4:       method.Card.Last4,
			ExpiryMonth: method.Card.ExpMonth,
			ExpiryYear:  method.Card.ExpYear,
		}, nil
	})
	if err != nil {
		return instrument, g.mapError("ConfirmSetupIntent", err)
	}

	return result.(Instrument), nil
}

func (g *StripeGateway) DetachToken(ctx context.Context, token string) error {
	_, err := g.cb.Execute(func() (any, error) {
		return g.api.PaymentMethods.Detach(token, &stripe.PaymentMethodDetachParams{
			Params: stripe.Params{Context: ctx},
		})
	})
	if err != nil {
		return g.mapError("DetachToken", err)
	}

	return nil
}

func (g *StripeGateway) mapError(component string, err error) error {
	log.Error().Err(err).Str("component", component).Msg("")

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
		return errs.ErrGatewayDeclined
	}

	return errs.ErrGatewayUnavailable
}

func holdFromIntent(intent *stripe.PaymentIntent) Hold {
	return Hold{
		Reference:    intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       mapIntentStatus(intent.Status),
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
	}
}

func mapIntentStatus(status stripe.PaymentIntentStatus) HoldStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return HoldStatusSucceeded
	case stripe.PaymentIntentStatusRequiresConfirmation, stripe.PaymentIntentStatusRequiresPaymentMethod, stripe.PaymentIntentStatusRequiresAction:
		return HoldStatusRequiresConfirmation
	case stripe.PaymentIntentStatusProcessing:
		return HoldStatusProcessing
	case stripe.PaymentIntentStatusCanceled:
		return HoldStatusCanceled
	default:
		return HoldStatusFailed
	}
}
