package paymentgateway

import "context"

type HoldStatus string

const (
	HoldStatusSucceeded            HoldStatus = "succeeded"
	HoldStatusRequiresConfirmation HoldStatus = "requires_confirmation"
	HoldStatusProcessing           HoldStatus = "processing"
	HoldStatusCanceled             HoldStatus = "canceled"
	HoldStatusFailed               HoldStatus = "failed"
)

// Hold is a reservation of funds against a card. It lives in the gateway;
// this service only ever holds its reference.
type Hold struct {
	Reference    string
	ClientSecret string
	Status       HoldStatus
	Amount       int64
	Currency     string
}

type Card struct {
	Number     string
	ExpMonth   int64
	ExpYear    int64
	CVC        string
	HolderName string
}

type ConfirmResult struct {
	Status HoldStatus
	Last4  string
	Brand  string
}

type SetupIntent struct {
	Reference    string
	ClientSecret string
	CustomerRef  string
}

// Instrument is the gateway's view of a tokenized card.
type Instrument struct {
	Token       string
	CustomerRef string
	Brand       string
	Last4       string
	ExpiryMonth int64
	ExpiryYear  int64
}

type Gateway interface {
	CreateHold(ctx context.Context, amount int64, currency string, metadata map[string]string) (Hold, error)
	ConfirmHold(ctx context.Context, holdRef string, card Card) (ConfirmResult, error)
	RetrieveHold(ctx context.Context, holdRef string) (Hold, error)

	CreateCustomer(ctx context.Context, email string, name string) (customerRef string, err error)
	CreateSetupIntent(ctx context.Context, customerRef string) (SetupIntent, error)
	ConfirmSetupIntent(ctx context.Context, setupRef string, methodToken string) (Instrument, error)
	DetachToken(ctx context.Context, token string) error
}
