package service

import (
	"context"

	"github.com/grocerlink/payment-service/internal/dto"
	pkgdto "github.com/grocerlink/payment-service/pkg/dto"
)

type OrderService interface {
	// FinalizeOrder is idempotent on the payment reference: the created flag
	// is false when an existing order was returned for a duplicate submission.
	FinalizeOrder(ctx context.Context, req dto.FinalizeOrderRequest) (resp dto.OrderResponse, created bool, err error)
	GetOrders(ctx context.Context, filter pkgdto.Filter) (response pkgdto.Pagination, err error)
	SweepStaleManualOrders()
}

type VaultService interface {
	CreateSetupIntent(ctx context.Context, req dto.SetupIntentRequest) (resp dto.SetupIntentResponse, err error)
	ConfirmInstrument(ctx context.Context, req dto.ConfirmInstrumentRequest) (resp dto.InstrumentResponse, err error)
	ListInstruments(ctx context.Context, ownerID string) (resp []dto.InstrumentResponse, err error)
	SetDefaultInstrument(ctx context.Context, ownerID string, id int64) (err error)
	RemoveInstrument(ctx context.Context, ownerID string, id int64) (err error)
}

type LedgerService interface {
	DriverSummary(ctx context.Context, driverID string) (resp dto.DriverLedgerResponse, err error)
	MerchantSummary(ctx context.Context, merchantID string) (resp dto.MerchantLedgerResponse, err error)
}
