package repository

import (
	"context"

	"github.com/grocerlink/payment-service/internal/domain"
	pkgdto "github.com/grocerlink/payment-service/pkg/dto"
)

type OrderRepository interface {
	HandleTrx(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) error

	AddOrder(ctx context.Context, data domain.Order) (id int64, err error)
	AddCommissionEntry(ctx context.Context, data domain.CommissionEntry) (err error)
	GetOrderByPaymentReference(ctx context.Context, reference string) (data domain.Order, err error)
	GetOrders(ctx context.Context, filter pkgdto.Filter) (data []domain.Order, err error)
	GetPendingVerificationBefore(ctx context.Context, cutoff int64) (data []domain.Order, err error)
}

type InstrumentRepository interface {
	HandleTrx(ctx context.Context, fn func(ctx context.Context, repo InstrumentRepository) error) error

	AddInstrument(ctx context.Context, data domain.PaymentInstrument) (id int64, err error)
	GetInstrumentByID(ctx context.Context, id int64) (data domain.PaymentInstrument, err error)
	GetActiveInstrumentsByOwner(ctx context.Context, ownerID string) (data []domain.PaymentInstrument, err error)
	GetCustomerRefByOwner(ctx context.Context, ownerID string) (customerRef string, err error)
	CountActiveByOwner(ctx context.Context, ownerID string) (count int64, err error)
	ClearDefaultByOwner(ctx context.Context, ownerID string) (err error)
	MarkDefault(ctx context.Context, id int64) (err error)
	Deactivate(ctx context.Context, id int64) (err error)
}

type LedgerRepository interface {
	SumDriverCommissions(ctx context.Context, driverID string, status string, from int64) (total int64, err error)
	SumMerchantEarnings(ctx context.Context, merchantID string, from int64) (total int64, err error)
	CountMerchantOrders(ctx context.Context, merchantID string) (count int64, err error)
}
