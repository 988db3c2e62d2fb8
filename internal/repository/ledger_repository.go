package repository

import (
	"context"

	"github.com/grocerlink/payment-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Ledger reads are purely derived aggregations over orders and commission
// entries; nothing here mutates either table.
type LedgerRepositoryImpl struct {
	db *sqlx.DB
}

func CreateLedgerRepository(db *sqlx.DB) LedgerRepository {
	return &LedgerRepositoryImpl{
		db: db,
	}
}

func (r *LedgerRepositoryImpl) SumDriverCommissions(ctx context.Context, driverID string, status string, from int64) (total int64, err error) {
	row := r.db.QueryRowxContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM commission_entries WHERE driver_id = $1 AND status = $2 AND created_at >= $3",
		driverID, status, from)
	err = row.Scan(&total)
	if err != nil {
		log.Error().Err(err).Str("component", "SumDriverCommissions").Msg("")
		return 0, errs.ErrInternalServer
	}

	return
}

func (r *LedgerRepositoryImpl) SumMerchantEarnings(ctx context.Context, merchantID string, from int64) (total int64, err error) {
	row := r.db.QueryRowxContext(ctx,
		"SELECT COALESCE(SUM(merchant_amount), 0) FROM orders WHERE merchant_id = $1 AND created_at >= $2 AND deleted_at IS NULL",
		merchantID, from)
	err = row.Scan(&total)
	if err != nil {
		log.Error().Err(err).Str("component", "SumMerchantEarnings").Msg("")
		return 0, errs.ErrInternalServer
	}

	return
}

func (r *LedgerRepositoryImpl) CountMerchantOrders(ctx context.Context, merchantID string) (count int64, err error) {
	row := r.db.QueryRowxContext(ctx,
		"SELECT COUNT(*) FROM orders WHERE merchant_id = $1 AND deleted_at IS NULL", merchantID)
	err = row.Scan(&count)
	if err != nil {
		log.Error().Err(err).Str("component", "CountMerchantOrders").Msg("")
		return 0, errs.ErrInternalServer
	}

	return
}
