package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/grocerlink/payment-service/internal/domain"
	pkgdto "github.com/grocerlink/payment-service/pkg/dto"
	"github.com/grocerlink/payment-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type OrderRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreateOrderRepository(db *sqlx.DB) OrderRepository {
	return &OrderRepositoryImpl{
		db: db,
	}
}

// IsUniqueViolation reports whether err is the storage layer's uniqueness
// constraint firing; the constraint on orders.payment_reference is the final
// arbiter of the duplicate-submission race.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *OrderRepositoryImpl) ext() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *OrderRepositoryImpl) AddOrder(ctx context.Context, data domain.Order) (id int64, err error) {
	query := `INSERT INTO orders(customer_id, merchant_id, driver_id, items, subtotal, delivery_fee, total_amount,
		payment_method, payment_reference, status, merchant_amount, driver_amount, platform_amount, created_at, updated_at)
		VALUES (:customer_id, :merchant_id, :driver_id, :items, :subtotal, :delivery_fee, :total_amount,
		:payment_method, :payment_reference, :status, :merchant_amount, :driver_amount, :platform_amount, :created_at, :updated_at)
		RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, r.ext(), query, data)
	if err != nil {
		if !IsUniqueViolation(err) {
			log.Error().Err(err).Str("component", "AddOrder").Msg("")
		}
		return
	}
	defer rows.Close()

	if rows.Next() {
		if err = rows.Scan(&data.ID); err != nil {
			log.Error().Err(err).Str("component", "AddOrder").Msg("")
			return
		}
	}

	return data.ID, nil
}

func (r *OrderRepositoryImpl) AddCommissionEntry(ctx context.Context, data domain.CommissionEntry) (err error) {
	query := `INSERT INTO commission_entries(order_id, driver_id, amount, status, created_at, updated_at)
		VALUES (:order_id, :driver_id, :amount, :status, :created_at, :updated_at)`

	_, err = sqlx.NamedExecContext(ctx, r.ext(), query, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddCommissionEntry").Msg("")
		return
	}

	return nil
}

func (r *OrderRepositoryImpl) GetOrderByPaymentReference(ctx context.Context, reference string) (data domain.Order, err error) {
	row := r.ext().QueryRowxContext(ctx, "SELECT * FROM orders WHERE payment_reference = $1 AND deleted_at IS NULL", reference)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Order{}, nil
		}
		log.Error().Err(err).Str("component", "GetOrderByPaymentReference").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *OrderRepositoryImpl) GetOrders(ctx context.Context, filter pkgdto.Filter) (data []domain.Order, err error) {
	query := "SELECT * FROM orders WHERE deleted_at IS NULL"

	args := make(map[string]interface{})

	if filter.CustomerID != "" {
		query += " AND customer_id = :customer_id"
		args["customer_id"] = filter.CustomerID
	}

	if filter.MerchantID != "" {
		query += " AND merchant_id = :merchant_id"
		args["merchant_id"] = filter.MerchantID
	}

	if filter.Status != "" {
		query += " AND status = :status"
		args["status"] = filter.Status
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit != 0 && filter.Page != 0 {
		offset := (filter.Page - 1) * filter.Limit
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = offset
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOrders").Msg("")
		return nil, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetOrders").Msg("")
		return nil, err
	}

	return
}

func (r *OrderRepositoryImpl) GetPendingVerificationBefore(ctx context.Context, cutoff int64) (data []domain.Order, err error) {
	err = sqlx.SelectContext(ctx, r.ext(), &data,
		"SELECT * FROM orders WHERE status = $1 AND created_at < $2 AND deleted_at IS NULL",
		domain.OrderStatusPendingVerification, cutoff)
	if err != nil {
		log.Error().Err(err).Str("component", "GetPendingVerificationBefore").Msg("")
		return nil, err
	}

	return
}

func (r *OrderRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	txRepo := &OrderRepositoryImpl{
		db: r.db,
		tx: tx,
	}

	err = fn(ctx, txRepo)

	return err
}
