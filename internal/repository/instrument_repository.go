package repository

import (
	"context"
	"database/sql"

	"github.com/grocerlink/payment-service/internal/domain"
	"github.com/grocerlink/payment-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type InstrumentRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreateInstrumentRepository(db *sqlx.DB) InstrumentRepository {
	return &InstrumentRepositoryImpl{
		db: db,
	}
}

func (r *InstrumentRepositoryImpl) ext() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *InstrumentRepositoryImpl) AddInstrument(ctx context.Context, data domain.PaymentInstrument) (id int64, err error) {
	query := `INSERT INTO customer_payment_methods(owner_id, gateway_customer_ref, gateway_token, brand, last4,
		expiry_month, expiry_year, is_default, is_active, created_at, updated_at)
		VALUES (:owner_id, :gateway_customer_ref, :gateway_token, :brand, :last4,
		:expiry_month, :expiry_year, :is_default, :is_active, :created_at, :updated_at)
		RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, r.ext(), query, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddInstrument").Msg("")
		return
	}
	defer rows.Close()

	if rows.Next() {
		if err = rows.Scan(&data.ID); err != nil {
			log.Error().Err(err).Str("component", "AddInstrument").Msg("")
			return
		}
	}

	return data.ID, nil
}

func (r *InstrumentRepositoryImpl) GetInstrumentByID(ctx context.Context, id int64) (data domain.PaymentInstrument, err error) {
	row := r.ext().QueryRowxContext(ctx, "SELECT * FROM customer_payment_methods WHERE id = $1", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.PaymentInstrument{}, nil
		}
		log.Error().Err(err).Str("component", "GetInstrumentByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *InstrumentRepositoryImpl) GetActiveInstrumentsByOwner(ctx context.Context, ownerID string) (data []domain.PaymentInstrument, err error) {
	err = sqlx.SelectContext(ctx, r.ext(), &data,
		"SELECT * FROM customer_payment_methods WHERE owner_id = $1 AND is_active = TRUE ORDER BY created_at ASC", ownerID)
	if err != nil {
		log.Error().Err(err).Str("component", "GetActiveInstrumentsByOwner").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

// GetCustomerRefByOwner returns the earliest stored gateway customer ref for
// the owner, inactive rows included. When a creation race ever produces two
// gateway customers, the first one stored wins.
func (r *InstrumentRepositoryImpl) GetCustomerRefByOwner(ctx context.Context, ownerID string) (customerRef string, err error) {
	row := r.ext().QueryRowxContext(ctx,
		"SELECT gateway_customer_ref FROM customer_payment_methods WHERE owner_id = $1 ORDER BY created_at ASC, id ASC LIMIT 1", ownerID)
	err = row.Scan(&customerRef)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		log.Error().Err(err).Str("component", "GetCustomerRefByOwner").Msg("")
		return "", errs.ErrInternalServer
	}

	return
}

func (r *InstrumentRepositoryImpl) CountActiveByOwner(ctx context.Context, ownerID string) (count int64, err error) {
	row := r.ext().QueryRowxContext(ctx,
		"SELECT COUNT(*) FROM customer_payment_methods WHERE owner_id = $1 AND is_active = TRUE", ownerID)
	err = row.Scan(&count)
	if err != nil {
		log.Error().Err(err).Str("component", "CountActiveByOwner").Msg("")
		return 0, errs.ErrInternalServer
	}

	return
}

func (r *InstrumentRepositoryImpl) ClearDefaultByOwner(ctx context.Context, ownerID string) (err error) {
	_, err = r.ext().ExecContext(ctx,
		"UPDATE customer_payment_methods SET is_default = FALSE, updated_at = EXTRACT(EPOCH FROM NOW())::bigint WHERE owner_id = $1 AND is_default = TRUE", ownerID)
	if err != nil {
		log.Error().Err(err).Str("component", "ClearDefaultByOwner").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *InstrumentRepositoryImpl) MarkDefault(ctx context.Context, id int64) (err error) {
	_, err = r.ext().ExecContext(ctx,
		"UPDATE customer_payment_methods SET is_default = TRUE, updated_at = EXTRACT(EPOCH FROM NOW())::bigint WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Str("component", "MarkDefault").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

// Deactivate soft-deletes; rows stay behind for orders that reference them.
func (r *InstrumentRepositoryImpl) Deactivate(ctx context.Context, id int64) (err error) {
	_, err = r.ext().ExecContext(ctx,
		"UPDATE customer_payment_methods SET is_active = FALSE, is_default = FALSE, updated_at = EXTRACT(EPOCH FROM NOW())::bigint WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Str("component", "Deactivate").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *InstrumentRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo InstrumentRepository) error) (err error) {
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

	txRepo := &InstrumentRepositoryImpl{
		db: r.db,
		tx: tx,
	}

	err = fn(ctx, txRepo)

	return err
}
