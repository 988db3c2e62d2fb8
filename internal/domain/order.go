package domain

import "encoding/json"

const (
	OrderStatusConfirmed           = "confirmed"
	OrderStatusPendingVerification = "pending_verification"
)

const (
	CommissionStatusPending   = "pending"
	CommissionStatusCompleted = "completed"
	CommissionStatusFailed    = "failed"
)

// All monetary amounts are integer cents.
type Order struct {
	ID               int64           `db:"id"`
	CustomerID       string          `db:"customer_id"`
	MerchantID       string          `db:"merchant_id"`
	DriverID         *string         `db:"driver_id"`
	Items            json.RawMessage `db:"items"`
	Subtotal         int64           `db:"subtotal"`
	DeliveryFee      int64           `db:"delivery_fee"`
	TotalAmount      int64           `db:"total_amount"`
	PaymentMethod    string          `db:"payment_method"`
	PaymentReference string          `db:"payment_reference"`
	Status           string          `db:"status"`
	MerchantAmount   int64           `db:"merchant_amount"`
	DriverAmount     int64           `db:"driver_amount"`
	PlatformAmount   int64           `db:"platform_amount"`
	CreatedAt        int64           `db:"created_at"`
	UpdatedAt        int64           `db:"updated_at"`
	DeletedAt        *int64          `db:"deleted_at"`
}

type CommissionEntry struct {
	ID        int64  `db:"id"`
	OrderID   int64  `db:"order_id"`
	DriverID  string `db:"driver_id"`
	Amount    int64  `db:"amount"`
	Status    string `db:"status"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}
