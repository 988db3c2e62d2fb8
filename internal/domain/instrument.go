package domain

// PaymentInstrument is a tokenized card stored for reuse. The raw card number
// never reaches this service; only the gateway token and display fields do.
// Rows referenced by historical orders are soft-deleted via is_active.
type PaymentInstrument struct {
	ID                 int64  `db:"id"`
	OwnerID            string `db:"owner_id"`
	GatewayCustomerRef string `db:"gateway_customer_ref"`
	GatewayToken       string `db:"gateway_token"`
	Brand              string `db:"brand"`
	Last4              string `db:"last4"`
	ExpiryMonth        int64  `db:"expiry_month"`
	ExpiryYear         int64  `db:"expiry_year"`
	IsDefault          bool   `db:"is_default"`
	IsActive           bool   `db:"is_active"`
	CreatedAt          int64  `db:"created_at"`
	UpdatedAt          int64  `db:"updated_at"`
}
