package dto

type OrderResponse struct {
	ID               int64     `json:"id"`
	CustomerID       string    `json:"customer_id"`
	MerchantID       string    `json:"merchant_id"`
	DriverID         string    `json:"driver_id,omitempty"`
	Subtotal         int64     `json:"subtotal"`
	DeliveryFee      int64     `json:"delivery_fee"`
	TotalAmount      int64     `json:"total_amount"`
	PaymentMethod    string    `json:"payment_method"`
	PaymentReference string    `json:"payment_reference"`
	Status           string    `json:"status"`
	Breakdown        Breakdown `json:"breakdown"`
	CreatedAt        int64     `json:"created_at"`
}
