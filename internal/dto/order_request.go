package dto

import "encoding/json"

const (
	PaymentMethodCard    = "card"
	PaymentMethodInterac = "interac"
)

type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Breakdown is the merchant/driver/platform split of the order total,
// in cents. The three components must sum to the order total exactly.
type Breakdown struct {
	MerchantAmount int64 `json:"merchant_amount"`
	DriverAmount   int64 `json:"driver_amount"`
	PlatformAmount int64 `json:"platform_amount"`
}

func (b Breakdown) Sum() int64 {
	return b.MerchantAmount + b.DriverAmount + b.PlatformAmount
}

type OrderDraft struct {
	CustomerID  string      `json:"customer_id"`
	MerchantID  string      `json:"merchant_id"`
	DriverID    string      `json:"driver_id,omitempty"`
	Items       []OrderItem `json:"items"`
	Subtotal    int64       `json:"subtotal"`
	DeliveryFee int64       `json:"delivery_fee"`
	TotalAmount int64       `json:"total_amount"`
}

func (d OrderDraft) ItemsJSON() json.RawMessage {
	raw, err := json.Marshal(d.Items)
	if err != nil {
		return json.RawMessage("[]")
	}
	return raw
}

type FinalizeOrderRequest struct {
	PaymentReference string     `json:"payment_reference"`
	Method           string     `json:"method"`
	Breakdown        Breakdown  `json:"breakdown"`
	OrderDraft       OrderDraft `json:"order_draft"`
}
