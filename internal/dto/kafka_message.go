package dto

const (
	EventOrderFinalized      = "order_finalized"
	EventManualReviewOverdue = "manual_review_overdue"
)

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

type OrderFinalizedEvent struct {
	OrderID          int64  `json:"order_id"`
	PaymentReference string `json:"payment_reference"`
	PaymentMethod    string `json:"payment_method"`
	Status           string `json:"status"`
	TotalAmount      int64  `json:"total_amount"`
	MerchantID       string `json:"merchant_id"`
	DriverID         string `json:"driver_id,omitempty"`
}

type ManualReviewOverdueEvent struct {
	OrderID          int64  `json:"order_id"`
	PaymentReference string `json:"payment_reference"`
	MerchantID       string `json:"merchant_id"`
	PendingSince     int64  `json:"pending_since"`
}
