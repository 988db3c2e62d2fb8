package dto

// Window totals are cents; zero-valued for parties with no history.
type LedgerWindow struct {
	Today int64 `json:"today"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
}

type DriverLedgerResponse struct {
	DriverID  string       `json:"driver_id"`
	Pending   LedgerWindow `json:"pending"`
	Completed LedgerWindow `json:"completed"`
}

type MerchantLedgerResponse struct {
	MerchantID string       `json:"merchant_id"`
	Earnings   LedgerWindow `json:"earnings"`
	OrderCount int64        `json:"order_count"`
}
