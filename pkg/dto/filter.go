package dto

type Filter struct {
	Limit      int    `query:"limit"`
	Page       int    `query:"page"`
	Status     string `query:"status"`
	CustomerID string `query:"customer_id"`
	MerchantID string `query:"merchant_id"`
}

type Metadata struct {
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
}

type Pagination struct {
	Metadata Metadata    `json:"_metadata"`
	Records  interface{} `json:"records"`
}
