package dto

type SetupIntentRequest struct {
	OwnerID string `json:"owner_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

type SetupIntentResponse struct {
	SetupRef     string `json:"setup_ref"`
	ClientSecret string `json:"client_secret"`
	CustomerRef  string `json:"customer_ref"`
}

type ConfirmInstrumentRequest struct {
	OwnerID     string `json:"owner_id"`
	SetupRef    string `json:"setup_ref"`
	MethodToken string `json:"method_token"`
	MakeDefault bool   `json:"make_default"`
}

type InstrumentResponse struct {
	ID          int64  `json:"id"`
	Brand       string `json:"brand"`
	Last4       string `json:"last4"`
	ExpiryMonth int64  `json:"expiry_month"`
	ExpiryYear  int64  `json:"expiry_year"`
	IsDefault   bool   `json:"is_default"`
}
