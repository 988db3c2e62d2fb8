package dto

type ProofFileResult struct {
	Name     string `json:"name"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	StoreRef string `json:"store_ref,omitempty"`
}

type ProofResponse struct {
	ProofReference string            `json:"proof_reference"`
	Amount         int64             `json:"amount"`
	Files          []ProofFileResult `json:"files"`
	UploadedAt     int64             `json:"uploaded_at"`
}
