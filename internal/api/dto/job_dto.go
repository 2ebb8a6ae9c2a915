package dto

type ListJobsRequest struct {
	Status string `form:"status"`
}

type JobDTO struct {
	ID                    int64    `json:"id"`
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	Category              string   `json:"category"`
	RequiredSkills        []string `json:"required_skills"`
	PaymentAmount         string   `json:"payment_amount"`
	Status                string   `json:"status"`
	CompletedBy           string   `json:"completed_by,omitempty"`
	SubmissionURL         string   `json:"submission_url,omitempty"`
	SubmissionDescription string   `json:"submission_description,omitempty"`
	TransactionHash       string   `json:"transaction_hash,omitempty"`
	CompletedAt           string   `json:"completed_at,omitempty"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

type ListJobsResponse struct {
	Jobs []JobDTO `json:"jobs"`
}

type CompleteJobRequest struct {
	WalletAddress         string `json:"wallet_address" binding:"required"`
	SubmissionURL         string `json:"submission_url"`
	SubmissionDescription string `json:"submission_description"`
}

type CompleteJobResponse struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transaction_hash"`
	ExplorerLink    string `json:"explorer_link"`
}

type TransactionDTO struct {
	ID              int64  `json:"id"`
	JobID           int64  `json:"job_id"`
	FromAddress     string `json:"from_address"`
	ToAddress       string `json:"to_address"`
	Amount          string `json:"amount"`
	TransactionHash string `json:"transaction_hash"`
	ExplorerLink    string `json:"explorer_link,omitempty"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

type WalletSummaryResponse struct {
	Address string `json:"address"`
	Chain   string `json:"chain"`
	Balance string `json:"balance"`
	Symbol  string `json:"symbol"`
}
