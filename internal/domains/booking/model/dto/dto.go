package dto

import "time"

// Transaction statuses exposed to clients. A transaction abandoned by the
// caller stays pending: it was submitted to the ledger and may still confirm.
const (
	TxStatusPending   = "pending"
	TxStatusConfirmed = "confirmed"
	TxStatusFailed    = "failed"
)

// Ledger operation names recorded on pending transactions.
const (
	TxOperationList  = "list"
	TxOperationBook  = "book"
	TxOperationClaim = "claim"
)

type ListSpotRequest struct {
	IdempotencyKey string   `json:"idempotency_key" validate:"required,max=64"`
	Location       string   `json:"location" validate:"required,max=255"`
	PriceWei       string   `json:"price_wei" validate:"required,wei"`
	Description    string   `json:"description" validate:"omitempty,max=2000"`
	Amenities      []string `json:"amenities" validate:"omitempty,dive,max=64"`
	Images         []string `json:"images" validate:"omitempty,dive,url"`
}

type BookSpotRequest struct {
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=64"`
	PaymentWei     string `json:"payment_wei" validate:"required,wei"`
}

type ClaimRequest struct {
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=64"`
}

type QuoteRequest struct {
	DurationUnits int64    `json:"duration_units" validate:"required,min=1"`
	AddOns        []string `json:"add_ons" validate:"omitempty"`
}

type QuoteResponse struct {
	SpotID        uint64   `json:"spot_id"`
	BasePriceWei  string   `json:"base_price_wei"`
	DurationUnits int64    `json:"duration_units"`
	AddOns        []string `json:"add_ons,omitempty"`
	TotalWei      string   `json:"total_wei"`
}

// TransactionRecord tracks one submitted ledger transaction per idempotency
// key, so a retry never resubmits a payment whose prior attempt is not in
// a final state.
type TransactionRecord struct {
	Key       string    `json:"key"`
	Wallet    string    `json:"wallet"`
	Operation string    `json:"operation"`
	SpotID    *uint64   `json:"spot_id,omitempty"`
	TxHash    string    `json:"tx_hash,omitempty"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Final reports whether the record's status cannot change anymore.
func (r TransactionRecord) Final() bool {
	return r.Status == TxStatusConfirmed || r.Status == TxStatusFailed
}

// SpotEvent is the payload published to Kafka when a lifecycle transition
// confirms on the ledger.
type SpotEvent struct {
	SpotID    *uint64   `json:"spot_id,omitempty"`
	Wallet    string    `json:"wallet"`
	Operation string    `json:"operation"`
	TxHash    string    `json:"tx_hash"`
	Timestamp time.Time `json:"timestamp"`
}
