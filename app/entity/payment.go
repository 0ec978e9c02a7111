package entity

import "time"

const (
	StatusPending   = "pending"
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// TerminalStatus reports whether a payment status can no longer change.
func TerminalStatus(status string) bool {
	switch status {
	case StatusSuccess, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

type Payment struct {
	ID uint64

	UserRef string
	VideoID uint64

	Amount int64
	Phone  string

	// Reference is sent to the gateway as the account reference for the
	// STK push.
	Reference string

	Status string

	MpesaReceipt      *string
	CheckoutRequestID *string
	MerchantRequestID *string
	ResultCode        *int32
	ResultDesc        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
