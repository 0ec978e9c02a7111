package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type InitiatePaymentRequest struct {
	Phone   string `json:"phone"`
	Amount  int64  `json:"amount"`
	VideoID uint64 `json:"videoId"`

	// UserRef comes from the auth middleware, never from the body.
	UserRef string `json:"-"`
}

func NewInitiatePaymentRequestFromContext(ctx echo.Context) (*InitiatePaymentRequest, error) {
	var body InitiatePaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.Phone = strings.TrimSpace(body.Phone)
	if ref, ok := ctx.Get(UserRefContextKey).(string); ok {
		body.UserRef = strings.TrimSpace(ref)
	}

	return &body, nil
}

func (r *InitiatePaymentRequest) Validate() error {
	if r.UserRef == "" {
		return errors.New("caller identity is required")
	}
	if r.Phone == "" {
		return errors.New("phone is required")
	}
	if r.Amount <= 0 {
		return errors.New("amount must be > 0")
	}
	if r.VideoID == 0 {
		return errors.New("videoId is required")
	}
	return nil
}

type InitiatePaymentResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	PaymentID         uint64 `json:"paymentId"`
	CheckoutRequestID string `json:"checkoutRequestID"`
}

type PaymentStatusRequest struct {
	PaymentID uint64
}

func NewPaymentStatusRequestFromContext(ctx echo.Context) (*PaymentStatusRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("paymentId"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &PaymentStatusRequest{PaymentID: id}, nil
}

func (r *PaymentStatusRequest) Validate() error {
	if r.PaymentID == 0 {
		return errors.New("invalid payment id")
	}
	return nil
}

type PaymentStatusResponse struct {
	Status       string `json:"status"`
	MpesaReceipt string `json:"mpesaReceipt"`
	Amount       int64  `json:"amount"`
	CreatedAt    string `json:"createdAt"`
}
