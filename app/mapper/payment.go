package mapper

import (
	"time"

	"github.com/mkarani499/video-platform-2/app/entity"
	"github.com/mkarani499/video-platform-2/app/types"
)

func PaymentToInitiateResponse(item *entity.Payment) *types.InitiatePaymentResponse {
	if item == nil {
		return nil
	}
	return &types.InitiatePaymentResponse{
		Success:           true,
		Message:           "STK push sent. Complete the payment on your phone.",
		PaymentID:         item.ID,
		CheckoutRequestID: derefString(item.CheckoutRequestID),
	}
}

func PaymentToStatusResponse(item *entity.Payment) *types.PaymentStatusResponse {
	if item == nil {
		return nil
	}
	return &types.PaymentStatusResponse{
		Status:       item.Status,
		MpesaReceipt: derefString(item.MpesaReceipt),
		Amount:       item.Amount,
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
