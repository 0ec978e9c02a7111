package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mkarani499/video-platform-2/app/entity"
	"github.com/mkarani499/video-platform-2/app/types"
)

// Daraja result code sent when the payer dismisses the push prompt.
const resultCodeCancelled int32 = 1032

// HandleDarajaCallback finalizes the payment matching the callback's
// checkout request id. The finalizing write is guarded on the record still
// being pending, so duplicate, late, or unknown deliveries mutate nothing;
// the gateway redelivers until acknowledged and this must stay safe to run
// more than once per logical event.
func (s *PaymentService) HandleDarajaCallback(ctx context.Context, callback *types.STKCallback) error {
	checkoutID := strings.TrimSpace(callback.CheckoutRequestID)
	if checkoutID == "" {
		s.logger.Warn("Gateway callback without CheckoutRequestID dropped")
		return nil
	}

	status := entity.StatusFailed
	var receipt *string
	switch callback.ResultCode {
	case 0:
		status = entity.StatusSuccess
		if r := callback.ReceiptNumber(); r != "" {
			receipt = &r
		}
	case resultCodeCancelled:
		status = entity.StatusCancelled
	}

	matched, err := s.paymentRepo.FinalizeByCheckoutID(ctx, checkoutID, status, receipt, callback.ResultCode, callback.ResultDesc)
	if err != nil {
		return err
	}
	if !matched {
		s.logger.WithField("checkout_request_id", checkoutID).Info("Gateway callback matched no pending payment")
		return nil
	}

	s.logger.WithFields(logrus.Fields{
		"checkout_request_id": checkoutID,
		"status":              status,
		"result_code":         callback.ResultCode,
	}).Info("Payment finalized from gateway callback")

	return nil
}
