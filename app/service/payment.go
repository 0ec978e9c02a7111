package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mkarani499/video-platform-2/app/daraja"
	"github.com/mkarani499/video-platform-2/app/entity"
	"github.com/mkarani499/video-platform-2/app/factory"
	"github.com/mkarani499/video-platform-2/app/types"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uint64) (*entity.Payment, error)
	AttachGatewayRequest(ctx context.Context, id uint64, checkoutRequestID, merchantRequestID string) error
	FinalizeByCheckoutID(ctx context.Context, checkoutRequestID, status string, receipt *string, resultCode int32, resultDesc string) (bool, error)
}

type videoFinder interface {
	FindByID(ctx context.Context, id uint64) (*entity.Video, error)
}

type stkGateway interface {
	InitiateSTKPush(ctx context.Context, phone string, amount int64, accountReference, transactionDesc string) (*daraja.STKPushResponse, error)
}

type PaymentService struct {
	paymentRepo paymentRepository
	videoRepo   videoFinder
	gateway     stkGateway
	logger      logrus.FieldLogger
}

func NewPaymentService(paymentRepo paymentRepository, videoRepo videoFinder, gateway stkGateway) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		videoRepo:   videoRepo,
		gateway:     gateway,
		logger:      factory.NewModuleLogger("payment-service"),
	}
}

// InitiatePayment records a pending purchase and asks the gateway to
// prompt the payer's phone. The pending row is written before any gateway
// traffic so a crash mid-flow still leaves an auditable record; on gateway
// failure the row stays pending with no correlation ids, cleanup is out of
// band.
func (s *PaymentService) InitiatePayment(ctx context.Context, req *types.InitiatePaymentRequest) (*entity.Payment, error) {
	video, err := s.videoRepo.FindByID(ctx, req.VideoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}

	now := time.Now().UTC()
	payment := &entity.Payment{
		UserRef:   strings.TrimSpace(req.UserRef),
		VideoID:   video.ID,
		Amount:    req.Amount,
		Phone:     strings.TrimSpace(req.Phone),
		Reference: uuid.NewString(),
		Status:    entity.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	push, err := s.gateway.InitiateSTKPush(ctx, payment.Phone, payment.Amount, payment.Reference, "Video purchase: "+video.Title)
	if err != nil {
		s.logger.WithError(err).WithField("payment_id", payment.ID).Error("STK push failed, payment left pending")
		return nil, fmt.Errorf("%w: %v", ErrGatewayFailed, err)
	}

	if err := s.paymentRepo.AttachGatewayRequest(ctx, payment.ID, push.CheckoutRequestID, push.MerchantRequestID); err != nil {
		return nil, err
	}
	payment.CheckoutRequestID = &push.CheckoutRequestID
	payment.MerchantRequestID = &push.MerchantRequestID

	s.logger.WithFields(logrus.Fields{
		"payment_id":          payment.ID,
		"checkout_request_id": push.CheckoutRequestID,
	}).Info("STK push accepted")

	return payment, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uint64) (*entity.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}
