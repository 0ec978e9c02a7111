package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/mkarani499/video-platform-2/app/factory"
	"github.com/mkarani499/video-platform-2/app/mapper"
	"github.com/mkarani499/video-platform-2/app/service"
	"github.com/mkarani499/video-platform-2/app/types"
)

type PaymentController struct {
	paymentService *service.PaymentService
	logger         logrus.FieldLogger
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         factory.NewModuleLogger("payment-controller"),
	}
}

func (c *PaymentController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *PaymentController) InitiatePayment(ctx echo.Context) error {
	req, err := types.NewInitiatePaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.paymentService.InitiatePayment(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVideoNotFound):
			return c.writeError(ctx, http.StatusNotFound, "video not found")
		case errors.Is(err, service.ErrGatewayFailed):
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Initiate payment failed")
			return c.writeError(ctx, http.StatusInternalServerError, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Initiate payment failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, mapper.PaymentToInitiateResponse(item))
}

// HandleDarajaCallback processes the provider's asynchronous notification.
// The provider is the caller here, not the end user: processing failures
// are logged and folded into the negative acknowledgment, never surfaced
// as HTTP errors.
func (c *PaymentController) HandleDarajaCallback(ctx echo.Context) error {
	callback, err := types.NewSTKCallbackFromContext(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Unparseable gateway callback")
		return ctx.JSON(http.StatusOK, types.CallbackAckFailed())
	}

	if err := c.paymentService.HandleDarajaCallback(ctx.Request().Context(), callback); err != nil {
		c.logger.WithError(err).Error("Gateway callback processing failed")
		return ctx.JSON(http.StatusOK, types.CallbackAckFailed())
	}

	return ctx.JSON(http.StatusOK, types.CallbackAckSuccess())
}

func (c *PaymentController) PaymentStatus(ctx echo.Context) error {
	req, err := types.NewPaymentStatusRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.paymentService.GetPayment(ctx.Request().Context(), req.PaymentID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "payment not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Payment status query failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.PaymentToStatusResponse(item))
}

func (c *PaymentController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
