package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkarani499/video-platform-2/app/daraja"
	"github.com/mkarani499/video-platform-2/app/entity"
	"github.com/mkarani499/video-platform-2/app/service"
	"github.com/mkarani499/video-platform-2/app/types"
)

type controllerPaymentRepo struct {
	createFn               func(ctx context.Context, payment *entity.Payment) error
	findByIDFn             func(ctx context.Context, id uint64) (*entity.Payment, error)
	attachGatewayRequestFn func(ctx context.Context, id uint64, checkoutRequestID, merchantRequestID string) error
	finalizeByCheckoutIDFn func(ctx context.Context, checkoutRequestID, status string, receipt *string, resultCode int32, resultDesc string) (bool, error)
}

func (r *controllerPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if r.createFn != nil {
		return r.createFn(ctx, payment)
	}
	return nil
}

func (r *controllerPaymentRepo) FindByID(ctx context.Context, id uint64) (*entity.Payment, error) {
	if r.findByIDFn != nil {
		return r.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (r *controllerPaymentRepo) AttachGatewayRequest(ctx context.Context, id uint64, checkoutRequestID, merchantRequestID string) error {
	if r.attachGatewayRequestFn != nil {
		return r.attachGatewayRequestFn(ctx, id, checkoutRequestID, merchantRequestID)
	}
	return nil
}

func (r *controllerPaymentRepo) FinalizeByCheckoutID(ctx context.Context, checkoutRequestID, status string, receipt *string, resultCode int32, resultDesc string) (bool, error) {
	if r.finalizeByCheckoutIDFn != nil {
		return r.finalizeByCheckoutIDFn(ctx, checkoutRequestID, status, receipt, resultCode, resultDesc)
	}
	return true, nil
}

type controllerVideoRepo struct {
	findByIDFn func(ctx context.Context, id uint64) (*entity.Video, error)
}

func (r *controllerVideoRepo) FindByID(ctx context.Context, id uint64) (*entity.Video, error) {
	if r.findByIDFn != nil {
		return r.findByIDFn(ctx, id)
	}
	return &entity.Video{ID: id, Title: "Sample Tutorial Video", Price: 50, IsPublic: true}, nil
}

type controllerGateway struct {
	initiateFn func(ctx context.Context, phone string, amount int64, accountReference, transactionDesc string) (*daraja.STKPushResponse, error)
}

func (g *controllerGateway) InitiateSTKPush(ctx context.Context, phone string, amount int64, accountReference, transactionDesc string) (*daraja.STKPushResponse, error) {
	if g.initiateFn != nil {
		return g.initiateFn(ctx, phone, amount, accountReference, transactionDesc)
	}
	return &daraja.STKPushResponse{
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: "ws_CO_191220191020363925",
		ResponseCode:      "0",
	}, nil
}

func newPaymentControllerForTest(repo *controllerPaymentRepo, videos *controllerVideoRepo, gateway *controllerGateway) *PaymentController {
	return NewPaymentController(service.NewPaymentService(repo, videos, gateway))
}

func TestInitiatePaymentBadBody(t *testing.T) {
	ctrl := newPaymentControllerForTest(&controllerPaymentRepo{}, &controllerVideoRepo{}, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/payments/initiate", bytes.NewBufferString("{bad"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.Set(types.UserRefContextKey, "u1")

	if err := ctrl.InitiatePayment(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInitiatePaymentMissingUser(t *testing.T) {
	ctrl := newPaymentControllerForTest(&controllerPaymentRepo{}, &controllerVideoRepo{}, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/payments/initiate", bytes.NewBufferString(`{"phone":"0712345678","amount":50,"videoId":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.InitiatePayment(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestInitiatePaymentSuccess(t *testing.T) {
	repo := &controllerPaymentRepo{createFn: func(_ context.Context, payment *entity.Payment) error {
		payment.ID = 7
		return nil
	}}
	ctrl := newPaymentControllerForTest(repo, &controllerVideoRepo{}, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/payments/initiate", bytes.NewBufferString(`{"phone":"0712345678","amount":50,"videoId":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.Set(types.UserRefContextKey, "u1")

	_ = ctrl.InitiatePayment(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var payload types.InitiatePaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !payload.Success || payload.PaymentID != 7 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.CheckoutRequestID != "ws_CO_191220191020363925" {
		t.Fatalf("unexpected checkout request id: %q", payload.CheckoutRequestID)
	}
}

func TestInitiatePaymentUnknownVideo(t *testing.T) {
	videos := &controllerVideoRepo{findByIDFn: func(context.Context, uint64) (*entity.Video, error) { return nil, nil }}
	ctrl := newPaymentControllerForTest(&controllerPaymentRepo{}, videos, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/payments/initiate", bytes.NewBufferString(`{"phone":"0712345678","amount":50,"videoId":99}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.Set(types.UserRefContextKey, "u1")

	_ = ctrl.InitiatePayment(ctx)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestInitiatePaymentGatewayFailure(t *testing.T) {
	gateway := &controllerGateway{initiateFn: func(context.Context, string, int64, string, string) (*daraja.STKPushResponse, error) {
		return nil, errors.New("daraja unreachable")
	}}
	ctrl := newPaymentControllerForTest(&controllerPaymentRepo{}, &controllerVideoRepo{}, gateway)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/payments/initiate", bytes.NewBufferString(`{"phone":"0712345678","amount":50,"videoId":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.Set(types.UserRefContextKey, "u1")

	_ = ctrl.InitiatePayment(ctx)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCallbackAcksUnknownCheckout(t *testing.T) {
	repo := &controllerPaymentRepo{finalizeByCheckoutIDFn: func(context.Context, string, string, *string, int32, string) (bool, error) {
		return false, nil
	}}
	ctrl := newPaymentControllerForTest(repo, &controllerVideoRepo{}, &controllerGateway{})
	e := echo.New()
	body := `{"Body":{"stkCallback":{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_unknown","ResultCode":0,"ResultDesc":"ok"}}}`
	req := httptest.NewRequest(http.MethodPost, "/payments/callback", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.HandleDarajaCallback(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var ack types.STKCallbackAck
	if err := json.Unmarshal(rec.Body.Bytes(), &ack); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if ack.ResultCode != 0 {
		t.Fatalf("expected positive ack, got %+v", ack)
	}
}

func TestCallbackFinalizesSuccess(t *testing.T) {
	var gotStatus string
	var gotReceipt *string
	repo := &controllerPaymentRepo{finalizeByCheckoutIDFn: func(_ context.Context, _ string, status string, receipt *string, _ int32, _ string) (bool, error) {
		gotStatus = status
		gotReceipt = receipt
		return true, nil
	}}
	ctrl := newPaymentControllerForTest(repo, &controllerVideoRepo{}, &controllerGateway{})
	e := echo.New()
	body := `{"Body":{"stkCallback":{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_191220191020363925","ResultCode":0,"ResultDesc":"The service request is processed successfully.","CallbackMetadata":{"Item":[{"Name":"Amount","Value":50},{"Name":"MpesaReceiptNumber","Value":"NLJ7RT61SV"},{"Name":"PhoneNumber","Value":254712345678}]}}}}`
	req := httptest.NewRequest(http.MethodPost, "/payments/callback", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.HandleDarajaCallback(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotStatus != entity.StatusSuccess {
		t.Fatalf("expected success status, got %q", gotStatus)
	}
	if gotReceipt == nil || *gotReceipt != "NLJ7RT61SV" {
		t.Fatalf("unexpected receipt: %v", gotReceipt)
	}
}

func TestCallbackBadPayload(t *testing.T) {
	ctrl := newPaymentControllerForTest(&controllerPaymentRepo{}, &controllerVideoRepo{}, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/payments/callback", bytes.NewBufferString("{bad"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.HandleDarajaCallback(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 even for bad payload, got %d", rec.Code)
	}

	var ack types.STKCallbackAck
	if err := json.Unmarshal(rec.Body.Bytes(), &ack); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if ack.ResultCode != 1 {
		t.Fatalf("expected negative ack, got %+v", ack)
	}
}

func TestPaymentStatusNotFound(t *testing.T) {
	ctrl := newPaymentControllerForTest(&controllerPaymentRepo{}, &controllerVideoRepo{}, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/payments/status/9", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("paymentId")
	ctx.SetParamValues("9")

	_ = ctrl.PaymentStatus(ctx)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPaymentStatusSuccess(t *testing.T) {
	receipt := "NLJ7RT61SV"
	created := time.Date(2026, 3, 4, 15, 6, 7, 0, time.UTC)
	repo := &controllerPaymentRepo{findByIDFn: func(_ context.Context, id uint64) (*entity.Payment, error) {
		return &entity.Payment{
			ID:           id,
			UserRef:      "u1",
			VideoID:      1,
			Amount:       50,
			Status:       entity.StatusSuccess,
			MpesaReceipt: &receipt,
			CreatedAt:    created,
			UpdatedAt:    created,
		}, nil
	}}
	ctrl := newPaymentControllerForTest(repo, &controllerVideoRepo{}, &controllerGateway{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/payments/status/5", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("paymentId")
	ctx.SetParamValues("5")

	_ = ctrl.PaymentStatus(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var payload types.PaymentStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.Status != entity.StatusSuccess || payload.MpesaReceipt != receipt {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.CreatedAt != "2026-03-04T15:06:07Z" {
		t.Fatalf("unexpected createdAt: %q", payload.CreatedAt)
	}
}
