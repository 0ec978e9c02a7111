package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mkarani499/video-platform-2/app/entity"
)

var (
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrDuplicateCheckoutRequest = errors.New("checkout request id already recorded")
)

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (
			user_ref, video_id, amount, phone, reference, status,
			mpesa_receipt, checkout_request_id, merchant_request_id,
			result_code, result_desc, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		payment.UserRef,
		payment.VideoID,
		payment.Amount,
		payment.Phone,
		payment.Reference,
		payment.Status,
		nullableStringValue(payment.MpesaReceipt),
		nullableStringValue(payment.CheckoutRequestID),
		nullableStringValue(payment.MerchantRequestID),
		nullableInt32Value(payment.ResultCode),
		nullableStringValue(payment.ResultDesc),
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateCheckoutRequest
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	payment.ID = uint64(id)
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uint64) (*entity.Payment, error) {
	query := `
		SELECT id, user_ref, video_id, amount, phone, reference, status,
			mpesa_receipt, checkout_request_id, merchant_request_id,
			result_code, result_desc, created_at, updated_at
		FROM payments
		WHERE id = ?
	`

	payment := &entity.Payment{}
	if err := scanPayment(r.db.QueryRowContext(ctx, query, id), payment); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return payment, nil
}

// AttachGatewayRequest stores the correlation identifiers returned by the
// gateway on an accepted STK push. The unique index on checkout_request_id
// guards the in-flight uniqueness invariant.
func (r *PaymentRepository) AttachGatewayRequest(ctx context.Context, id uint64, checkoutRequestID, merchantRequestID string) error {
	query := `
		UPDATE payments
		SET checkout_request_id = ?, merchant_request_id = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, checkoutRequestID, merchantRequestID, time.Now().UTC(), id)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateCheckoutRequest
		}
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// FinalizeByCheckoutID moves the payment matching the checkout request id
// from pending to the given terminal status. The status guard makes the
// write idempotent under duplicate callback delivery: a second delivery
// matches zero rows. The returned bool reports whether a row was updated.
func (r *PaymentRepository) FinalizeByCheckoutID(ctx context.Context, checkoutRequestID, status string, receipt *string, resultCode int32, resultDesc string) (bool, error) {
	query := `
		UPDATE payments
		SET status = ?, mpesa_receipt = ?, result_code = ?, result_desc = ?, updated_at = ?
		WHERE checkout_request_id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		status,
		nullableStringValue(receipt),
		resultCode,
		resultDesc,
		time.Now().UTC(),
		checkoutRequestID,
		entity.StatusPending,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanPayment(row *sql.Row, payment *entity.Payment) error {
	var mpesaReceipt sql.NullString
	var checkoutRequestID sql.NullString
	var merchantRequestID sql.NullString
	var resultCode sql.NullInt32
	var resultDesc sql.NullString

	err := row.Scan(
		&payment.ID,
		&payment.UserRef,
		&payment.VideoID,
		&payment.Amount,
		&payment.Phone,
		&payment.Reference,
		&payment.Status,
		&mpesaReceipt,
		&checkoutRequestID,
		&merchantRequestID,
		&resultCode,
		&resultDesc,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return err
	}

	payment.MpesaReceipt = stringPtrFromNull(mpesaReceipt)
	payment.CheckoutRequestID = stringPtrFromNull(checkoutRequestID)
	payment.MerchantRequestID = stringPtrFromNull(merchantRequestID)
	payment.ResultCode = int32PtrFromNull(resultCode)
	payment.ResultDesc = stringPtrFromNull(resultDesc)

	return nil
}
