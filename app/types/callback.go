package types

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// STKCallbackEnvelope is the provider-defined envelope POSTed by the
// gateway's infrastructure after the payer responds to the push prompt.
type STKCallbackEnvelope struct {
	Body STKCallbackBody `json:"Body"`
}

type STKCallbackBody struct {
	StkCallback STKCallback `json:"stkCallback"`
}

type STKCallback struct {
	MerchantRequestID string           `json:"MerchantRequestID"`
	CheckoutRequestID string           `json:"CheckoutRequestID"`
	ResultCode        int32            `json:"ResultCode"`
	ResultDesc        string           `json:"ResultDesc"`
	CallbackMetadata  CallbackMetadata `json:"CallbackMetadata"`
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

func NewSTKCallbackFromContext(ctx echo.Context) (*STKCallback, error) {
	var envelope STKCallbackEnvelope
	if err := ctx.Bind(&envelope); err != nil {
		return nil, err
	}
	return &envelope.Body.StkCallback, nil
}

// ReceiptNumber returns the MpesaReceiptNumber metadata item, or "" when
// the callback carries none.
func (c *STKCallback) ReceiptNumber() string {
	for _, item := range c.CallbackMetadata.Item {
		if item.Name != "MpesaReceiptNumber" {
			continue
		}
		if s, ok := item.Value.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// STKCallbackAck is the fixed acknowledgment envelope the gateway expects.
// Anything else makes the provider redeliver the notification.
type STKCallbackAck struct {
	ResultCode int32  `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

func CallbackAckSuccess() *STKCallbackAck {
	return &STKCallbackAck{ResultCode: 0, ResultDesc: "Success"}
}

func CallbackAckFailed() *STKCallbackAck {
	return &STKCallbackAck{ResultCode: 1, ResultDesc: "Failed"}
}
