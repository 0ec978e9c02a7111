// Package daraja wraps the Safaricom Daraja (M-Pesa) OAuth and STK-push
// HTTP API.
package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mkarani499/video-platform-2/app/factory"
)

const (
	DefaultBaseURL = "https://sandbox.safaricom.co.ke"

	oauthPath   = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"

	transactionType = "CustomerPayBillOnline"
	timestampLayout = "20060102150405"
)

var (
	// ErrAuth means the provider credential could not be obtained.
	ErrAuth = errors.New("daraja: authentication failed")
	// ErrRequest means the provider rejected the push request or the
	// transport failed. The payment must not be assumed to have occurred.
	ErrRequest = errors.New("daraja: stk push request failed")
)

type Config struct {
	ConsumerKey    string
	ConsumerSecret string
	Shortcode      string
	Passkey        string
	CallbackURL    string
	BaseURL        string
	HTTPTimeout    time.Duration
}

type Client struct {
	cfg    Config
	client *http.Client
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: factory.NewModuleLogger("daraja-client"),
		now:    time.Now,
	}
}

// GetAccessToken exchanges the configured consumer key/secret for a
// short-lived bearer token. Tokens are not cached; every push request
// re-authenticates.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+oauthPath, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(c.cfg.ConsumerKey + ":" + c.cfg.ConsumerSecret))
	req.Header.Set("Authorization", "Basic "+credentials)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("Access token request failed")
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if resp.StatusCode >= 400 {
		c.logger.WithField("status", resp.StatusCode).Error("Access token rejected")
		return "", fmt.Errorf("%w: status=%d body=%s", ErrAuth, resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuth)
	}

	return payload.AccessToken, nil
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// STKPushResponse is the provider's acceptance payload. The correlation
// ids are opaque strings used only to match the asynchronous callback.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// InitiateSTKPush submits a push-payment request prompting the payer's
// phone. Acceptance only means the prompt was sent; the outcome arrives
// later on the callback URL.
func (c *Client) InitiateSTKPush(ctx context.Context, phone string, amount int64, accountReference, transactionDesc string) (*STKPushResponse, error) {
	token, err := c.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := c.now().UTC().Format(timestampLayout)
	password := base64.StdEncoding.EncodeToString([]byte(c.cfg.Shortcode + c.cfg.Passkey + timestamp))
	formattedPhone := NormalizePhone(phone)

	payload, err := json.Marshal(&stkPushRequest{
		BusinessShortCode: c.cfg.Shortcode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            amount,
		PartyA:            formattedPhone,
		PartyB:            c.cfg.Shortcode,
		PhoneNumber:       formattedPhone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  accountReference,
		TransactionDesc:   transactionDesc,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+stkPushPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("STK push request failed")
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	if resp.StatusCode >= 400 {
		c.logger.WithField("status", resp.StatusCode).Error("STK push rejected")
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrRequest, resp.StatusCode, string(body))
	}

	var result STKPushResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}

	return &result, nil
}

// NormalizePhone rewrites a trunk-prefixed local number (07XXXXXXXX) to
// the 254 country-code form. Numbers already in international form pass
// through unchanged.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "0") {
		return "254" + phone[1:]
	}
	return phone
}
