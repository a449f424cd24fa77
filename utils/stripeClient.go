package utils

import (
	"academy/config"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const stripeApiBase = "https://api.stripe.com/v1"

// CheckoutSessionRequest carries everything needed to open a hosted Stripe
// checkout. When DestinationAccount is set the platform keeps ApplicationFee
// and Stripe transfers the remainder to the instructor's connected account.
type CheckoutSessionRequest struct {
	Amount             float64 // in currency units, e.g. dollars
	Currency           string
	ProductName        string
	SuccessURL         string
	CancelURL          string
	Metadata           map[string]string
	DestinationAccount string
	ApplicationFee     float64
}

type CheckoutSession struct {
	SessionID string
	URL       string
}

type CheckoutStatus struct {
	SessionID     string
	PaymentStatus string // paid, unpaid, no_payment_required
	Metadata      map[string]string
}

// StripeClient is a thin resty wrapper over the parts of the Stripe REST API
// the checkout flow needs.
type StripeClient struct {
	apiKey string
	client *resty.Client
}

func NewStripeClient() *StripeClient {
	return &StripeClient{
		apiKey: config.AppConfig.StripeSecretKey,
		client: resty.New().SetTimeout(15 * time.Second),
	}
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateCheckoutSession opens a hosted checkout session and returns its id and URL.
func (s *StripeClient) CreateCheckoutSession(req CheckoutSessionRequest) (*CheckoutSession, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("stripe secret key is not configured")
	}

	form := map[string]string{
		"mode":        "payment",
		"success_url": req.SuccessURL,
		"cancel_url":  req.CancelURL,
		"line_items[0][price_data][currency]":                  req.Currency,
		"line_items[0][price_data][unit_amount]":               strconv.FormatInt(toCents(req.Amount), 10),
		"line_items[0][price_data][product_data][name]":        req.ProductName,
		"line_items[0][quantity]":                              "1",
	}
	for k, v := range req.Metadata {
		form[fmt.Sprintf("metadata[%s]", k)] = v
	}
	if req.DestinationAccount != "" {
		form["payment_intent_data[transfer_data][destination]"] = req.DestinationAccount
		form["payment_intent_data[application_fee_amount]"] = strconv.FormatInt(toCents(req.ApplicationFee), 10)
	}

	resp, err := s.client.R().
		SetBasicAuth(s.apiKey, "").
		SetFormData(form).
		Post(stripeApiBase + "/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("stripe error %d: %s", resp.StatusCode(), resp.String())
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return nil, fmt.Errorf("invalid stripe response: %w", err)
	}

	return &CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}

// GetCheckoutStatus polls a checkout session's payment status.
func (s *StripeClient) GetCheckoutStatus(sessionID string) (*CheckoutStatus, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("stripe secret key is not configured")
	}

	resp, err := s.client.R().
		SetBasicAuth(s.apiKey, "").
		Get(stripeApiBase + "/checkout/sessions/" + sessionID)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("stripe error %d: %s", resp.StatusCode(), resp.String())
	}

	var session struct {
		ID            string            `json:"id"`
		PaymentStatus string            `json:"payment_status"`
		Metadata      map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return nil, fmt.Errorf("invalid stripe response: %w", err)
	}

	return &CheckoutStatus{
		SessionID:     session.ID,
		PaymentStatus: session.PaymentStatus,
		Metadata:      session.Metadata,
	}, nil
}

// ConnectOAuthURL builds the Stripe Connect onboarding URL for an instructor.
func (s *StripeClient) ConnectOAuthURL(state string) string {
	return fmt.Sprintf(
		"https://connect.stripe.com/oauth/authorize?response_type=code&client_id=%s&scope=read_write&state=%s",
		config.AppConfig.StripeClientID, state,
	)
}

// ExchangeOAuthCode swaps a Connect authorization code for the connected
// account id.
func (s *StripeClient) ExchangeOAuthCode(code string) (string, error) {
	resp, err := s.client.R().
		SetBasicAuth(s.apiKey, "").
		SetFormData(map[string]string{
			"grant_type": "authorization_code",
			"code":       code,
		}).
		Post("https://connect.stripe.com/oauth/token")
	if err != nil {
		return "", fmt.Errorf("stripe oauth request failed: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return "", fmt.Errorf("stripe oauth error %d: %s", resp.StatusCode(), resp.String())
	}

	var token struct {
		StripeUserID string `json:"stripe_user_id"`
	}
	if err := json.Unmarshal(resp.Body(), &token); err != nil {
		return "", fmt.Errorf("invalid stripe oauth response: %w", err)
	}

	return token.StripeUserID, nil
}

// WebhookEvent is the subset of a Stripe event the confirmation path uses.
type WebhookEvent struct {
	Type    string `json:"type"`
	Data    struct {
		Object struct {
			ID            string            `json:"id"`
			PaymentStatus string            `json:"payment_status"`
			Metadata      map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// VerifyWebhook checks the Stripe-Signature header against the payload and
// parses the event. The signature scheme is HMAC-SHA256 over "<t>.<payload>".
func VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	secret := config.AppConfig.StripeWebhookSecret
	if secret == "" {
		return nil, fmt.Errorf("stripe webhook secret is not configured")
	}

	var timestamp, signature string
	for _, part := range strings.Split(signatureHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signature = kv[1]
		}
	}
	if timestamp == "" || signature == "" {
		return nil, fmt.Errorf("malformed signature header")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, fmt.Errorf("signature verification failed")
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}

	return &event, nil
}
