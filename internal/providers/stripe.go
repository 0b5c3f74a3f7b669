package providers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// PaymentIntent is the subset of the processor's payment-intent object the
// app uses.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// Customer is the subset of the processor's customer object the app uses.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Subscription is the subset of the processor's subscription object the app
// uses. The client secret of the first invoice's payment intent is lifted to
// the top level for the frontend.
type Subscription struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	ClientSecret  string `json:"-"`
	LatestInvoice struct {
		PaymentIntent PaymentIntent `json:"payment_intent"`
	} `json:"latest_invoice"`
}

// WebhookEvent is an incoming processor event.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// PaymentProcessor abstracts the hosted payment provider.
type PaymentProcessor interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*PaymentIntent, error)
	CreateCustomer(ctx context.Context, email, name string) (*Customer, error)
	CreateSubscription(ctx context.Context, customerID string, amountCents int64, metadata map[string]string) (*Subscription, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}

// StripeClient implements PaymentProcessor against the form-encoded HTTP API.
type StripeClient struct {
	secretKey     string
	webhookSecret string
	httpClient    *http.Client
	baseURL       string
}

// NewStripeClient creates a new processor client
func NewStripeClient(secretKey, webhookSecret string) *StripeClient {
	return &StripeClient{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: stripeAPIBase,
	}
}

// Configured reports whether a secret key is present.
func (c *StripeClient) Configured() bool { return c.secretKey != "" }

// CreatePaymentIntent creates a one-time payment intent
func (c *StripeClient) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	var pi PaymentIntent
	if err := c.post(ctx, "/payment_intents", form, &pi); err != nil {
		return nil, err
	}
	return &pi, nil
}

// CreateCustomer creates a customer record at the processor
func (c *StripeClient) CreateCustomer(ctx context.Context, email, name string) (*Customer, error) {
	form := url.Values{}
	form.Set("email", email)
	if name != "" {
		form.Set("name", name)
	}

	var cu Customer
	if err := c.post(ctx, "/customers", form, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

// CreateSubscription starts a monthly subscription billed at amountCents,
// with the first invoice left incomplete so the frontend can confirm it.
func (c *StripeClient) CreateSubscription(ctx context.Context, customerID string, amountCents int64, metadata map[string]string) (*Subscription, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}
	form.Set("items[0][price_data][currency]", "usd")
	form.Set("items[0][price_data][unit_amount]", strconv.FormatInt(amountCents, 10))
	form.Set("items[0][price_data][recurring][interval]", "month")
	form.Set("items[0][price_data][product_data][name]", "Lunaria Monthly")
	form.Set("payment_behavior", "default_incomplete")
	form.Set("expand[]", "latest_invoice.payment_intent")

	var sub Subscription
	if err := c.post(ctx, "/subscriptions", form, &sub); err != nil {
		return nil, err
	}
	sub.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
	return &sub, nil
}

// GetSubscription retrieves an existing subscription
func (c *StripeClient) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/subscriptions/"+subscriptionID+"?expand[]=latest_invoice.payment_intent", nil)
	if err != nil {
		return nil, errors.Internal("Failed to build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	var sub Subscription
	if err := c.do(req, &sub); err != nil {
		return nil, err
	}
	sub.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
	return &sub, nil
}

// VerifyWebhook checks the Stripe-Signature header against the webhook
// secret and decodes the event. The header carries a timestamp and one or
// more v1 signatures over "timestamp.payload".
func (c *StripeClient) VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	if c.webhookSecret == "" {
		return nil, errors.Unauthorized("Webhook secret not configured")
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(signatureHeader, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return nil, errors.Unauthorized("Malformed webhook signature")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil || time.Since(time.Unix(ts, 0)) > 5*time.Minute {
		return nil, errors.Unauthorized("Stale webhook signature")
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	valid := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, errors.Unauthorized("Invalid webhook signature")
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errors.BadRequest("Malformed webhook payload")
	}

	return &event, nil
}

func (c *StripeClient) post(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Internal("Failed to build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, out)
}

func (c *StripeClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Upstream("stripe", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Upstream("stripe", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(body, &apiErr)
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return errors.Upstream("stripe", fmt.Errorf("%s", msg))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Upstream("stripe", err)
	}

	return nil
}
