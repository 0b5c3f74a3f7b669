package providers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func signWebhook(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestStripeClient_VerifyWebhook(t *testing.T) {
	const secret = "whsec_test"
	client := NewStripeClient("sk_test", secret)
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)
	now := time.Now().Unix()

	event, err := client.VerifyWebhook(payload, signWebhook(secret, now, payload))
	if err != nil {
		t.Fatalf("VerifyWebhook() error = %v", err)
	}
	if event.Type != "payment_intent.succeeded" {
		t.Errorf("event type = %q", event.Type)
	}
}

func TestStripeClient_VerifyWebhook_Rejections(t *testing.T) {
	const secret = "whsec_test"
	client := NewStripeClient("sk_test", secret)
	payload := []byte(`{"id":"evt_1","type":"x"}`)
	now := time.Now().Unix()

	tests := []struct {
		name   string
		header string
	}{
		{"wrong secret", signWebhook("whsec_other", now, payload)},
		{"tampered payload", signWebhook(secret, now, []byte(`{"id":"evt_2"}`))},
		{"stale timestamp", signWebhook(secret, now-600, payload)},
		{"future garbage timestamp", "t=notanumber,v1=" + hex.EncodeToString(make([]byte, 32))},
		{"missing signature", fmt.Sprintf("t=%d", now)},
		{"missing timestamp", "v1=deadbeef"},
		{"empty header", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.VerifyWebhook(payload, tt.header); err == nil {
				t.Error("VerifyWebhook() accepted a bad signature")
			}
		})
	}
}

func TestStripeClient_VerifyWebhook_NoSecret(t *testing.T) {
	client := NewStripeClient("sk_test", "")
	if _, err := client.VerifyWebhook([]byte("{}"), "t=1,v1=ab"); err == nil {
		t.Error("VerifyWebhook() accepted an event without a configured secret")
	}
}

func TestStripeClient_CreatePaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payment_intents" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("authorization = %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if got := r.PostForm.Get("amount"); got != "1999" {
			t.Errorf("amount = %q", got)
		}
		if got := r.PostForm.Get("metadata[user_id]"); got != "42" {
			t.Errorf("metadata[user_id] = %q", got)
		}
		fmt.Fprint(w, `{"id":"pi_1","client_secret":"pi_1_secret","amount":1999,"currency":"usd","status":"requires_payment_method"}`)
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test", "")
	client.baseURL = srv.URL

	pi, err := client.CreatePaymentIntent(context.Background(), 1999, "usd", map[string]string{"user_id": "42"})
	if err != nil {
		t.Fatalf("CreatePaymentIntent() error = %v", err)
	}
	if pi.ID != "pi_1" || pi.ClientSecret != "pi_1_secret" {
		t.Errorf("intent = %+v", pi)
	}
}

func TestStripeClient_CreateSubscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if got := r.PostForm.Get("customer"); got != "cus_1" {
			t.Errorf("customer = %q", got)
		}
		if got := r.PostForm.Get("payment_behavior"); got != "default_incomplete" {
			t.Errorf("payment_behavior = %q", got)
		}
		if got := r.PostForm.Get("items[0][price_data][unit_amount]"); got != strconv.Itoa(999) {
			t.Errorf("unit_amount = %q", got)
		}
		fmt.Fprint(w, `{"id":"sub_1","status":"incomplete","latest_invoice":{"payment_intent":{"id":"pi_1","client_secret":"pi_1_secret"}}}`)
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test", "")
	client.baseURL = srv.URL

	sub, err := client.CreateSubscription(context.Background(), "cus_1", 999, map[string]string{"user_id": "42"})
	if err != nil {
		t.Fatalf("CreateSubscription() error = %v", err)
	}
	if sub.ID != "sub_1" {
		t.Errorf("sub ID = %q", sub.ID)
	}
	if sub.ClientSecret != "pi_1_secret" {
		t.Errorf("client secret = %q, want lifted from latest invoice", sub.ClientSecret)
	}
}

func TestStripeClient_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":{"message":"Your card was declined."}}`)
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test", "")
	client.baseURL = srv.URL

	if _, err := client.CreatePaymentIntent(context.Background(), 100, "usd", nil); err == nil {
		t.Error("CreatePaymentIntent() error = nil, want upstream error")
	}
}
