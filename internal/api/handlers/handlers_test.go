package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lunaria-app/lunaria/internal/api/handlers"
	"github.com/lunaria-app/lunaria/internal/api/router"
	"github.com/lunaria-app/lunaria/internal/config"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/validator"
	"github.com/lunaria-app/lunaria/internal/providers"
	"github.com/lunaria-app/lunaria/internal/repository/memory"
	"github.com/lunaria-app/lunaria/internal/services"
)

type testApp struct {
	store   *memory.Store
	handler http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			FrontendURL: "http://localhost:5173",
			Environment: "test",
		},
		Auth: config.AuthConfig{
			SessionSecret: "test-secret",
			SessionTTL:    time.Hour,
			BCryptCost:    bcrypt.MinCost,
			ResetTokenTTL: time.Hour,
		},
	}

	store := memory.New()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	val := validator.New()
	generator := providers.NewOpenAIGenerator("")
	mailer := providers.NewSMTPMailer(config.SMTPConfig{}, log)
	processor := &stubProcessor{}

	userSvc := services.NewUserService(store.Users(), store.Sessions(), mailer, cfg.Auth, cfg.Server.FrontendURL, log)
	questionnaireSvc := services.NewQuestionnaireService(store.Questionnaires(), store.Readings(), generator, log)
	readingSvc := services.NewReadingService(store.Readings(), store.Questionnaires(), generator, log)
	paymentSvc := services.NewPaymentService(store.Payments(), store.Users(), processor, 999, log)
	insightSvc := services.NewInsightService(store.Insights(), generator, log)
	statsSvc := services.NewStatsService(store.Users(), store.Payments(), store.Readings())

	h := &router.Handlers{
		Health:        handlers.NewHealthHandler(nil, log),
		Auth:          handlers.NewAuthHandler(userSvc, cfg, log, val),
		Questionnaire: handlers.NewQuestionnaireHandler(questionnaireSvc, log, val),
		Reading:       handlers.NewReadingHandler(readingSvc, log, val),
		Payment:       handlers.NewPaymentHandler(paymentSvc, log, val),
		Insight:       handlers.NewInsightHandler(insightSvc, log),
		Admin:         handlers.NewAdminHandler(userSvc, questionnaireSvc, paymentSvc, insightSvc, statsSvc, log, val),
	}

	return &testApp{
		store:   store,
		handler: router.New(cfg, log, userSvc, h),
	}
}

// stubProcessor satisfies the payment-processor interface without network.
type stubProcessor struct{}

func (stubProcessor) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*providers.PaymentIntent, error) {
	return &providers.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret", Amount: amountCents, Currency: currency}, nil
}

func (stubProcessor) CreateCustomer(ctx context.Context, email, name string) (*providers.Customer, error) {
	return &providers.Customer{ID: "cus_1", Email: email}, nil
}

func (stubProcessor) CreateSubscription(ctx context.Context, customerID string, amountCents int64, metadata map[string]string) (*providers.Subscription, error) {
	sub := &providers.Subscription{ID: "sub_1", Status: "incomplete", ClientSecret: "sub_secret"}
	sub.LatestInvoice.PaymentIntent = providers.PaymentIntent{ID: "pi_sub_1", ClientSecret: "sub_secret"}
	return sub, nil
}

func (stubProcessor) GetSubscription(ctx context.Context, subscriptionID string) (*providers.Subscription, error) {
	return &providers.Subscription{ID: subscriptionID, Status: "active"}, nil
}

func (stubProcessor) VerifyWebhook(payload []byte, signatureHeader string) (*providers.WebhookEvent, error) {
	var event providers.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "lunaria_session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func (a *testApp) register(t *testing.T, username, email, password string) *http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	cookie := app.register(t, "luna", "luna@example.com", "password123")

	// The fresh session works.
	rec := app.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d, body %s", rec.Code, rec.Body.String())
	}
	var me struct {
		User *struct {
			Username     string `json:"username"`
			Email        string `json:"email"`
			PasswordHash string `json:"passwordHash"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.User == nil {
		t.Fatalf("me payload missing user key: %s", rec.Body.String())
	}
	if me.User.Username != "luna" || me.User.Email != "luna@example.com" {
		t.Errorf("me = %+v", me.User)
	}
	if me.User.PasswordHash != "" {
		t.Error("password hash leaked in /api/auth/me")
	}

	// Login issues a new session.
	rec = app.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "LUNA@example.com", // addresses are case-insensitive
		"password": "password123",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	loginCookie := sessionCookie(t, rec)

	// Logout revokes the session it was called with.
	rec = app.do(t, http.MethodPost, "/api/auth/logout", nil, loginCookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	rec = app.do(t, http.MethodGet, "/api/auth/me", nil, loginCookie)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me after logout status = %d, want 401", rec.Code)
	}

	// The first session is untouched.
	rec = app.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Errorf("original session status = %d, want 200", rec.Code)
	}
}

func TestAuth_Rejections(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "luna", "luna@example.com", "password123")

	tests := []struct {
		name string
		path string
		body map[string]string
		want int
	}{
		{"wrong password", "/api/auth/login", map[string]string{"email": "luna@example.com", "password": "nope"}, http.StatusUnauthorized},
		{"unknown email", "/api/auth/login", map[string]string{"email": "x@example.com", "password": "password123"}, http.StatusUnauthorized},
		{"short password", "/api/auth/register", map[string]string{"username": "other", "email": "o@example.com", "password": "short"}, http.StatusBadRequest},
		{"bad email", "/api/auth/register", map[string]string{"username": "other", "email": "not-an-email", "password": "password123"}, http.StatusBadRequest},
		{"duplicate email", "/api/auth/register", map[string]string{"username": "other", "email": "luna@example.com", "password": "password123"}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, tt.path, tt.body, nil)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestSessionRequired(t *testing.T) {
	app := newTestApp(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/readings"},
		{http.MethodPost, "/api/questionnaire"},
		{http.MethodGet, "/api/payments"},
		{http.MethodGet, "/api/admin/stats"},
	}

	for _, tt := range paths {
		t.Run(tt.path, func(t *testing.T) {
			rec := app.do(t, tt.method, tt.path, nil, nil)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}

	// A forged cookie is rejected too.
	forged := &http.Cookie{Name: "lunaria_session", Value: "deadbeef.deadbeef"}
	rec := app.do(t, http.MethodGet, "/api/auth/me", nil, forged)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("forged cookie status = %d, want 401", rec.Code)
	}
}

func validQuestionnaire() map[string]interface{} {
	return map[string]interface{}{
		"birthDate":    "1993-06-21",
		"birthTime":    "04:15",
		"birthCity":    "Lisbon",
		"birthCountry": "Portugal",
		"zodiacSign":   "cancer",
	}
}

func TestQuestionnaireFlow(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "luna", "luna@example.com", "password123")

	rec := app.do(t, http.MethodGet, "/api/questionnaire", nil, cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("latest before submit status = %d, want 404", rec.Code)
	}

	rec = app.do(t, http.MethodPost, "/api/questionnaire", validQuestionnaire(), cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body %s", rec.Code, rec.Body.String())
	}
	var submitted struct {
		Questionnaire struct {
			ID int64 `json:"id"`
		} `json:"questionnaire"`
		Reading *struct {
			ID          int64  `json:"id"`
			ReadingType string `json:"readingType"`
		} `json:"reading"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	if submitted.Questionnaire.ID == 0 {
		t.Error("no questionnaire in response")
	}
	if submitted.Reading == nil || submitted.Reading.ReadingType != "birth_chart" {
		t.Errorf("reading = %+v", submitted.Reading)
	}

	rec = app.do(t, http.MethodGet, "/api/questionnaire", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Errorf("latest after submit status = %d", rec.Code)
	}
	var latest struct {
		Questionnaire *struct {
			ID int64 `json:"id"`
		} `json:"questionnaire"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &latest); err != nil {
		t.Fatalf("decode latest: %v", err)
	}
	if latest.Questionnaire == nil || latest.Questionnaire.ID != submitted.Questionnaire.ID {
		t.Errorf("latest = %+v, want questionnaire %d", latest.Questionnaire, submitted.Questionnaire.ID)
	}

	// Bad zodiac sign is rejected by validation.
	bad := validQuestionnaire()
	bad["zodiacSign"] = "ophiuchus"
	rec = app.do(t, http.MethodPost, "/api/questionnaire", bad, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad sign status = %d, want 400", rec.Code)
	}
}

func TestReadingOwnership(t *testing.T) {
	app := newTestApp(t)
	owner := app.register(t, "luna", "luna@example.com", "password123")
	stranger := app.register(t, "mars", "mars@example.com", "password123")

	rec := app.do(t, http.MethodPost, "/api/questionnaire", validQuestionnaire(), owner)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d", rec.Code)
	}
	var submitted struct {
		Reading struct {
			ID int64 `json:"id"`
		} `json:"reading"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode submit: %v", err)
	}

	path := fmt.Sprintf("/api/readings/%d", submitted.Reading.ID)
	rec = app.do(t, http.MethodGet, path, nil, owner)
	if rec.Code != http.StatusOK {
		t.Errorf("owner get status = %d", rec.Code)
	}

	rec = app.do(t, http.MethodGet, path, nil, stranger)
	if rec.Code != http.StatusNotFound {
		t.Errorf("stranger get status = %d, want 404", rec.Code)
	}

	rec = app.do(t, http.MethodGet, "/api/readings", nil, stranger)
	if rec.Code != http.StatusOK {
		t.Fatalf("stranger list status = %d", rec.Code)
	}
	var list struct {
		Readings []interface{} `json:"readings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Readings == nil {
		t.Fatalf("list payload missing readings array: %s", rec.Body.String())
	}
	if len(list.Readings) != 0 {
		t.Errorf("stranger sees %d readings, want 0", len(list.Readings))
	}
}

func TestPaymentEndpoints(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "luna", "luna@example.com", "password123")

	rec := app.do(t, http.MethodPost, "/api/create-payment-intent", map[string]interface{}{
		"amount": 19.99,
	}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("create intent status = %d, body %s", rec.Code, rec.Body.String())
	}
	var intent struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &intent); err != nil {
		t.Fatalf("decode intent: %v", err)
	}
	if intent.ClientSecret == "" {
		t.Error("no client secret")
	}

	rec = app.do(t, http.MethodPost, "/api/create-payment-intent", map[string]interface{}{
		"amount": -5,
	}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative amount status = %d, want 400", rec.Code)
	}

	rec = app.do(t, http.MethodPost, "/api/get-or-create-subscription", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("subscription status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = app.do(t, http.MethodGet, "/api/payments", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("payments status = %d", rec.Code)
	}
	var payments []struct {
		Amount      float64 `json:"amount"`
		PaymentType string  `json:"paymentType"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payments); err != nil {
		t.Fatalf("decode payments: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("payments = %d, want 2", len(payments))
	}
	// Amounts come back in dollars.
	found := false
	for _, p := range payments {
		if p.PaymentType == "one_time" && p.Amount == 19.99 {
			found = true
		}
	}
	if !found {
		t.Errorf("one-time 19.99 payment not in %+v", payments)
	}
}

func TestWebhook(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "luna", "luna@example.com", "password123")

	rec := app.do(t, http.MethodPost, "/api/get-or-create-subscription", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("subscription status = %d", rec.Code)
	}

	event := map[string]interface{}{
		"id":   "evt_1",
		"type": "payment_intent.succeeded",
		"data": map[string]interface{}{
			"object": map[string]interface{}{"id": "pi_sub_1"},
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", bytes.NewReader(mustJSON(t, event)))
	req.Header.Set("Stripe-Signature", "t=1,v1=stub")
	w := httptest.NewRecorder()
	app.handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("webhook status = %d, body %s", w.Code, w.Body.String())
	}

	// The subscription is now active on the profile.
	rec = app.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	var me struct {
		User struct {
			SubscriptionStatus string `json:"subscriptionStatus"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.User.SubscriptionStatus != "active" {
		t.Errorf("subscription status = %q, want active", me.User.SubscriptionStatus)
	}
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func TestDailyInsightPublic(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/daily-insight", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("daily insight with none published status = %d, want 404", rec.Code)
	}

	admin := app.makeAdmin(t, "root", "root@example.com")
	rec = app.do(t, http.MethodPost, "/api/admin/daily-insights", map[string]interface{}{
		"title":    "Today's Cosmic Insight",
		"content":  "Mercury steadies.",
		"isActive": true,
	}, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create insight status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = app.do(t, http.MethodGet, "/api/daily-insight", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("daily insight status = %d", rec.Code)
	}
	var daily struct {
		Insight *struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"insight"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &daily); err != nil {
		t.Fatalf("decode insight: %v", err)
	}
	if daily.Insight == nil || daily.Insight.Content != "Mercury steadies." {
		t.Errorf("insight = %+v", daily.Insight)
	}
}

// makeAdmin registers a user and flips the admin flag in the store.
func (a *testApp) makeAdmin(t *testing.T, username, email string) *http.Cookie {
	t.Helper()
	cookie := a.register(t, username, email, "password123")

	u, err := a.store.Users().GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if err := a.store.Users().SetAdmin(context.Background(), u.ID, true); err != nil {
		t.Fatalf("SetAdmin() error = %v", err)
	}
	return cookie
}

func TestAdminAccess(t *testing.T) {
	app := newTestApp(t)
	member := app.register(t, "luna", "luna@example.com", "password123")
	admin := app.makeAdmin(t, "root", "root@example.com")

	rec := app.do(t, http.MethodGet, "/api/admin/stats", nil, member)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member stats status = %d, want 403", rec.Code)
	}

	rec = app.do(t, http.MethodGet, "/api/admin/stats", nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin stats status = %d, body %s", rec.Code, rec.Body.String())
	}
	var stats map[string]json.Number
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if got := stats["totalUsers"].String(); got != "2" {
		t.Errorf("totalUsers = %s, want 2", got)
	}
	for _, key := range []string{"subscriptions", "monthlyRevenue", "readingsGenerated"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("stats payload missing %q: %s", key, rec.Body.String())
		}
	}

	rec = app.do(t, http.MethodGet, "/api/admin/users?page=1&page_size=10", nil, admin)
	if rec.Code != http.StatusOK {
		t.Errorf("admin users status = %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := app.do(t, http.MethodGet, path, nil, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}
