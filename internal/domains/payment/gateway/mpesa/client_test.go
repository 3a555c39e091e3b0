package mpesa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"celebhub-backend/internal/domains/payment/gateway"
	"celebhub-backend/internal/domains/payment/model"
	"celebhub-backend/pkg/cache"
)

type fakeGateway struct {
	server      *httptest.Server
	tokenCalls  atomic.Int32
	mu          sync.Mutex
	lastPush    gateway.STKPushRequest
	lastAuth    string
	pushStatus  int
	pushBody    string
	tokenStatus int
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	f := &fakeGateway{
		pushStatus:  http.StatusOK,
		pushBody:    `{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_1","ResponseCode":"0","CustomerMessage":"Success"}`,
		tokenStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(f.tokenStatus)
		w.Write([]byte(`{"access_token":"tok-123","expires_in":"3599"}`))
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&f.lastPush)
		f.mu.Unlock()
		w.WriteHeader(f.pushStatus)
		w.Write([]byte(f.pushBody))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGateway) config() *Config {
	return &Config{
		BaseURL:         f.server.URL,
		ConsumerKey:     "key",
		ConsumerSecret:  "secret",
		Passkey:         "passkey",
		Shortcode:       "174379",
		CallbackURL:     "https://example.com/api/v1/mpesa/callback",
		TransactionDesc: "Featured Listing Payment",
		Timeout:         5 * time.Second,
	}
}

func TestPassword(t *testing.T) {
	ts := Timestamp(time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC))
	assert.Equal(t, "20260203040506", ts)
	// base64("174379" + "passkey" + ts)
	assert.Equal(t, "MTc0Mzc5cGFzc2tleTIwMjYwMjAzMDQwNTA2", Password("174379", "passkey", ts))
}

func TestAccessToken_CachedUntilExpiry(t *testing.T) {
	f := newFakeGateway(t)
	tokens := cache.NewMemoryCache()
	client := NewClient(f.config(), tokens)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		token, err := client.AccessToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-123", token)
	}
	assert.Equal(t, int32(1), f.tokenCalls.Load())
}

func TestAccessToken_WithoutCache(t *testing.T) {
	f := newFakeGateway(t)
	client := NewClient(f.config(), nil)

	_, err := client.AccessToken(context.Background())
	require.NoError(t, err)
	_, err = client.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.tokenCalls.Load())
}

func TestAccessToken_BadCredentials(t *testing.T) {
	f := newFakeGateway(t)
	cfg := f.config()
	cfg.ConsumerSecret = "wrong"

	_, err := NewClient(cfg, nil).AccessToken(context.Background())

	var gwErr *model.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "token", gwErr.Op)
	assert.Equal(t, http.StatusUnauthorized, gwErr.Status)
	assert.ErrorIs(t, err, model.ErrGatewayFailure)
}

func TestTokenTTL(t *testing.T) {
	assert.Equal(t, 3539*time.Second, tokenTTL("3599"))
	assert.Zero(t, tokenTTL("30"))
	assert.Zero(t, tokenTTL("soon"))
	assert.Zero(t, tokenTTL(""))
}

func TestBuildSTKPush(t *testing.T) {
	f := newFakeGateway(t)
	client := NewClient(f.config(), nil)
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	req := client.BuildSTKPush(gateway.Charge{
		Phone:     "254712345678",
		Amount:    decimal.RequireFromString("99.10"),
		Reference: "ref-1",
	}, now)

	assert.Equal(t, int64(100), req.Amount, "fractional amounts round up")
	assert.Equal(t, "174379", req.BusinessShortCode)
	assert.Equal(t, "174379", req.PartyB)
	assert.Equal(t, "254712345678", req.PartyA)
	assert.Equal(t, "254712345678", req.PhoneNumber)
	assert.Equal(t, "20260203040506", req.Timestamp)
	assert.Equal(t, Password("174379", "passkey", "20260203040506"), req.Password)
	assert.Equal(t, TransactionTypePayBill, req.TransactionType)
	assert.Equal(t, "ref-1", req.AccountReference)
	assert.Equal(t, "Featured Listing Payment", req.TransactionDesc)
	assert.Equal(t, "https://example.com/api/v1/mpesa/callback", req.CallBackURL)
}

func TestSubmitSTKPush(t *testing.T) {
	f := newFakeGateway(t)
	client := NewClient(f.config(), nil)
	ctx := context.Background()

	stk := client.BuildSTKPush(gateway.Charge{Phone: "254712345678", Amount: decimal.NewFromInt(1), Reference: "ref-1"}, time.Now())
	ack, err := client.SubmitSTKPush(ctx, "tok-123", stk)
	require.NoError(t, err)

	assert.Equal(t, "ws_CO_1", ack["CheckoutRequestID"])
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, "Bearer tok-123", f.lastAuth)
	assert.Equal(t, "ref-1", f.lastPush.AccountReference)
}

func TestSubmitSTKPush_GatewayErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non-2xx", http.StatusInternalServerError, `{"errorMessage":"boom"}`},
		{"malformed json", http.StatusOK, `<html>maintenance</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeGateway(t)
			f.pushStatus, f.pushBody = tt.status, tt.body
			client := NewClient(f.config(), nil)

			_, err := client.SubmitSTKPush(context.Background(), "tok", gateway.STKPushRequest{})

			var gwErr *model.GatewayError
			require.ErrorAs(t, err, &gwErr)
			assert.Equal(t, "stkpush", gwErr.Op)
			assert.Equal(t, tt.status, gwErr.Status)
		})
	}
}

func TestSubmitSTKPush_Unreachable(t *testing.T) {
	f := newFakeGateway(t)
	cfg := f.config()
	f.server.Close()

	_, err := NewClient(cfg, nil).SubmitSTKPush(context.Background(), "tok", gateway.STKPushRequest{})

	var gwErr *model.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Zero(t, gwErr.Status)
}
