package mpesa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"celebhub-backend/internal/domains/payment/gateway"
	"celebhub-backend/internal/domains/payment/model"
	"celebhub-backend/pkg/cache"
)

// =====================================================
// MPESA CLIENT IMPLEMENTATION
// =====================================================

type Client struct {
	config     *Config
	httpClient *http.Client
	cache      cache.Cache
}

// NewClient creates an M-Pesa client. tokens may be nil, in which case every
// charge fetches a fresh token.
func NewClient(config *Config, tokens cache.Cache) gateway.STKGateway {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		cache:      tokens,
	}
}

// =====================================================
// ACCESS TOKEN
// =====================================================

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"` // sent as a string by the sandbox
}

func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.cache != nil {
		var token string
		found, err := c.cache.Get(ctx, tokenCacheKey, &token)
		if err != nil {
			log.Warn().Err(err).Msg("[MPESA] token cache read failed")
		}
		if found && token != "" {
			return token, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.TokenURL(), nil)
	if err != nil {
		return "", &model.GatewayError{Op: "token", Err: err}
	}
	req.SetBasicAuth(c.config.ConsumerKey, c.config.ConsumerSecret)

	var body tokenResponse
	if err := c.do(req, "token", &body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", &model.GatewayError{Op: "token", Err: errors.New("response has no access_token")}
	}

	if c.cache != nil {
		if ttl := tokenTTL(body.ExpiresIn); ttl > 0 {
			if err := c.cache.Set(ctx, tokenCacheKey, body.AccessToken, ttl); err != nil {
				log.Warn().Err(err).Msg("[MPESA] token cache write failed")
			}
		}
	}
	return body.AccessToken, nil
}

// tokenTTL is expires_in minus the refresh slack; zero disables caching
func tokenTTL(expiresIn json.Number) time.Duration {
	secs, err := strconv.Atoi(expiresIn.String())
	if err != nil || secs <= 0 {
		return 0
	}
	ttl := time.Duration(secs)*time.Second - tokenExpirySlack
	if ttl < 0 {
		return 0
	}
	return ttl
}

// =====================================================
// STK PUSH
// =====================================================

func (c *Client) BuildSTKPush(charge gateway.Charge, now time.Time) gateway.STKPushRequest {
	ts := Timestamp(now)
	desc := charge.Description
	if desc == "" {
		desc = c.config.TransactionDesc
	}
	return gateway.STKPushRequest{
		BusinessShortCode: c.config.Shortcode,
		Password:          Password(c.config.Shortcode, c.config.Passkey, ts),
		Timestamp:         ts,
		TransactionType:   TransactionTypePayBill,
		Amount:            charge.Amount.Ceil().IntPart(),
		PartyA:            charge.Phone,
		PartyB:            c.config.Shortcode,
		PhoneNumber:       charge.Phone,
		CallBackURL:       c.config.CallbackURL,
		AccountReference:  charge.Reference,
		TransactionDesc:   desc,
	}
}

func (c *Client) SubmitSTKPush(ctx context.Context, token string, stk gateway.STKPushRequest) (map[string]interface{}, error) {
	payload, err := json.Marshal(stk)
	if err != nil {
		return nil, &model.GatewayError{Op: "stkpush", Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.STKPushURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, &model.GatewayError{Op: "stkpush", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	var ack map[string]interface{}
	if err := c.do(req, "stkpush", &ack); err != nil {
		return nil, err
	}

	log.Info().
		Str("reference", stk.AccountReference).
		Interface("checkout_request_id", ack["CheckoutRequestID"]).
		Msg("[MPESA] stk push accepted")
	return ack, nil
}

// do sends req and decodes a 2xx JSON body into dest. Transport errors,
// non-2xx answers and malformed JSON all become *model.GatewayError.
func (c *Client) do(req *http.Request, op string, dest interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &model.GatewayError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &model.GatewayError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &model.GatewayError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected response: %s", truncate(body, 200))}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return &model.GatewayError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
