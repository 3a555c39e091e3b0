package mpesa

import "time"

// =====================================================
// MPESA CONFIGURATION
// =====================================================

type Config struct {
	BaseURL         string // https://sandbox.safaricom.co.ke
	ConsumerKey     string
	ConsumerSecret  string
	Passkey         string
	Shortcode       string
	CallbackURL     string
	TransactionDesc string
	Timeout         time.Duration // HTTP client timeout, 30s when zero
}

func (c *Config) TokenURL() string {
	return c.BaseURL + "/oauth/v1/generate?grant_type=client_credentials"
}

func (c *Config) STKPushURL() string {
	return c.BaseURL + "/mpesa/stkpush/v1/processrequest"
}

const (
	TransactionTypePayBill = "CustomerPayBillOnline"
	TimestampLayout        = "20060102150405"

	tokenCacheKey = "mpesa:access_token"
	// Tokens are refreshed this long before the gateway expires them
	tokenExpirySlack = 60 * time.Second
	defaultTimeout   = 30 * time.Second
)
