package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =====================================================
// GATEWAY INTERFACE
// =====================================================

// STKGateway is the mobile-money push gateway: obtain a bearer token, build
// a charge request and submit it. The result arrives later on the callback.
type STKGateway interface {
	// AccessToken returns a bearer token, cached until shortly before expiry
	AccessToken(ctx context.Context) (string, error)

	// BuildSTKPush assembles the signed request for charge at time now
	BuildSTKPush(charge Charge, now time.Time) STKPushRequest

	// SubmitSTKPush posts req and returns the gateway's raw acknowledgement
	SubmitSTKPush(ctx context.Context, token string, req STKPushRequest) (map[string]interface{}, error)
}

// Charge is what the application asks the customer to pay
type Charge struct {
	Phone       string          // 2547XXXXXXXX
	Amount      decimal.Decimal // rounded up to whole units
	Reference   string          // AccountReference, echoed on the callback
	Description string
}

// STKPushRequest is the wire body of an STK push
type STKPushRequest struct {
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
