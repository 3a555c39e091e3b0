package model

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// =====================================================
// PAY REQUEST
// =====================================================

// PayRequest starts an STK push. Without a celebrity slug the charge is
// submitted without recording feature state.
type PayRequest struct {
	Phone         string          `json:"phone"`
	Amount        decimal.Decimal `json:"amount"`
	CelebritySlug string          `json:"celebrity_slug"`
	PaymentRef    string          `json:"payment_ref"`
}

var paymentRefRegex = regexp.MustCompile(`^[A-Za-z0-9-]{1,40}$`)

func (r PayRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Phone,
			validation.Required.Error("phone is required"),
			validation.By(func(interface{}) error {
				if _, ok := NormalizePhone(r.Phone); !ok {
					return errors.New("must be a Safaricom number such as 0712345678 or 254712345678")
				}
				return nil
			}),
		),
		validation.Field(&r.Amount, validation.By(func(interface{}) error {
			if !r.Amount.IsPositive() {
				return errors.New("must be greater than zero")
			}
			return nil
		})),
		validation.Field(&r.CelebritySlug, validation.Length(0, 200)),
		validation.Field(&r.PaymentRef, validation.Match(paymentRefRegex).Error("must be 1-40 letters, digits or hyphens")),
	)
}

var msisdnRegex = regexp.MustCompile(`^254[17][0-9]{8}$`)

// NormalizePhone converts local formats (07.., 7.., +254..) to the 2547XXXXXXXX
// form the gateway expects
func NormalizePhone(raw string) (string, bool) {
	p := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	p = strings.TrimPrefix(p, "+")
	switch {
	case strings.HasPrefix(p, "0") && len(p) == 10:
		p = "254" + p[1:]
	case len(p) == 9:
		p = "254" + p
	}
	return p, msisdnRegex.MatchString(p)
}
