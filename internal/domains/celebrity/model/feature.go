package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// The feature sub-record and the Featured flag are only changed through the
// methods below, which keep them consistent:
//
//	none/failed --MarkPending--> pending --MarkPaid--> paid
//	                             pending --MarkFailed--> failed
//
// Featured is true only while status is paid and Until lies in the future.

// IsActive reports whether the entry is currently featured
func (c *Celebrity) IsActive(now time.Time) bool {
	return c.Featured &&
		c.Feature.Status == FeaturePaid &&
		c.Feature.Until != nil &&
		c.Feature.Until.After(now)
}

// MarkPending records a freshly initiated payment. A pending entry may be
// re-initiated, which replaces the reference.
func (c *Celebrity) MarkPending(ref string, amount decimal.Decimal, now time.Time) error {
	if ref == "" {
		return fmt.Errorf("%w: empty payment reference", ErrInvalidTransition)
	}
	if c.IsActive(now) {
		return ErrFeatureActive
	}

	c.Featured = false
	c.Feature = Feature{
		Amount:     amount,
		Status:     FeaturePending,
		PaymentRef: ref,
	}
	c.UpdatedAt = now
	return nil
}

// MarkPaid confirms the pending payment identified by ref. Confirming an
// already paid reference is a no-op and reports changed=false, so a
// redelivered confirmation never extends Until.
func (c *Celebrity) MarkPaid(ref string, now time.Time, d time.Duration) (changed bool, err error) {
	if c.Feature.PaymentRef != ref {
		return false, ErrPaymentRefMismatch
	}

	switch c.Feature.Status {
	case FeaturePaid:
		return false, nil
	case FeaturePending:
	default:
		return false, fmt.Errorf("%w: %s -> paid", ErrInvalidTransition, c.Feature.Status)
	}

	until := now.Add(d)
	c.Featured = true
	c.Feature.Status = FeaturePaid
	c.Feature.Until = &until
	c.UpdatedAt = now
	return true, nil
}

// MarkFailed closes a pending payment as failed
func (c *Celebrity) MarkFailed(ref string, now time.Time) (changed bool, err error) {
	if c.Feature.PaymentRef != ref {
		return false, ErrPaymentRefMismatch
	}

	switch c.Feature.Status {
	case FeatureFailed:
		return false, nil
	case FeaturePending:
	default:
		return false, fmt.Errorf("%w: %s -> failed", ErrInvalidTransition, c.Feature.Status)
	}

	c.Featured = false
	c.Feature.Status = FeatureFailed
	c.Feature.Until = nil
	c.UpdatedAt = now
	return true, nil
}

// Grant features the entry without a payment (admin action). Any pending
// payment is superseded.
func (c *Celebrity) Grant(ref string, now time.Time, d time.Duration) {
	until := now.Add(d)
	c.Featured = true
	c.Feature = Feature{
		Amount:     decimal.Zero,
		Status:     FeaturePaid,
		PaymentRef: ref,
		Until:      &until,
	}
	c.UpdatedAt = now
}

// Revoke clears the feature entirely
func (c *Celebrity) Revoke(now time.Time) {
	c.Featured = false
	c.Feature = Feature{Amount: decimal.Zero, Status: FeatureNone}
	c.UpdatedAt = now
}

// Expire clears Featured once Until has passed. Status stays paid so the
// entry can be re-initiated.
func (c *Celebrity) Expire(now time.Time) bool {
	if !c.Featured || c.IsActive(now) {
		return false
	}
	c.Featured = false
	c.UpdatedAt = now
	return true
}

// CheckFeature validates the flag/sub-record combination
func (c *Celebrity) CheckFeature() error {
	switch c.Feature.Status {
	case FeatureNone, FeaturePending, FeaturePaid, FeatureFailed:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, c.Feature.Status)
	}
	if c.Featured && (c.Feature.Status != FeaturePaid || c.Feature.Until == nil) {
		return fmt.Errorf("%w: featured without a paid feature", ErrInvalidTransition)
	}
	if c.Feature.Status == FeaturePending && c.Feature.PaymentRef == "" {
		return fmt.Errorf("%w: pending without a payment reference", ErrInvalidTransition)
	}
	return nil
}
