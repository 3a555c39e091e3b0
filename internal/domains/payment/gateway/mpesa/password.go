package mpesa

import (
	"encoding/base64"
	"time"
)

// Timestamp formats t the way the gateway signs requests
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Password is base64(shortcode + passkey + timestamp)
func Password(shortcode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + timestamp))
}
