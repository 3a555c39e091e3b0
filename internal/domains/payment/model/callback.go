package model

import (
	"fmt"
	"strconv"
	"strings"
)

// =====================================================
// STK CALLBACK PAYLOAD
// =====================================================

// CallbackPayload is the asynchronous result posted by the gateway
type CallbackPayload struct {
	Body struct {
		STKCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

type STKCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

// CallbackItem values are numbers or strings depending on the item
type CallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value,omitempty"`
}

const (
	ItemAccountReference = "AccountReference"
	ItemReceiptNumber    = "MpesaReceiptNumber"
	ItemAmount           = "Amount"
)

// ResultCodeSuccess is the only successful ResultCode
const ResultCodeSuccess = 0

func (p CallbackPayload) Callback() STKCallback {
	return p.Body.STKCallback
}

func (cb STKCallback) Succeeded() bool {
	return cb.ResultCode == ResultCodeSuccess
}

// Item returns the metadata item called name rendered as a string
func (cb STKCallback) Item(name string) string {
	if cb.CallbackMetadata == nil {
		return ""
	}
	for _, it := range cb.CallbackMetadata.Item {
		if it.Name != name || it.Value == nil {
			continue
		}
		switch v := it.Value.(type) {
		case string:
			return strings.TrimSpace(v)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// Reference is the payment reference carried back in AccountReference
func (cb STKCallback) Reference() string {
	return cb.Item(ItemAccountReference)
}

// CallbackAck is the body every callback is answered with
var CallbackAck = map[string]interface{}{
	"ResultCode": 0,
	"ResultDesc": "Accepted",
}
