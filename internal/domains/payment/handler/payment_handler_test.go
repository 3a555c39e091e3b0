package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	celebModel "celebhub-backend/internal/domains/celebrity/model"
	"celebhub-backend/internal/domains/payment/model"
	"celebhub-backend/internal/domains/payment/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubInitiation struct {
	ack map[string]interface{}
	err error
	got *model.PayRequest
}

func (s *stubInitiation) Initiate(_ context.Context, req model.PayRequest) (map[string]interface{}, error) {
	s.got = &req
	return s.ack, s.err
}

type stubReconciler struct {
	calls []model.CallbackPayload
	err   error
}

func (s *stubReconciler) Reconcile(_ context.Context, p model.CallbackPayload) (service.Outcome, error) {
	s.calls = append(s.calls, p)
	return service.OutcomePaid, s.err
}

func newRouter(h *PaymentHandler) *gin.Engine {
	r := gin.New()
	r.POST("/api/v1/pay", h.Pay)
	r.POST("/api/v1/mpesa/callback", h.Callback)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func assertAck(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["ResultCode"])
	assert.Equal(t, "Accepted", body["ResultDesc"])
}

const okCallback = `{"Body":{"stkCallback":{"CheckoutRequestID":"ws_1","ResultCode":0,
"CallbackMetadata":{"Item":[{"Name":"AccountReference","Value":"ref-1"}]}}}}`

func TestPay(t *testing.T) {
	initiation := &stubInitiation{ack: map[string]interface{}{"CheckoutRequestID": "ws_1", "payment_ref": "ref-1"}}
	r := newRouter(NewPaymentHandler(initiation, &stubReconciler{}, ""))

	w := post(r, "/api/v1/pay", `{"phone":"0712345678","amount":"500","celebrity_slug":"diamond"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ws_1", body["CheckoutRequestID"])
	assert.Equal(t, "ref-1", body["payment_ref"])
	assert.NotContains(t, body, "success")
	require.NotNil(t, initiation.got)
	assert.Equal(t, "diamond", initiation.got.CelebritySlug)
	assert.Equal(t, "500", initiation.got.Amount.String())
}

func TestPay_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"malformed json", `{"phone":`, nil, http.StatusBadRequest},
		{"invalid phone", `{"phone":"123","amount":500}`, nil, http.StatusBadRequest},
		{"gateway down", `{"phone":"0712345678","amount":500}`,
			&model.GatewayError{Op: "token", Err: errors.New("dial tcp: refused")}, http.StatusBadGateway},
		{"already featured", `{"phone":"0712345678","amount":500,"celebrity_slug":"x"}`,
			celebModel.ErrFeatureActive, http.StatusConflict},
		{"unknown celebrity", `{"phone":"0712345678","amount":500,"celebrity_slug":"x"}`,
			celebModel.ErrCelebrityNotFound, http.StatusNotFound},
		{"reference owned by another entry", `{"phone":"0712345678","amount":500,"celebrity_slug":"x","payment_ref":"r"}`,
			model.ErrDuplicateRef, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(NewPaymentHandler(&stubInitiation{err: tt.err}, &stubReconciler{}, ""))
			w := post(r, "/api/v1/pay", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestCallback_Processes(t *testing.T) {
	rec := &stubReconciler{}
	r := newRouter(NewPaymentHandler(&stubInitiation{}, rec, ""))

	assertAck(t, post(r, "/api/v1/mpesa/callback", okCallback))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "ref-1", rec.calls[0].Callback().Reference())
}

func TestCallback_AlwaysAcknowledges(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		rec := &stubReconciler{}
		r := newRouter(NewPaymentHandler(&stubInitiation{}, rec, ""))

		assertAck(t, post(r, "/api/v1/mpesa/callback", `not json`))
		assert.Empty(t, rec.calls)
	})

	t.Run("store failure", func(t *testing.T) {
		rec := &stubReconciler{err: errors.New("store unavailable")}
		r := newRouter(NewPaymentHandler(&stubInitiation{}, rec, ""))

		assertAck(t, post(r, "/api/v1/mpesa/callback", okCallback))
		assert.Len(t, rec.calls, 1)
	})
}

func TestCallback_Token(t *testing.T) {
	rec := &stubReconciler{}
	r := newRouter(NewPaymentHandler(&stubInitiation{}, rec, "s3cret"))

	assertAck(t, post(r, "/api/v1/mpesa/callback", okCallback))
	assertAck(t, post(r, "/api/v1/mpesa/callback?token=wrong", okCallback))
	assert.Empty(t, rec.calls, "callbacks with a bad token are not processed")

	assertAck(t, post(r, "/api/v1/mpesa/callback?token=s3cret", okCallback))
	assert.Len(t, rec.calls, 1)
}
