package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"celebhub-backend/internal/domains/payment/model"
	"celebhub-backend/internal/domains/payment/service"
	"celebhub-backend/internal/shared/response"
)

type PaymentHandler struct {
	initiation    service.InitiationService
	reconciler    service.Reconciler
	callbackToken string
}

// NewPaymentHandler creates the payment handler. An empty callbackToken
// accepts callbacks from any caller.
func NewPaymentHandler(
	initiation service.InitiationService,
	reconciler service.Reconciler,
	callbackToken string,
) *PaymentHandler {
	return &PaymentHandler{
		initiation:    initiation,
		reconciler:    reconciler,
		callbackToken: callbackToken,
	}
}

// Pay starts an STK push for the session's user
// POST /api/v1/pay
func (h *PaymentHandler) Pay(c *gin.Context) {
	var req model.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	ack, err := h.initiation.Initiate(c.Request.Context(), req)
	if err != nil {
		status := model.ToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			c.Error(err)
		}
		response.Error(c, status, model.ToErrorCode(err), err.Error())
		return
	}

	// The gateway acknowledgement is passed through unwrapped
	c.JSON(http.StatusOK, ack)
}

// Callback receives the asynchronous STK result. The gateway always gets the
// acceptance body; problems are only logged.
// POST /api/v1/mpesa/callback
func (h *PaymentHandler) Callback(c *gin.Context) {
	if !h.authorized(c) {
		log.Warn().Str("ip", c.ClientIP()).Msg("callback rejected: bad token")
		c.JSON(http.StatusOK, model.CallbackAck)
		return
	}

	var payload model.CallbackPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warn().Err(err).Msg("malformed payment callback")
		c.JSON(http.StatusOK, model.CallbackAck)
		return
	}

	outcome, err := h.reconciler.Reconcile(c.Request.Context(), payload)
	if err != nil {
		log.Error().Err(err).
			Str("checkout_request_id", payload.Callback().CheckoutRequestID).
			Msg("payment callback processing failed")
	} else {
		log.Debug().Str("outcome", string(outcome)).Msg("payment callback processed")
	}

	c.JSON(http.StatusOK, model.CallbackAck)
}

func (h *PaymentHandler) authorized(c *gin.Context) bool {
	if h.callbackToken == "" {
		return true
	}
	got := c.Query("token")
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.callbackToken)) == 1
}
