package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"celebhub-backend/internal/domains/onboarding/model"
	"celebhub-backend/internal/domains/onboarding/service"
	"celebhub-backend/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OnboardingHandler struct {
	service service.Service
}

func NewOnboardingHandler(svc service.Service) *OnboardingHandler {
	return &OnboardingHandler{service: svc}
}

// Create
// POST /api/v1/onboarding
func (h *OnboardingHandler) Create(c *gin.Context) {
	var req model.RegistrationRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Registration received", r)
}

// List
// GET /admin/onboarding
func (h *OnboardingHandler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.SuccessList(c, rows, len(rows))
}

// Export streams the registrations as an xlsx attachment
// GET /admin/onboarding/export
func (h *OnboardingHandler) Export(c *gin.Context) {
	f, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("onboarding-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		c.Error(err)
	}
}

func (h *OnboardingHandler) fail(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		c.Error(err)
	}
	response.Error(c, status, model.ToErrorCode(err), err.Error())
}
