package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"celebhub-backend/internal/domains/submission/model"
	"celebhub-backend/internal/domains/submission/service"
	"celebhub-backend/internal/shared/response"
	"celebhub-backend/internal/shared/utils"
)

type SubmissionHandler struct {
	service      service.Service
	maxPhotoSize int64
}

func NewSubmissionHandler(svc service.Service, maxPhotoSize int64) *SubmissionHandler {
	return &SubmissionHandler{
		service:      svc,
		maxPhotoSize: maxPhotoSize,
	}
}

// Create accepts a public profile request
// POST /api/v1/submissions (multipart)
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req model.SubmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	photo, err := utils.ReadFormFile(c, "photo", h.maxPhotoSize)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, utils.ErrUploadTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		response.Error(c, status, "INVALID_PHOTO", err.Error())
		return
	}

	sub, err := h.service.Create(c.Request.Context(), req, photo)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Submission received", sub)
}

// List
// GET /admin/submissions?status=
func (h *SubmissionHandler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context(), model.Status(c.Query("status")))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.SuccessList(c, rows, len(rows))
}

// Get
// GET /admin/submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	sub, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "OK", sub)
}

// Approve
// POST /admin/submissions/:id/approve
func (h *SubmissionHandler) Approve(c *gin.Context) {
	res, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	msg := "Submission approved"
	if !res.Changed {
		msg = "Submission was already approved"
	}
	response.Success(c, http.StatusOK, msg, res)
}

// Reject
// POST /admin/submissions/:id/reject
func (h *SubmissionHandler) Reject(c *gin.Context) {
	res, err := h.service.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	msg := "Submission rejected"
	if !res.Changed {
		msg = "Submission was already rejected"
	}
	response.Success(c, http.StatusOK, msg, res)
}

func (h *SubmissionHandler) fail(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		c.Error(err)
	}
	response.Error(c, status, model.ToErrorCode(err), err.Error())
}
