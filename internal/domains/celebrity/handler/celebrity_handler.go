package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"celebhub-backend/internal/domains/celebrity/model"
	"celebhub-backend/internal/domains/celebrity/service"
	"celebhub-backend/internal/shared/response"
	"celebhub-backend/internal/shared/utils"
)

type CelebrityHandler struct {
	service      service.Service
	maxPhotoSize int64
}

func NewCelebrityHandler(svc service.Service, maxPhotoSize int64) *CelebrityHandler {
	return &CelebrityHandler{
		service:      svc,
		maxPhotoSize: maxPhotoSize,
	}
}

// =====================================================
// PUBLIC ENDPOINTS
// =====================================================

// ListFeatured returns featured profiles, newest first
// GET /api/v1/celebrities/featured?q=
func (h *CelebrityHandler) ListFeatured(c *gin.Context) {
	rows, err := h.service.ListFeatured(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.SuccessList(c, h.render(rows), len(rows))
}

// List returns every profile, newest first
// GET /api/v1/celebrities?q=
func (h *CelebrityHandler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context(), model.ListFilter{Query: c.Query("q")})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.SuccessList(c, h.render(rows), len(rows))
}

// GetBySlug
// GET /api/v1/celebrities/:slug
func (h *CelebrityHandler) GetBySlug(c *gin.Context) {
	celeb, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "OK", celeb.ToResponse(h.service.PhotoURL))
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// Create
// POST /admin/celebrities (multipart)
func (h *CelebrityHandler) Create(c *gin.Context) {
	req, photo, ok := h.bindForm(c)
	if !ok {
		return
	}

	celeb, err := h.service.Create(c.Request.Context(), req, photo)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Celebrity created", celeb.ToResponse(h.service.PhotoURL))
}

// Update
// PUT /admin/celebrities/:id (multipart)
func (h *CelebrityHandler) Update(c *gin.Context) {
	req, photo, ok := h.bindForm(c)
	if !ok {
		return
	}

	celeb, err := h.service.Update(c.Request.Context(), c.Param("id"), req, photo)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Celebrity updated", celeb.ToResponse(h.service.PhotoURL))
}

// Delete
// DELETE /admin/celebrities/:id
func (h *CelebrityHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Celebrity deleted", nil)
}

// GrantFeature
// POST /admin/celebrities/:id/feature
func (h *CelebrityHandler) GrantFeature(c *gin.Context) {
	celeb, err := h.service.GrantFeature(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Feature granted", celeb.ToResponse(h.service.PhotoURL))
}

// RevokeFeature
// DELETE /admin/celebrities/:id/feature
func (h *CelebrityHandler) RevokeFeature(c *gin.Context) {
	celeb, err := h.service.RevokeFeature(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Feature revoked", celeb.ToResponse(h.service.PhotoURL))
}

// =====================================================
// HELPERS
// =====================================================

func (h *CelebrityHandler) bindForm(c *gin.Context) (model.CelebrityRequest, []byte, bool) {
	var req model.CelebrityRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return req, nil, false
	}

	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return req, nil, false
	}

	photo, err := utils.ReadFormFile(c, "photo", h.maxPhotoSize)
	if err != nil {
		if errors.Is(err, utils.ErrUploadTooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "INVALID_PHOTO", err.Error())
		} else {
			response.Error(c, http.StatusBadRequest, "INVALID_PHOTO", err.Error())
		}
		return req, nil, false
	}

	return req, photo, true
}

func (h *CelebrityHandler) render(rows []*model.Celebrity) []model.CelebrityResponse {
	out := make([]model.CelebrityResponse, len(rows))
	for i, celeb := range rows {
		out[i] = celeb.ToResponse(h.service.PhotoURL)
	}
	return out
}

func (h *CelebrityHandler) fail(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		c.Error(err)
	}
	response.Error(c, status, model.ToErrorCode(err), err.Error())
}
