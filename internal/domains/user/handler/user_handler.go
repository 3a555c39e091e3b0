package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"celebhub-backend/internal/domains/user/model"
	"celebhub-backend/internal/domains/user/service"
	"celebhub-backend/internal/shared/access"
	"celebhub-backend/internal/shared/middleware"
	"celebhub-backend/internal/shared/response"
	"celebhub-backend/pkg/jwt"
)

// CookieConfig controls how the session and CSRF cookies are written
type CookieConfig struct {
	Name   string
	Secure bool
}

// UserHandler serves signup, login and logout for both the public API and
// the admin back-office
type UserHandler struct {
	service    service.Service
	gate       *access.Gate
	jwtManager *jwt.Manager
	cookie     CookieConfig
}

func NewUserHandler(svc service.Service, gate *access.Gate, jwtManager *jwt.Manager, cookie CookieConfig) *UserHandler {
	return &UserHandler{
		service:    svc,
		gate:       gate,
		jwtManager: jwtManager,
		cookie:     cookie,
	}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Signup
// POST /api/v1/auth/signup
func (h *UserHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	u, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Account created", u.ToDTO())
}

// Login
// POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	u, ok := h.authenticate(c)
	if !ok {
		return
	}
	h.startSession(c, u, "Logged in")
}

// Logout clears the session cookies. Always succeeds.
// POST /api/v1/auth/logout, POST /admin/logout
func (h *UserHandler) Logout(c *gin.Context) {
	h.clearCookies(c)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// AdminLogin only opens a session for accounts passing the admin rule;
// other valid credentials get 403 and no cookie
// POST /admin/login
func (h *UserHandler) AdminLogin(c *gin.Context) {
	u, ok := h.authenticate(c)
	if !ok {
		return
	}

	if !h.gate.IsAdmin(u) {
		log.Warn().Str("user_id", u.ID).Msg("admin login refused")
		h.fail(c, model.ErrNotAdmin)
		return
	}
	h.startSession(c, u, "Logged in as administrator")
}

// Me returns the session's account
// GET /api/v1/auth/me
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.service.GetByID(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "OK", u.ToDTO())
}

// ========================================
// HELPERS
// ========================================

func (h *UserHandler) authenticate(c *gin.Context) (*model.User, bool) {
	var req model.LoginRequest
	if !bindAndValidate(c, &req) {
		return nil, false
	}

	u, err := h.service.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return u, true
}

func (h *UserHandler) startSession(c *gin.Context, u *model.User, message string) {
	token, err := h.jwtManager.GenerateSessionToken(u.ID, u.Username)
	if err != nil {
		c.Error(err)
		response.InternalServerError(c, "Failed to create session")
		return
	}

	csrf := middleware.NewCSRFToken()
	maxAge := int(h.jwtManager.TTL().Seconds())

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)
	// Readable by scripts so they can echo it in X-CSRF-Token
	c.SetCookie(middleware.CSRFCookie, csrf, maxAge, "/", "", h.cookie.Secure, false)

	log.Info().Str("user_id", u.ID).Msg("session started")
	response.Success(c, http.StatusOK, message, model.SessionResponse{
		User:      u.ToDTO(),
		CSRFToken: csrf,
	})
}

func (h *UserHandler) clearCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.SetCookie(middleware.CSRFCookie, "", -1, "/", "", h.cookie.Secure, false)
}

type validatable interface {
	Validate() error
}

func bindAndValidate(c *gin.Context, req validatable) bool {
	if err := c.ShouldBind(req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return false
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return false
	}
	return true
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		c.Error(err)
	}
	response.Error(c, status, model.ToErrorCode(err), err.Error())
}
