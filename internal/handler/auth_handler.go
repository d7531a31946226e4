package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/warung_api/internal/middleware"
	"github.com/GTDGit/warung_api/internal/models"
	"github.com/GTDGit/warung_api/internal/service"
	"github.com/GTDGit/warung_api/internal/utils"
)

// AuthService is what AuthHandler needs from the auth service.
type AuthService interface {
	Register(ctx context.Context, req service.RegisterRequest) (*service.RegisterResult, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, sess models.Session) error
	Me(ctx context.Context, sess models.Session) (*service.Profile, error)
}

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	auth         AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Registration successful", res)
}

// Login handles POST /api/auth/login and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, res.Token, int(time.Until(res.ExpiresAt).Seconds()), "/", "", h.secureCookie, true)
	utils.Success(c, http.StatusOK, "Login successful", gin.H{
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"user":      res.User,
		"storeId":   res.User.StoreID,
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), currentSession(c)); err != nil {
		log.Warn().Err(err).Msg("failed to revoke token")
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", h.secureCookie, true)
	utils.Success(c, http.StatusOK, "Logged out", nil)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.auth.Me(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Profile retrieved", profile)
}
