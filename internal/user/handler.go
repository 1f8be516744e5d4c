package user

import (
	"errors"
	"net/http"

	"github.com/Minister-Isaac/Vtu-Backend/internal/account"
	"github.com/Minister-Isaac/Vtu-Backend/internal/api"
	"github.com/Minister-Isaac/Vtu-Backend/internal/auth"
	"github.com/Minister-Isaac/Vtu-Backend/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service       Service
	secureCookies bool
}

func NewHandler(service Service, secureCookies bool) *Handler {
	return &Handler{
		service:       service,
		secureCookies: secureCookies,
	}
}

// Register godoc
// @Summary      Register new user
// @Description  Creates a user and its zero-balance wallet account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "User registration data"
// @Success      201      {object}  api.MessageResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      422      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	if errs := api.ValidateStruct(req); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "all fields are required", "details": errs})
		return
	}

	_, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "user already exists"})
		case errors.Is(err, ErrUsernameExists):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "an existing account with this username is taken already"})
		default:
			logger.Errorf("Failed to register user: %v", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, api.MessageResponse{Message: "user registered successfully"})
}

// Login godoc
// @Summary      Login user
// @Description  Authenticates by username and password, sets session cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "User credentials"
// @Success      200      {object}  LoginResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      422      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	if errs := api.ValidateStruct(req); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "username and password are required", "details": errs})
		return
	}

	u, accessToken, refreshToken, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
		case errors.Is(err, ErrInvalidPassword):
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid password"})
		default:
			logger.Errorf("Failed to log in user %s: %v", req.Username, err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}

	h.setSessionCookies(c, accessToken, refreshToken)

	c.JSON(http.StatusOK, LoginResponse{
		Message:     "login successful",
		User:        *u,
		AccessToken: accessToken,
	})
}

// Logout godoc
// @Summary      Logout user
// @Description  Invalidates the refresh token and clears session cookies.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Router       /api/v1/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(auth.RefreshCookieName)

	if err := h.service.Logout(c.Request.Context(), refreshToken); err != nil {
		logger.Errorf("Failed to delete refresh token: %v", err)
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "logged out"})
}

// Refresh godoc
// @Summary      Refresh access token
// @Description  Issues a new access token from a valid refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  gin.H
// @Failure      401  {object}  api.ErrorResponse
// @Router       /api/v1/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(auth.RefreshCookieName)
	if refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "refresh token required"})
		return
	}

	accessToken, u, err := h.service.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or expired refresh token"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.AccessCookieName, accessToken, int(auth.AccessTokenTTL.Seconds()), "/", "", h.secureCookies, true)

	c.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
		"user":        u,
	})
}

// GetMe godoc
// @Summary      Get current user
// @Description  Returns the authenticated user's profile with its account.
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  gin.H
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/v1/user/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	u, a, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound), errors.Is(err, account.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
		default:
			logger.Errorf("Failed to load profile for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    u,
		"account": a,
	})
}

func (h *Handler) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.AccessCookieName, accessToken, int(auth.AccessTokenTTL.Seconds()), "/", "", h.secureCookies, true)
	c.SetCookie(auth.RefreshCookieName, refreshToken, int(auth.RefreshTokenTTL.Seconds()), "/", "", h.secureCookies, true)
}

func (h *Handler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.AccessCookieName, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(auth.RefreshCookieName, "", -1, "/", "", h.secureCookies, true)
}
