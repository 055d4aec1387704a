package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shoporders/backend/internal/application/identity"
	"github.com/shoporders/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles registration, e-mail confirmation and sessions
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// Register godoc
// @ID           registerUser
// @Summary      Register a new account
// @Description  Creates an inactive user and sends a confirmation e-mail. All fields except type are required.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body identity.RegisterRequest true "Sign-up form"
// @Success      201 {object} APIResponse[identity.RegisterResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /user/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ConfirmEmail godoc
// @ID           confirmUserEmail
// @Summary      Confirm an e-mail address
// @Description  Activates the account when the token matches and has not expired
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body identity.ConfirmEmailRequest true "E-mail and token"
// @Success      200 {object} APIResponse[MessageResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /user/register/confirm [post]
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var req identity.ConfirmEmailRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.authService.ConfirmEmail(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "E-mail confirmed"})
}

// Login godoc
// @ID           loginUser
// @Summary      Log in
// @Description  Exchanges e-mail and password of an active account for a token pair
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Credentials"
// @Success      200 {object} APIResponse[identity.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /user/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh godoc
// @ID           refreshUserToken
// @Summary      Refresh the token pair
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body identity.RefreshRequest true "Refresh token"
// @Success      200 {object} APIResponse[identity.TokenResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /user/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @ID           logoutUser
// @Summary      Log out
// @Description  Revokes the access token used for this request
// @Tags         user
// @Produce      json
// @Success      200 {object} APIResponse[MessageResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication credentials were not provided")
		return
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid user in token")
		return
	}

	err = h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		UserID:    userID,
		TokenJTI:  claims.ID,
		ExpiresIn: claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Logged out successfully"})
}
