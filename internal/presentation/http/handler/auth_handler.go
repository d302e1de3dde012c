package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/application/service"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/request"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/response"
	"github.com/voltmart/backoffice-api/pkg/apperror"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func loginPayload(output *service.LoginOutput) gin.H {
	return gin.H{
		"user": gin.H{
			"id":          output.User.ID,
			"first_name":  output.User.FirstName,
			"last_name":   output.User.LastName,
			"email":       output.User.Email,
			"photo":       output.User.Photo,
			"roles":       output.User.RoleNames(),
			"permissions": output.User.GetPermissions(),
		},
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
	}
}

// Login handles user login. Admin accounts get an emailed verification code
// instead of tokens and must follow up with VerifyOTP.
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if output.OTPRequired {
		response.OK(c, "Verification code sent", gin.H{
			"otp_required": true,
			"email":        output.User.Email,
		})
		return
	}

	response.OK(c, "Login successful", loginPayload(output))
}

// VerifyOTP completes an admin login with the emailed code
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req request.VerifyLoginOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.VerifyLoginOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", loginPayload(output))
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed successfully", gin.H{
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
	})
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *gin.Context) {
	// JWT is stateless; the client discards the tokens
	response.OK(c, "Logged out successfully", nil)
}

// GetProfile handles fetching the current user's profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", gin.H{
		"user": gin.H{
			"id":          user.ID,
			"first_name":  user.FirstName,
			"last_name":   user.LastName,
			"email":       user.Email,
			"phone":       user.Phone,
			"photo":       user.Photo,
			"roles":       user.Roles,
			"permissions": user.GetPermissions(),
			"created_at":  user.CreatedAt,
			"updated_at":  user.UpdatedAt,
		},
	})
}

// UpdateProfile handles updating the current user's profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), &service.UpdateProfileInput{
		UserID:    *userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Photo:     req.Photo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile updated successfully", gin.H{"user": user})
}

// ChangePassword handles password change
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), &service.ChangePasswordInput{
		UserID:          *userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		if apperror.IsAppError(err) {
			response.Error(c, err)
		} else {
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.OK(c, "Password changed successfully", nil)
}

// GoogleAuth redirects to the Google OAuth consent screen
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	state := uuid.New().String()
	url, err := h.authService.GetGoogleAuthURL(state)
	if err != nil {
		response.Error(c, apperror.NewAppError(503, "Google sign-in is not configured"))
		return
	}

	c.Redirect(302, url)
}

// GoogleCallback completes the OAuth exchange. Admin accounts still get the
// OTP step before tokens are issued.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "Missing authorization code")
		return
	}

	output, err := h.authService.LoginWithGoogle(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}

	if output.OTPRequired {
		response.OK(c, "Verification code sent", gin.H{
			"otp_required": true,
			"email":        output.User.Email,
		})
		return
	}

	response.OK(c, "Login successful", loginPayload(output))
}
