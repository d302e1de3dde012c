package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"github.com/voltmart/backoffice-api/internal/domain/repository"
	"github.com/voltmart/backoffice-api/internal/infrastructure/cache"
	"github.com/voltmart/backoffice-api/pkg/apperror"
	"github.com/voltmart/backoffice-api/pkg/oauth"
	"github.com/voltmart/backoffice-api/pkg/utils"
)

// LoginMailer sends login verification codes.
type LoginMailer interface {
	SendLoginOTPEmail(toEmail, code string, expiryMinutes int) error
}

// AuthService handles authentication-related operations. Accounts holding the
// admin or super-admin role must confirm each password login with an emailed
// one-time code before tokens are issued.
type AuthService struct {
	userRepo    repository.UserRepository
	jwtManager  *utils.JWTManager
	otpStore    *cache.OTPStore
	mailer      LoginMailer
	googleOAuth *oauth.GoogleOAuthService

	otpLength int
	otpExpiry time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	otpStore *cache.OTPStore,
	mailer LoginMailer,
	googleOAuth *oauth.GoogleOAuthService,
	otpLength int,
	otpExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtManager:  jwtManager,
		otpStore:    otpStore,
		mailer:      mailer,
		googleOAuth: googleOAuth,
		otpLength:   otpLength,
		otpExpiry:   otpExpiry,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output. When OTPRequired is set the tokens
// are empty and the client must follow up with VerifyLoginOTP.
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
	OTPRequired  bool
}

func requiresLoginOTP(user *entity.User) bool {
	return user.HasRole("admin") || user.HasRole("super-admin")
}

// Login authenticates a user. Non-admin accounts receive tokens directly;
// admin accounts receive a verification code by email instead.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, apperror.NewAppError(403, "Account is deactivated")
	}

	if requiresLoginOTP(user) {
		code, err := utils.GenerateOTP(s.otpLength)
		if err != nil {
			return nil, err
		}
		if err := s.otpStore.Set(ctx, cache.PurposeLogin, user.Email, code, s.otpExpiry); err != nil {
			return nil, err
		}
		if err := s.mailer.SendLoginOTPEmail(user.Email, code, int(s.otpExpiry.Minutes())); err != nil {
			return nil, err
		}

		return &LoginOutput{User: user, OTPRequired: true}, nil
	}

	return s.issueTokens(user)
}

// VerifyLoginOTP completes an admin login by checking the emailed code.
func (s *AuthService) VerifyLoginOTP(ctx context.Context, email, code string) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidOTP
	}

	if err := s.otpStore.Verify(ctx, cache.PurposeLogin, user.Email, code); err != nil {
		return nil, apperror.ErrInvalidOTP
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	roles := user.RoleNames()
	permissions := user.GetPermissions()

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, roles, permissions)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	if !user.Active {
		return nil, apperror.NewAppError(403, "Account is deactivated")
	}

	return s.issueTokens(user)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewBadRequestError("Current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Phone     *string
	Photo     *string
}

// UpdateProfile updates the user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Photo != nil {
		user.Photo = input.Photo
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetGoogleAuthURL returns the Google OAuth consent URL
func (s *AuthService) GetGoogleAuthURL(state string) (string, error) {
	if !s.googleOAuth.IsConfigured() {
		return "", oauth.ErrOAuthNotConfigured
	}
	return s.googleOAuth.GetAuthURL(state), nil
}

// LoginWithGoogle completes a Google OAuth login. Only existing employee
// accounts may sign in; unknown emails are rejected since employees are
// provisioned by administrators, never self-registered.
func (s *AuthService) LoginWithGoogle(ctx context.Context, code string) (*LoginOutput, error) {
	if !s.googleOAuth.IsConfigured() {
		return nil, oauth.ErrOAuthNotConfigured
	}

	token, err := s.googleOAuth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid authorization code")
	}

	info, err := s.googleOAuth.GetUserInfo(ctx, token)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	if !info.VerifiedEmail {
		return nil, apperror.NewAppError(403, "Google account email is not verified")
	}

	user, err := s.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewAppError(403, "No employee account exists for this email")
	}
	if !user.Active {
		return nil, apperror.NewAppError(403, "Account is deactivated")
	}

	// Link the Google identity on first OAuth login
	if user.Provider != "google" {
		user.Provider = "google"
		user.ProviderID = &info.ID
		if user.Photo == nil && info.Picture != "" {
			picture := info.Picture
			user.Photo = &picture
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	// Admin accounts confirm with an emailed code even on OAuth logins
	if requiresLoginOTP(user) {
		otpCode, err := utils.GenerateOTP(s.otpLength)
		if err != nil {
			return nil, err
		}
		if err := s.otpStore.Set(ctx, cache.PurposeLogin, user.Email, otpCode, s.otpExpiry); err != nil {
			return nil, err
		}
		if err := s.mailer.SendLoginOTPEmail(user.Email, otpCode, int(s.otpExpiry.Minutes())); err != nil {
			return nil, err
		}
		return &LoginOutput{User: user, OTPRequired: true}, nil
	}

	return s.issueTokens(user)
}
