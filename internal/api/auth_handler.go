package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	users         service.UserService
	jwtService    auth.JWTService
	revoker       auth.TokenRevoker
	tokenLifetime time.Duration
	timeFunc      func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// tokenLifetime is only used to report expires_at to clients.
func NewAuthHandler(
	users service.UserService,
	jwtService auth.JWTService,
	revoker auth.TokenRevoker,
	tokenLifetime time.Duration,
) *AuthHandler {
	return &AuthHandler{
		users:         users,
		jwtService:    jwtService,
		revoker:       revoker,
		tokenLifetime: tokenLifetime,
		timeFunc:      time.Now,
	}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondWithTokens(w, r, http.StatusCreated, user)
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, user)
}

// RefreshToken handles POST /api/refresh. It exchanges a valid refresh token
// for a new access and refresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		verr := domain.NewValidationError()
		verr.Add("refresh_token", "The refresh token field is required.")
		shared.RespondWithValidationError(w, r, verr)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			HandleAPIError(w, r, auth.ErrInvalidRefreshToken, "")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	access, refresh, ok := h.issueTokens(w, r, user)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    h.expiresAt(),
	})
}

// Logout handles POST /api/logout. It revokes the access token used for the
// request so later requests presenting it are rejected.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := shared.GetClaims(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	if h.revoker != nil {
		if err := h.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt); err != nil {
			HandleAPIError(w, r, err, "Failed to log out")
			return
		}
	}

	logger.FromContext(r.Context()).Info("user logged out",
		"user_id", claims.UserID)

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Successfully logged out"})
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, r *http.Request, status int, user *domain.User) {
	access, refresh, ok := h.issueTokens(w, r, user)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		User:         userToResponse(user),
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    h.expiresAt(),
	})
}

func (h *AuthHandler) issueTokens(w http.ResponseWriter, r *http.Request, user *domain.User) (string, string, bool) {
	access, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return "", "", false
	}

	refresh, err := h.jwtService.GenerateRefreshToken(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate refresh token")
		return "", "", false
	}

	return access, refresh, true
}

func (h *AuthHandler) expiresAt() string {
	if h.tokenLifetime <= 0 {
		return ""
	}
	return h.timeFunc().UTC().Add(h.tokenLifetime).Format(time.RFC3339)
}
