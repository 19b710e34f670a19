package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cinegrok-backend/internal/middleware"
	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/services"
	"cinegrok-backend/internal/supabase"
)

// Authenticator is the GoTrue side of auth.
type Authenticator interface {
	Signup(email, password string) (*supabase.User, *supabase.Session, error)
	Login(email, password string) (*supabase.Session, error)
	Logout(accessToken string) error
}

// AccountReader loads the account row that carries the producer flag.
type AccountReader interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

// AccountStore keeps the account rows that carry the producer flag.
type AccountStore interface {
	AccountReader
	UpsertAccount(ctx context.Context, a models.Account) error
}

type AuthHandler struct {
	auth     Authenticator
	accounts AccountStore
	logger   *zap.Logger
}

func NewAuthHandler(auth Authenticator, accounts AccountStore, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: auth, accounts: accounts, logger: logger}
}

type SignupRequest struct {
	models.CredentialsRequest
	Role string `json:"role" binding:"omitempty,oneof=filmmaker producer"`
}

// Signup godoc
// @Summary     Create an account
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body SignupRequest true "Credentials and account role"
// @Success     201 {object} models.AuthResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if req.Role == "" {
		req.Role = models.AccountFilmmaker
	}

	user, session, err := h.auth.Signup(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "signup failed", Message: err.Error()})
		return
	}

	if id, err := uuid.Parse(user.ID); err == nil && h.accounts != nil {
		if err := h.accounts.UpsertAccount(c.Request.Context(), models.Account{ID: id, Email: user.Email, Role: req.Role}); err != nil {
			h.logger.Error("account row not stored", zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, models.AuthResponse{
		User:    models.UserResponse{ID: user.ID, Email: user.Email, IsProducer: req.Role == models.AccountProducer},
		Session: sessionResponse(session),
	})
}

// Login godoc
// @Summary     Log in with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body models.CredentialsRequest true "Credentials"
// @Success     200 {object} models.AuthResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	session, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: middleware.AuthRequired, Message: err.Error()})
		return
	}

	user := models.UserResponse{ID: session.UserID, Email: session.Email}
	if id, err := uuid.Parse(session.UserID); err == nil {
		user.IsProducer = h.isProducer(c.Request.Context(), id)
	}
	c.JSON(http.StatusOK, models.AuthResponse{User: user, Session: sessionResponse(session)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.TokenKey)
	if token == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: middleware.AuthRequired})
		return
	}
	if err := h.auth.Logout(token); err != nil {
		h.logger.Warn("logout failed", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary     The logged-in user
// @Tags        auth
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UserResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.UserResponse{
		ID:         userID.String(),
		Email:      c.GetString(middleware.EmailKey),
		IsProducer: h.isProducer(c.Request.Context(), userID),
	})
}

// isProducer treats a missing account row as a filmmaker.
func (h *AuthHandler) isProducer(ctx context.Context, userID uuid.UUID) bool {
	return isProducer(ctx, h.accounts, h.logger, userID)
}

// isProducer reports whether userID has a producer account. A missing
// account or a failed lookup counts as not a producer.
func isProducer(ctx context.Context, accounts AccountReader, logger *zap.Logger, userID uuid.UUID) bool {
	if accounts == nil {
		return false
	}
	a, err := accounts.GetAccount(ctx, userID)
	if err != nil {
		if !services.IsNotFound(err) {
			logger.Warn("account lookup failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
		return false
	}
	return a.IsProducer()
}

func sessionResponse(s *supabase.Session) *models.SessionResponse {
	if s == nil {
		return nil
	}
	return &models.SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
	}
}
