package security

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	"github.com/Marcelo-Rosas/container-storage/internal/rate_limiter"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"
	"github.com/Marcelo-Rosas/container-storage/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	signInLimit   = 10
	signInWindow  = 5 * time.Minute
	recoveryTTL   = time.Hour
	oauthStateTTL = 10 * time.Minute
)

var duplicateEmail = map[string]forms.Violations{
	"users_email_key": {"email": "already registered"},
}

type AuthHandler struct {
	Users       UserStore
	Sessions    session.Store
	Tokens      *TokenIssuer
	Mailer      Mailer
	OAuth       *oauth2.Config
	UserInfoURL string
	ResetURL    string
	rateLimiter *rate_limiter.RateLimiter
	logger      *zap.Logger
}

func NewAuthHandler(users UserStore, sessions session.Store, tokens *TokenIssuer, mailer Mailer, oauth *oauth2.Config, resetURL string, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		Users:       users,
		Sessions:    sessions,
		Tokens:      tokens,
		Mailer:      mailer,
		OAuth:       oauth,
		UserInfoURL: googleUserInfoURL,
		ResetURL:    resetURL,
		rateLimiter: rate_limiter.NewRateLimiter(signInLimit, signInWindow),
		logger:      logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter, authenticated gin.HandlerFunc) {
	auth := router.Group("/auth")
	auth.POST("/sign-up", h.SignUp)
	auth.POST("/sign-in", h.SignIn)
	auth.POST("/password/reset", h.RequestPasswordReset)
	auth.POST("/password/confirm", h.ConfirmPasswordReset)
	auth.GET("/oauth/google", h.GoogleSignIn)
	auth.GET("/oauth/google/callback", h.GoogleCallback)

	auth.POST("/sign-out", authenticated, h.SignOut)
	auth.GET("/session", authenticated, h.GetSession)
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Fullname string `json:"fullname" binding:"max=200"`
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type passwordConfirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type sessionResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Identity  session.Identity `json:"identity"`
}

// SignUp creates a client account without an assigned client; an admin
// links it later.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.FieldErrors(err)})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account", "details": err.Error()})
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: &hash,
		Role:         roles.Client,
	}
	if fullname := strings.TrimSpace(req.Fullname); fullname != "" {
		user.Fullname = &fullname
	}

	if err := h.Users.PersistUser(c.Request.Context(), user); err != nil {
		if fields, ok := forms.ConflictViolations(err, duplicateEmail); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Account already exists", "fields": fields})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account", "details": err.Error()})
		return
	}

	h.startSession(c, http.StatusCreated, user)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	clientIP := rateLimitKey(c)

	if !h.rateLimiter.IsAllowed(clientIP) {
		remaining := h.rateLimiter.GetRemainingRequests(clientIP)
		resetAt := time.Now().Add(h.rateLimiter.Window()).Format(time.RFC3339)
		c.Header("X-RateLimit-Limit", strconv.Itoa(h.rateLimiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":     "Too many sign-in attempts. Try again later.",
			"remaining": remaining,
			"reset_at":  resetAt,
		})
		return
	}

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.FieldErrors(err)})
		return
	}

	user, err := AuthenticateUser(c.Request.Context(), h.Users, req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in", "details": err.Error()})
		return
	}

	h.startSession(c, http.StatusOK, user)
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	identity, ok := session.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}

	if err := h.Sessions.Delete(c.Request.Context(), identity.SessionID); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out", "details": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) GetSession(c *gin.Context) {
	identity, ok := session.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}

	c.JSON(http.StatusOK, identity)
}

// RequestPasswordReset answers 202 whether or not the email is known.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.FieldErrors(err)})
		return
	}

	accepted := gin.H{"message": "If the email is registered, a recovery link has been sent"}

	user, err := h.Users.GetUserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, custom_error.ErrNotFound) {
		c.JSON(http.StatusAccepted, accepted)
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to request password reset", "details": err.Error()})
		return
	}

	token := uuid.NewString()
	if err := h.Sessions.SaveToken(c.Request.Context(), session.TokenRecovery, token, user.ID, recoveryTTL); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to request password reset", "details": err.Error()})
		return
	}

	link := h.ResetURL + "#type=recovery&token=" + token
	if err := h.Mailer.SendPasswordReset(c.Request.Context(), user.Email, link); err != nil {
		h.logger.Error("Failed to send recovery email", zap.String("user_id", user.ID), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to send recovery email"})
		return
	}

	c.JSON(http.StatusAccepted, accepted)
}

// ConfirmPasswordReset sets the new password and ends every session of the user.
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req passwordConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "fields": forms.FieldErrors(err)})
		return
	}

	ctx := c.Request.Context()
	userID, err := h.Sessions.ConsumeToken(ctx, session.TokenRecovery, req.Token)
	if errors.Is(err, session.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Recovery link is invalid or has expired"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password", "details": err.Error()})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password", "details": err.Error()})
		return
	}

	if err := h.Users.UpdatePassword(ctx, userID, hash); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password", "details": err.Error()})
		return
	}

	if err := h.Sessions.DeleteUserSessions(ctx, userID); err != nil {
		h.logger.Error("Failed to revoke sessions after password reset", zap.String("user_id", userID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *AuthHandler) startSession(c *gin.Context, status int, user *models.User) {
	token, expiresAt, identity, err := h.issueSession(c.Request.Context(), user)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session", "details": err.Error()})
		return
	}

	c.JSON(status, sessionResponse{Token: token, ExpiresAt: expiresAt, Identity: identity})
}

func (h *AuthHandler) issueSession(ctx context.Context, user *models.User) (string, time.Time, session.Identity, error) {
	identity := session.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}
	if user.ClientID != nil {
		identity.ClientID = *user.ClientID
	}

	identity, err := h.Sessions.Create(ctx, identity, h.Tokens.TTL())
	if err != nil {
		return "", time.Time{}, session.Identity{}, err
	}

	token, expiresAt, err := h.Tokens.Issue(identity)
	if err != nil {
		_ = h.Sessions.Delete(ctx, identity.SessionID)
		return "", time.Time{}, session.Identity{}, err
	}

	return token, expiresAt, identity, nil
}

// rateLimitKey prefers proxy headers. Private addresses are shared by many
// callers behind a NAT, so the user agent is appended for them.
func rateLimitKey(c *gin.Context) string {
	clientIP := c.GetHeader("X-Forwarded-For")
	if clientIP == "" {
		clientIP = c.GetHeader("X-Real-IP")
	}
	if clientIP == "" {
		clientIP = c.ClientIP()
	}

	if strings.Contains(clientIP, ",") {
		clientIP = strings.TrimSpace(strings.Split(clientIP, ",")[0])
	}

	if isPrivateIP(clientIP) {
		clientIP = clientIP + ":" + c.GetHeader("User-Agent")
	}

	return clientIP
}

func isPrivateIP(ip string) bool {
	privatePrefixes := []string{
		"10.",
		"172.16.",
		"172.17.",
		"172.18.",
		"172.19.",
		"172.20.",
		"172.21.",
		"172.22.",
		"172.23.",
		"172.24.",
		"172.25.",
		"172.26.",
		"172.27.",
		"172.28.",
		"172.29.",
		"172.30.",
		"172.31.",
		"192.168.",
		"127.",
		"169.254.",
		"::1",
		"fc00::",
		"fe80::",
	}

	for _, prefix := range privatePrefixes {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}
	return false
}
