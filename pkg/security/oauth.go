package security

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Marcelo-Rosas/container-storage/internal/session"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"
	"github.com/Marcelo-Rosas/container-storage/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	providerGoogle    = "google"
)

// NewGoogleOAuthConfig returns nil when no client id is configured, which
// disables the Google routes.
func NewGoogleOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	if clientID == "" {
		return nil
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

type googleProfile struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	if h.OAuth == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	state := uuid.NewString()
	if err := h.Sessions.SaveToken(c.Request.Context(), session.TokenOAuthState, state, providerGoogle, oauthStateTTL); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to start Google sign-in", "details": err.Error()})
		return
	}

	c.Redirect(http.StatusFound, h.OAuth.AuthCodeURL(state))
}

// GoogleCallback finishes the code flow and signs in the user with the
// verified email, creating a client account on first use.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.OAuth == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Sessions.ConsumeToken(ctx, session.TokenOAuthState, c.Query("state")); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired sign-in state"})
		return
	}

	token, err := h.OAuth.Exchange(ctx, c.Query("code"))
	if err != nil {
		h.logger.Warn("Google code exchange failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Google sign-in failed"})
		return
	}

	profile, err := h.fetchProfile(c, token)
	if err != nil {
		h.logger.Warn("Google profile request failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Google sign-in failed"})
		return
	}
	if profile.Email == "" || !profile.EmailVerified {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Google account email is not verified"})
		return
	}

	user, err := h.Users.GetUserByEmail(ctx, profile.Email)
	if errors.Is(err, custom_error.ErrNotFound) {
		provider := providerGoogle
		user = &models.User{
			Email:         profile.Email,
			Role:          roles.Client,
			OAuthProvider: &provider,
		}
		if profile.Name != "" {
			name := profile.Name
			user.Fullname = &name
		}
		err = h.Users.PersistUser(ctx, user)
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in", "details": err.Error()})
		return
	}

	h.startSession(c, http.StatusOK, user)
}

func (h *AuthHandler) fetchProfile(c *gin.Context, token *oauth2.Token) (*googleProfile, error) {
	client := h.OAuth.Client(c.Request.Context(), token)

	resp, err := client.Get(h.UserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	return &profile, nil
}
