package security

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Marcelo-Rosas/container-storage/internal/forms"
	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/models"
	"github.com/Marcelo-Rosas/container-storage/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

func init() {
	passwordCost = bcrypt.MinCost
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*models.User)}
}

func (m *memoryUsers) PersistUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return custom_error.WrapDBError("Failed to insert user", &pq.Error{Code: "23505", Constraint: "users_email_key"})
		}
	}
	user.ID = uuid.NewString()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *memoryUsers) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, custom_error.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, custom_error.ErrNotFound
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return custom_error.ErrNotFound
	}
	user.PasswordHash = &passwordHash
	return nil
}

type recordingMailer struct {
	links []string
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, _ string, link string) error {
	m.links = append(m.links, link)
	return nil
}

type authFixture struct {
	router   *gin.Engine
	users    *memoryUsers
	sessions *session.MemoryStore
	tokens   *TokenIssuer
	mailer   *recordingMailer
	handler  *AuthHandler
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	forms.RegisterValidators()

	tokens, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	f := &authFixture{
		router:   gin.New(),
		users:    newMemoryUsers(),
		sessions: session.NewMemoryStore(),
		tokens:   tokens,
		mailer:   &recordingMailer{},
	}
	f.handler = NewAuthHandler(f.users, f.sessions, tokens, f.mailer, nil, "https://app.example.com/reset", nil)
	f.handler.RegisterRoutes(f.router, JWTMiddleware(tokens, f.sessions))
	return f
}

func (f *authFixture) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&payload).Encode(body)
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) sessionResponse {
	t.Helper()
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestTokenIssuer(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)

	issuer, err := NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)
	current := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return current }

	identity := session.Identity{SessionID: "sid-1", UserID: "u-1", Email: "a@example.com", Role: roles.Operator}
	token, expiresAt, err := issuer.Issue(identity)
	require.NoError(t, err)
	assert.Equal(t, current.Add(time.Hour), expiresAt)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, roles.Operator, claims.Role)

	other, _ := NewTokenIssuer("other-secret", time.Hour)
	_, err = other.Parse(token)
	assert.Error(t, err)

	current = current.Add(2 * time.Hour)
	_, err = issuer.Parse(token)
	assert.Error(t, err)
}

func TestSignUpAndSignIn(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do("POST", "/auth/sign-up", gin.H{"email": "Ana@Example.com", "password": "short"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"password"`)

	w = f.do("POST", "/auth/sign-up", gin.H{"email": "ana@example.com", "password": "correct horse"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeSession(t, w)
	assert.Equal(t, roles.Client, created.Identity.Role)
	assert.Empty(t, created.Identity.ClientID)

	w = f.do("POST", "/auth/sign-up", gin.H{"email": "ana@example.com", "password": "another one"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"already registered"`)

	w = f.do("POST", "/auth/sign-in", gin.H{"email": "ana@example.com", "password": "wrong password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do("POST", "/auth/sign-in", gin.H{"email": "ana@example.com", "password": "correct horse"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	signedIn := decodeSession(t, w)
	assert.NotEqual(t, created.Identity.SessionID, signedIn.Identity.SessionID)

	w = f.do("GET", "/auth/session", nil, signedIn.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"ana@example.com"`)
}

func TestSignOutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do("POST", "/auth/sign-up", gin.H{"email": "ops@example.com", "password": "correct horse"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	token := decodeSession(t, w).Token

	assert.Equal(t, http.StatusUnauthorized, f.do("GET", "/auth/session", nil, "").Code)
	assert.Equal(t, http.StatusNoContent, f.do("POST", "/auth/sign-out", nil, token).Code)

	w = f.do("GET", "/auth/session", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Session expired")
}

func TestSignInRateLimit(t *testing.T) {
	f := newAuthFixture(t)

	for i := 0; i < signInLimit; i++ {
		w := f.do("POST", "/auth/sign-in", gin.H{"email": "nobody@example.com", "password": "whatever1"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := f.do("POST", "/auth/sign-in", gin.H{"email": "nobody@example.com", "password": "whatever1"}, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestPasswordRecovery(t *testing.T) {
	f := newAuthFixture(t)

	w := f.do("POST", "/auth/sign-up", gin.H{"email": "ana@example.com", "password": "correct horse"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	oldToken := decodeSession(t, w).Token

	w = f.do("POST", "/auth/password/reset", gin.H{"email": "missing@example.com"}, "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, f.mailer.links)

	w = f.do("POST", "/auth/password/reset", gin.H{"email": "ana@example.com"}, "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, f.mailer.links, 1)
	link := f.mailer.links[0]
	require.True(t, strings.HasPrefix(link, "https://app.example.com/reset#type=recovery&token="))
	recovery := strings.TrimPrefix(link, "https://app.example.com/reset#type=recovery&token=")

	w = f.do("POST", "/auth/password/confirm", gin.H{"token": recovery, "password": "battery staple"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do("POST", "/auth/password/confirm", gin.H{"token": recovery, "password": "battery staple"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusUnauthorized, f.do("GET", "/auth/session", nil, oldToken).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do("POST", "/auth/sign-in", gin.H{"email": "ana@example.com", "password": "correct horse"}, "").Code)
	assert.Equal(t, http.StatusOK, f.do("POST", "/auth/sign-in", gin.H{"email": "ana@example.com", "password": "battery staple"}, "").Code)
}

func TestAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		identity *session.Identity
		required roles.Role
		expected int
	}{
		{"no identity", nil, roles.Client, http.StatusForbidden},
		{"client on operator route", &session.Identity{UserID: "u", Role: roles.Client}, roles.Operator, http.StatusForbidden},
		{"operator on operator route", &session.Identity{UserID: "u", Role: roles.Operator}, roles.Operator, http.StatusOK},
		{"admin on operator route", &session.Identity{UserID: "u", Role: roles.Admin}, roles.Operator, http.StatusOK},
		{"unknown role", &session.Identity{UserID: "u", Role: roles.Role("guest")}, roles.Client, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", func(c *gin.Context) {
				if tt.identity != nil {
					session.SetContext(c, *tt.identity)
				}
			}, Authorize(tt.required), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestJWTMiddlewareScopesRequestContext(t *testing.T) {
	f := newAuthFixture(t)

	identity, err := f.sessions.Create(context.Background(), session.Identity{
		UserID:   "user-1",
		Email:    "client@example.com",
		Role:     roles.Client,
		ClientID: "client-1",
	}, time.Hour)
	require.NoError(t, err)
	token, _, err := f.tokens.Issue(identity)
	require.NoError(t, err)

	var scoped repository.Identity
	var found bool
	f.router.GET("/scoped", JWTMiddleware(f.tokens, f.sessions), func(c *gin.Context) {
		scoped, found = repository.IdentityFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := f.do("GET", "/scoped", nil, token)

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.True(t, found)
	assert.Equal(t, repository.Identity{UserID: "user-1", Role: "client", ClientID: "client-1"}, scoped)
}

func TestGoogleCallback(t *testing.T) {
	f := newAuthFixture(t)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"access","token_type":"Bearer","expires_in":3600}`))
		case "/userinfo":
			assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"email":"new@example.com","email_verified":true,"name":"New User"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer provider.Close()

	f.handler.OAuth = &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "https://app.example.com/auth/oauth/google/callback",
		Endpoint:     oauth2.Endpoint{AuthURL: provider.URL + "/auth", TokenURL: provider.URL + "/token"},
	}
	f.handler.UserInfoURL = provider.URL + "/userinfo"

	w := f.do("GET", "/auth/oauth/google", nil, "")
	require.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	require.Contains(t, location, "state=")
	state := location[strings.Index(location, "state=")+len("state="):]
	if i := strings.Index(state, "&"); i >= 0 {
		state = state[:i]
	}

	w = f.do("GET", "/auth/oauth/google/callback?state=forged&code=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do("GET", "/auth/oauth/google/callback?state="+state+"&code=abc", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeSession(t, w)
	assert.Equal(t, "new@example.com", resp.Identity.Email)
	assert.Equal(t, roles.Client, resp.Identity.Role)

	user, err := f.users.GetUserByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.OAuthProvider)
	assert.Equal(t, "google", *user.OAuthProvider)
	assert.Nil(t, user.PasswordHash)
}

func TestGoogleSignInDisabled(t *testing.T) {
	f := newAuthFixture(t)
	assert.Nil(t, NewGoogleOAuthConfig("", "", ""))
	assert.Equal(t, http.StatusNotFound, f.do("GET", "/auth/oauth/google", nil, "").Code)
}

func TestRateLimitKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/auth/sign-in", nil)

	c.Request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", rateLimitKey(c))

	c.Request.Header.Set("X-Forwarded-For", "192.168.1.4")
	c.Request.Header.Set("User-Agent", "curl/8")
	assert.Equal(t, "192.168.1.4:curl/8", rateLimitKey(c))
}
