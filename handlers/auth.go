package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yurys/todo-list-backend/auth"
	"github.com/yurys/todo-list-backend/common"
	"github.com/yurys/todo-list-backend/logger"
	"github.com/yurys/todo-list-backend/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	stateCookieName   = "oauth_state"
	stateCookieMaxAge = 600

	userCacheTTL = 15 * time.Minute

	contextUserKey = "user"
)

var (
	errNoToken      = errors.New("no token provided")
	errInvalidToken = errors.New("invalid or expired token")
)

// AuthHandler owns the OAuth login flow and the bearer-token middleware.
// The redis client is an optional read-through cache for user records on the
// authentication path; when nil (or unreachable) every lookup goes to Mongo.
type AuthHandler struct {
	users       UserStore
	provider    OAuthProvider
	tokens      *auth.TokenManager
	redisClient *redis.Client
	frontendURL string
}

func NewAuthHandler(users UserStore, provider OAuthProvider, tokens *auth.TokenManager, redisClient *redis.Client, frontendURL string) *AuthHandler {
	return &AuthHandler{
		users:       users,
		provider:    provider,
		tokens:      tokens,
		redisClient: redisClient,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
	}
}

// LoginHandler sends the browser to the Google consent page. The state nonce
// is stored in a short-lived cookie and checked on the way back.
func (handler *AuthHandler) LoginHandler(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie(stateCookieName, state, stateCookieMaxAge, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, handler.provider.LoginURL(state))
}

// CallbackHandler finishes the OAuth round trip: state check, code exchange,
// user upsert, token issue, redirect back to the frontend with the token and
// its expiry in the query string.
func (handler *AuthHandler) CallbackHandler(c *gin.Context) {
	log := logger.FromCtx(c.Request.Context())

	if handler.frontendURL == "" {
		log.Error("FRONTEND_URL is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server is not configured for login redirects"})
		return
	}

	state, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != c.Query("state") {
		log.Warn("oauth state mismatch")
		handler.redirectLoginFailure(c)
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", c.Request.TLS != nil, true)

	code := c.Query("code")
	if code == "" {
		handler.redirectLoginFailure(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	profile, err := handler.provider.Exchange(ctx, code)
	if err != nil {
		log.Warn("oauth code exchange failed", zap.Error(err))
		handler.redirectLoginFailure(c)
		return
	}

	user, err := handler.users.Upsert(ctx, profile.GoogleID, profile.Email, profile.Name, profile.Picture)
	if err != nil {
		log.Error("user upsert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		return
	}

	token, expiresAt, err := handler.tokens.Issue(user.ID.Hex())
	if err != nil {
		log.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		return
	}

	log.Info("user logged in", zap.String("userId", user.ID.Hex()))
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/index.html?token=%s&expires=%s",
		handler.frontendURL,
		url.QueryEscape(token),
		url.QueryEscape(expiresAt.Format(time.RFC3339)),
	))
}

func (handler *AuthHandler) redirectLoginFailure(c *gin.Context) {
	c.Redirect(http.StatusFound, handler.frontendURL+"/login.html?error=auth_failed")
}

// VerifyHandler reports whether the presented bearer token is valid and who
// it belongs to.
func (handler *AuthHandler) VerifyHandler(c *gin.Context) {
	user, err := handler.userFromRequest(c)
	if err != nil {
		handler.abortAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user":  gin.H{"email": user.Email, "name": user.Name},
	})
}

// AuthMiddleware gates a route group on a valid bearer token, attaching the
// resolved user to the gin context for downstream handlers.
func (handler *AuthHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := handler.userFromRequest(c)
		if err != nil {
			handler.abortAuthError(c, err)
			return
		}
		c.Set(contextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by AuthMiddleware.
func CurrentUser(c *gin.Context) *model.User {
	return c.MustGet(contextUserKey).(*model.User)
}

func (handler *AuthHandler) userFromRequest(c *gin.Context) (*model.User, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, errNoToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, errNoToken
	}

	userID, err := handler.tokens.Verify(parts[1])
	if err != nil {
		return nil, errInvalidToken
	}
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errInvalidToken
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if user := handler.cachedUser(ctx, userID); user != nil {
		return user, nil
	}

	user, err := handler.users.FindByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	handler.cacheUser(ctx, user)
	return user, nil
}

func (handler *AuthHandler) abortAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errNoToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
	case errors.Is(err, errInvalidToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, common.ErrUserNotFound):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
	default:
		logger.FromCtx(c.Request.Context()).Error("auth lookup failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
	}
}

func (handler *AuthHandler) cachedUser(ctx context.Context, userID string) *model.User {
	if handler.redisClient == nil {
		return nil
	}
	payload, err := handler.redisClient.Get(ctx, userCacheKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var user model.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil
	}
	return &user
}

func (handler *AuthHandler) cacheUser(ctx context.Context, user *model.User) {
	if handler.redisClient == nil {
		return
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	// cache failures are invisible: next request reads Mongo again
	handler.redisClient.Set(ctx, userCacheKey(user.ID.Hex()), payload, userCacheTTL)
}

func userCacheKey(userID string) string {
	return "user:" + userID
}
