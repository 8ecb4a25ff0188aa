package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/authz"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/jwt"
	"github.com/inkpress/core/internal/pkg/response"
	sessionpkg "github.com/inkpress/core/internal/pkg/session"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
	ContextKeySID    = "session_id"

	// TokenCookie carries the session token for browser clients.
	TokenCookie = "blog_token"
)

// Identity describes the caller of the current request.
type Identity struct {
	Authenticated bool
	UserID        string
	Role          models.Role
}

// Auth enforces a valid session and stores the caller in the context.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !resolve(c, db) {
			response.Unauthorized(c)
			return
		}
		c.Next()
	}
}

// OptionalAuth stores the caller when a valid token is present, but does not block the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolve(c, db)
		c.Next()
	}
}

// RequireAuthenticated rejects requests that carry no resolved identity.
// Install it after OptionalAuth.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			response.Unauthorized(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin answers 401 without identity and 403 when the caller's role
// is not granted the route by the RBAC policy.
func RequireAdmin(enforcer *authz.Enforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentIdentity(c)
		if !id.Authenticated {
			response.Unauthorized(c)
			return
		}
		allowed, err := enforcer.Allow(string(id.Role), c.Request.URL.Path, c.Request.Method)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if !allowed {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

func resolve(c *gin.Context, db *gorm.DB) bool {
	if IsAuthenticated(c) {
		return true
	}
	claims, role, err := ValidateToken(db, extractToken(c))
	if err != nil {
		return false
	}
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyRole, role)
	c.Set(ContextKeySID, claims.SessionID)
	return true
}

// ValidateToken checks the JWT, its bound session and returns the claims with the caller's role.
func ValidateToken(db *gorm.DB, rawToken string) (*jwt.Claims, models.Role, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, "", errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, "", err
	}
	active, err := sessionpkg.IsActive(db, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, "", err
	}
	if !active {
		return nil, "", errors.New("session expired or revoked")
	}

	var user models.UserModel
	if err := db.Select("id", "role").First(&user, "id = ?", claims.UserID).Error; err != nil {
		return nil, "", err
	}
	return claims, user.Role, nil
}

// CurrentIdentity returns the caller resolved by Auth or OptionalAuth.
func CurrentIdentity(c *gin.Context) Identity {
	id := CurrentUserID(c)
	if id == "" {
		return Identity{}
	}
	role, _ := c.Get(ContextKeyRole)
	r, _ := role.(models.Role)
	return Identity{Authenticated: true, UserID: id, Role: r}
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	if token := NormalizeToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if token := NormalizeToken(c.Query("token")); token != "" {
		return token
	}
	if raw, err := c.Cookie(TokenCookie); err == nil {
		return NormalizeToken(raw)
	}
	return ""
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
