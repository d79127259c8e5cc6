package middleware

import (
	"net/http"
	"strings"

	ierr "procurify-api/errors"
	"procurify-api/models"
	"procurify-api/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthMiddleware.
const (
	ctxUserID   = "userID"
	ctxUserName = "userName"
	ctxEmail    = "email"
	ctxRole     = "role"
)

type Claims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and loads the caller. The role
// stored on the user record wins over the one in the token.
func AuthMiddleware(secret, issuer string, users store.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Check Bearer prefix
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
		if issuer != "" {
			opts = append(opts, jwt.WithIssuer(issuer))
		}
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, opts...)
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || claims.UserID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		// Check if user still exists
		user, err := users.Get(c.Request.Context(), claims.UserID)
		if err != nil {
			if ierr.IsNotFound(err) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": ierr.ErrCodeDatabase, "message": "Failed to load user"})
			}
			c.Abort()
			return
		}

		role := user.Role
		if !role.Valid() {
			role = claims.Role
		}
		if !role.Valid() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found"})
			c.Abort()
			return
		}

		name := user.Name
		if name == "" {
			name = claims.Name
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxUserName, name)
		c.Set(ctxEmail, user.Email)
		c.Set(ctxRole, role)

		c.Next()
	}
}

// RequireRole checks if user has specific role
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found"})
			c.Abort()
			return
		}

		allowed := false
		for _, role := range roles {
			if actor.Role == role {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentActor returns the authenticated caller.
func CurrentActor(c *gin.Context) (models.Actor, bool) {
	userID := c.GetString(ctxUserID)
	if userID == "" {
		return models.Actor{}, false
	}
	role, _ := c.Get(ctxRole)
	r, ok := role.(models.Role)
	if !ok {
		return models.Actor{}, false
	}
	return models.Actor{
		UserID: userID,
		Name:   c.GetString(ctxUserName),
		Role:   r,
	}, true
}
