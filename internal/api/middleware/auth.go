package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Iamanointing/mvv/pkg/jwt"
	"github.com/Iamanointing/mvv/pkg/redis"
	"github.com/Iamanointing/mvv/pkg/response"
)

// Context keys set by JWTAuth.
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxIdentity = "identity"
	CtxTokenID  = "token_id"
	CtxTokenExp = "token_exp"
)

// JWTAuth verifies the bearer token in the Authorization header.
// A missing or malformed header is 401; a bad, expired or revoked token is 403.
// rdb may be nil, in which case revoked tokens are not checked.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := jwtMgr.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusForbidden, "Invalid or expired token")
			return
		}

		if rdb != nil && claims.RegisteredClaims.ID != "" {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.RegisteredClaims.ID)
			if err != nil {
				// redis down: accept the token
				logger.Warn("blacklist lookup failed", zap.Error(err))
			} else if revoked {
				response.Abort(c, http.StatusForbidden, "Invalid or expired token")
				return
			}
		}

		c.Set(CtxUserID, claims.ID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxIdentity, claims.Identity)
		c.Set(CtxTokenID, claims.RegisteredClaims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RoleAuth lets the request through only when JWTAuth stored one of
// allowedRoles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, "Access token required")
			return
		}

		for _, r := range allowedRoles {
			if role == r {
				c.Next()
				return
			}
		}

		if role == jwt.RoleUser {
			response.Abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		response.Abort(c, http.StatusForbidden, "Access denied")
	}
}
