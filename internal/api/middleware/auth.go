package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"sai-tutoria/pkg/jwt"
	"sai-tutoria/pkg/response"
)

// Context keys set by JWTAuth
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxTeacherID = "teacher_id"
	CtxClaims    = "claims"
)

// TokenChecker reports revoked token ids
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth validates "Authorization: Bearer <token>" and puts the caller into
// the context. With a nil checker revoked tokens are accepted until they expire.
func JWTAuth(jwtMgr *jwt.Manager, checker TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "Falta el encabezado de autenticación")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, 10002, "Encabezado de autenticación inválido")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token inválido o expirado")
			c.Abort()
			return
		}

		if checker != nil {
			revoked, err := checker.IsBlacklisted(c.Request.Context(), claims.ID)
			// a Redis outage does not lock everyone out
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "La sesión fue cerrada")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxTeacherID, claims.TeacherID)
		c.Set(CtxClaims, claims)

		c.Next()
	}
}

// RoleAuth lets the request through only for one of allowedRoles
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if role == "" {
			response.Unauthorized(c, 10002, "No autenticado")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if role == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "No tiene permiso para acceder a este recurso")
		c.Abort()
	}
}
