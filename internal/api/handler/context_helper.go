package handler

import (
	"github.com/gin-gonic/gin"

	"sai-tutoria/internal/api/middleware"
	"sai-tutoria/internal/service"
	"sai-tutoria/pkg/jwt"
	"sai-tutoria/pkg/response"
)

// MustGetUserID user_id set by JWTAuth. On false a 401 has been written and
// the caller should return.
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "No autenticado")
		return "", false
	}
	return s, true
}

// MustGetRole role set by JWTAuth
func MustGetRole(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxRole)
	if s == "" {
		response.Unauthorized(c, 10002, "No autenticado")
		return "", false
	}
	return s, true
}

// MustGetActor the authenticated caller as the services see it
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Actor{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{
		UserID:    userID,
		Role:      role,
		TeacherID: c.GetString(middleware.CtxTeacherID),
	}, true
}

// MustGetClaims parsed token, needed to revoke it on logout
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.CtxClaims)
	claims, ok := v.(*jwt.Claims)
	if !exists || !ok || claims == nil {
		response.Unauthorized(c, 10002, "No autenticado")
		return nil, false
	}
	return claims, true
}
