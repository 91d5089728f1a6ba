package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sai-tutoria/pkg/response"
)

// BodyLimit caps request bodies at maxBytes. Routes listed in overrides, keyed
// by their gin route pattern, get their own cap (the upload endpoint).
func BodyLimit(maxBytes int64, overrides map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		if v, ok := overrides[c.FullPath()]; ok {
			limit = v
		}
		if c.Request.Body != nil && limit > 0 {
			if c.Request.ContentLength > limit {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "El cuerpo de la solicitud es demasiado grande")
				c.Abort()
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}

		c.Next()

		if c.Writer.Written() {
			return
		}
		var tooLarge *http.MaxBytesError
		for _, e := range c.Errors {
			if errors.As(e.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "El cuerpo de la solicitud es demasiado grande")
				return
			}
		}
	}
}
