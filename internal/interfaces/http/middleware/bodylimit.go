package middleware

import (
	"net/http"

	"github.com/appzetogit/indiankart-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit rejects write requests whose body is larger than maxBytes.
// A declared Content-Length over the limit fails fast with 413; bodies of
// unknown length are capped while the handler reads them.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodePayloadTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
