package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Recovery converts a handler panic into a 500 response; a bad trigger
// request must never take the API down while a run is queued.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Str("request_id", c.GetString(requestIDKey)).
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("Handler panicked")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success":    false,
					"error":      "internal error",
					"request_id": c.GetString(requestIDKey),
				})
			}
		}()

		c.Next()
	}
}
