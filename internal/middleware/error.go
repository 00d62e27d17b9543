package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/forkfeed/backend/internal/errs"
)

// ErrorHandler translates errors attached to the gin context into JSON
// responses. Taxonomy errors keep their message; anything else is
// logged and hidden behind a generic 500 so infrastructure errors never
// leak to clients.
func ErrorHandler(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := errs.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("request failed")
			c.JSON(status, gin.H{"error": "internal server error"})
			return
		}

		c.JSON(status, gin.H{"error": err.Error()})
	}
}
