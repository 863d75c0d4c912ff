package response

import (
	"github.com/gin-gonic/gin"
)

// Handlers speak a flat JSON contract: successes are {message, ...payload},
// failures are {error, details?} with one field-qualified detail per
// violated rule.

type ErrorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func Error(c *gin.Context, status int, msg string, details []string) {
	c.JSON(status, ErrorBody{Error: msg, Details: details})
}

// AbortError is Error for middleware, stopping the handler chain.
func AbortError(c *gin.Context, status int, msg string, details []string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg, Details: details})
}
