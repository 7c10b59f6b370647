package util

import "github.com/gin-gonic/gin"

// Error writes a JSON error body with the given HTTP status. The message is
// safe to show to clients; internal causes are logged at the call site only.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"message": msg})
}
