package handler

import (
	"net/http"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/middleware"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/models"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user set by the auth middleware. The
// second return is false after an error response has already been written.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Authentication token is required")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, "Authentication token is required")
		return nil, false
	}
	return user, true
}
