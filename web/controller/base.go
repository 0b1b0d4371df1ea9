// Package controller provides the HTTP request handlers of sidac-ui:
// landing page, login, signup, session-gated dashboard and logout.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sidac/sidac-ui/web/session"
)

// BaseController provides common functionality for all controllers.
type BaseController struct{}

// checkLogin is a middleware that redirects anonymous requests to the login page.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		c.Redirect(http.StatusTemporaryRedirect, "/login")
		c.Abort()
	} else {
		c.Next()
	}
}
