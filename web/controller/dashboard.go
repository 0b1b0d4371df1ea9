package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sidac/sidac-ui/database"
	"github.com/sidac/sidac-ui/logger"
	"github.com/sidac/sidac-ui/web/service"
	"github.com/sidac/sidac-ui/web/session"
)

// DashboardController handles the session-gated dashboard.
type DashboardController struct {
	BaseController

	userService service.UserService
}

// NewDashboardController creates a new DashboardController and initializes its routes.
func NewDashboardController(g *gin.RouterGroup) *DashboardController {
	a := &DashboardController{}
	a.initRouter(g)
	return a
}

func (a *DashboardController) initRouter(g *gin.RouterGroup) {
	g.GET("/dashboard", a.checkLogin, a.dashboard)
}

// dashboard resolves the session reference back to a user row and renders
// the dashboard. A session pointing at a deleted row is cleared.
func (a *DashboardController) dashboard(c *gin.Context) {
	loginUser := session.GetLoginUser(c)

	user, err := a.userService.GetUserById(loginUser.Id)
	if database.IsNotFound(err) {
		logger.Warningf("session for missing user id %d, clearing", loginUser.Id)
		if err := session.ClearSession(c); err != nil {
			logger.Warning("unable to clear session:", err)
		}
		c.Redirect(http.StatusTemporaryRedirect, "/login")
		return
	} else if err != nil {
		htmlError(c, err)
		return
	}

	html(c, "dashboard.html", "Dashboard", gin.H{
		"name": user.Username,
	})
}
