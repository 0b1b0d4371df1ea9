package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sidac/sidac-ui/config"
	"github.com/sidac/sidac-ui/logger"
	"github.com/sidac/sidac-ui/web/service"
	"github.com/sidac/sidac-ui/web/session"
)

// IndexController handles the landing page, login, signup and logout routes.
type IndexController struct {
	BaseController

	userService service.UserService
}

// NewIndexController creates a new IndexController and initializes its routes.
func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/login", a.loginPage)
	g.POST("/login", a.login)
	g.GET("/signup", a.signupPage)
	g.POST("/signup", a.signup)
	g.GET("/logout", a.checkLogin, a.logout)
}

// index renders the static landing page.
func (a *IndexController) index(c *gin.Context) {
	html(c, "index.html", "Home", nil)
}

// loginPage renders the empty login form.
func (a *IndexController) loginPage(c *gin.Context) {
	html(c, "login.html", "Login", nil)
}

// login authenticates a credential pair and opens the session. Unknown
// usernames and wrong passwords produce the same generic message.
func (a *IndexController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		html(c, "login.html", "Login", gin.H{
			"errors":   fieldErrors(err),
			"username": c.PostForm("username"),
		})
		return
	}

	user := a.userService.CheckUser(form.Username, form.Password)
	if user == nil {
		logger.Warningf("failed login for %q, IP: %s", form.Username, getRemoteIp(c))
		html(c, "login.html", "Login", gin.H{
			"failMsg":  "Invalid username or password",
			"username": form.Username,
		})
		return
	}

	if form.Remember {
		if err := session.SetMaxAge(c, config.GetSessionMaxAge()); err != nil {
			logger.Warning("unable to set session max age:", err)
		}
	}
	if err := session.SetLoginUser(c, user); err != nil {
		htmlError(c, err)
		return
	}

	logger.Infof("%s logged in successfully, IP: %s", user.Username, getRemoteIp(c))
	c.Redirect(http.StatusFound, "/dashboard")
}

// signupPage renders the empty registration form.
func (a *IndexController) signupPage(c *gin.Context) {
	html(c, "signup.html", "Sign Up", nil)
}

// signup registers a new user. Registration is open; no session is opened
// for the new user.
func (a *IndexController) signup(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		html(c, "signup.html", "Sign Up", gin.H{
			"errors":   fieldErrors(err),
			"username": c.PostForm("username"),
			"email":    c.PostForm("email"),
		})
		return
	}

	user, err := a.userService.CreateUser(form.Username, form.Email, form.Password)
	if errors.Is(err, service.ErrUserExists) {
		html(c, "signup.html", "Sign Up", gin.H{
			"failMsg":  "Username or email is already taken",
			"username": form.Username,
			"email":    form.Email,
		})
		return
	} else if err != nil {
		htmlError(c, err)
		return
	}

	logger.Infof("new user %s registered, IP: %s", user.Username, getRemoteIp(c))
	html(c, "signup.html", "Sign Up", gin.H{
		"successMsg": "The user has been created",
	})
}

// logout closes the session and redirects to the landing page.
func (a *IndexController) logout(c *gin.Context) {
	user := session.GetLoginUser(c)
	if user != nil {
		logger.Infof("%s logged out", user.Username)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to clear session:", err)
	}
	c.Redirect(http.StatusFound, "/")
}
