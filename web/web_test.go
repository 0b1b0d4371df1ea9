package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/op/go-logging"

	"github.com/sidac/sidac-ui/config"
	"github.com/sidac/sidac-ui/database"
	"github.com/sidac/sidac-ui/logger"
	"github.com/sidac/sidac-ui/web/service"
)

func TestMain(m *testing.M) {
	os.Setenv("SIDAC_LOG_FOLDER", os.TempDir())
	logger.InitLogger(logging.ERROR)
	os.Exit(m.Run())
}

// newTestServer boots the full router over a fresh database and returns a
// client with a cookie jar that does not follow redirects.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	t.Setenv("SIDAC_DB_FOLDER", t.TempDir())
	if err := database.InitDB(config.GetDBPath()); err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}

	s := NewServer()
	engine, err := s.initRouter()
	if err != nil {
		t.Fatalf("initRouter() error = %v", err)
	}

	ts := httptest.NewServer(engine)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return ts, client
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func postForm(t *testing.T, client *http.Client, url string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client.PostForm(url, form)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func signupForm(username, email, password string) url.Values {
	return url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	}
}

func TestLandingPage(t *testing.T) {
	ts, client := newTestServer(t)

	resp, body := get(t, client, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "SIDAC") {
		t.Error("landing page does not mention SIDAC")
	}
}

func TestHealthz(t *testing.T) {
	ts, client := newTestServer(t)

	resp, body := get(t, client, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /healthz status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"success":true`) {
		t.Errorf("unexpected healthz body: %s", body)
	}
}

func TestSignupValidation(t *testing.T) {
	ts, client := newTestServer(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		errMsg   string
	}{
		{name: "username too short", username: "abc", email: "a@x.com", password: "longpw12", errMsg: "Must be at least 4 characters"},
		{name: "username too long", username: "abcdefghijklmnop", email: "a@x.com", password: "longpw12", errMsg: "Must be at most 15 characters"},
		{name: "password too short", username: "alice1", email: "a@x.com", password: "short", errMsg: "Must be at least 8 characters"},
		{name: "bad email", username: "alice1", email: "not-an-email", password: "longpw12", errMsg: "Invalid email"},
		{name: "missing fields", username: "", email: "", password: "", errMsg: "This field is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postForm(t, client, ts.URL+"/signup", signupForm(tt.username, tt.email, tt.password))
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("POST /signup status = %d", resp.StatusCode)
			}
			if !strings.Contains(body, tt.errMsg) {
				t.Errorf("signup response does not contain %q", tt.errMsg)
			}
		})
	}

	userService := service.UserService{}
	count, err := userService.CountUsers()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("CountUsers() = %d after rejected registrations, expected 0", count)
	}
}

func TestSignupDuplicate(t *testing.T) {
	ts, client := newTestServer(t)

	_, body := postForm(t, client, ts.URL+"/signup", signupForm("alice1", "a@x.com", "longpw12"))
	if !strings.Contains(body, "The user has been created") {
		t.Fatal("first registration did not succeed")
	}

	_, body = postForm(t, client, ts.URL+"/signup", signupForm("alice1", "other@x.com", "longpw12"))
	if !strings.Contains(body, "already taken") {
		t.Error("duplicate username was not rejected")
	}

	userService := service.UserService{}
	count, err := userService.CountUsers()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("CountUsers() = %d, expected 1", count)
	}
}

func TestDashboardRequiresLogin(t *testing.T) {
	ts, client := newTestServer(t)

	resp, _ := get(t, client, ts.URL+"/dashboard")
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("GET /dashboard status = %d, expected redirect", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("redirect location = %q, expected /login", loc)
	}
}

func TestLoginLogoutFlow(t *testing.T) {
	ts, client := newTestServer(t)

	_, body := postForm(t, client, ts.URL+"/signup", signupForm("alice1", "a@x.com", "longpw12"))
	if !strings.Contains(body, "The user has been created") {
		t.Fatal("registration did not succeed")
	}

	// wrong password and unknown username must yield the same generic message
	const genericMsg = "Invalid username or password"
	resp, body := postForm(t, client, ts.URL+"/login", url.Values{
		"username": {"alice1"}, "password": {"wrongpw12"},
	})
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, genericMsg) {
		t.Errorf("wrong password: status = %d, generic message missing", resp.StatusCode)
	}
	resp, body = postForm(t, client, ts.URL+"/login", url.Values{
		"username": {"ghost1"}, "password": {"longpw12"},
	})
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, genericMsg) {
		t.Errorf("unknown username: status = %d, generic message missing", resp.StatusCode)
	}

	// correct credentials open the session
	resp, _ = postForm(t, client, ts.URL+"/login", url.Values{
		"username": {"alice1"}, "password": {"longpw12"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("login status = %d, expected 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("login redirect = %q, expected /dashboard", loc)
	}

	resp, body = get(t, client, ts.URL+"/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /dashboard status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "alice1") {
		t.Error("dashboard does not show the username")
	}

	// logout invalidates the session
	resp, _ = get(t, client, ts.URL+"/logout")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("logout status = %d, expected 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("logout redirect = %q, expected /", loc)
	}

	resp, _ = get(t, client, ts.URL+"/dashboard")
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("GET /dashboard after logout status = %d, expected redirect", resp.StatusCode)
	}
}

func TestRememberExtendsCookie(t *testing.T) {
	ts, client := newTestServer(t)

	postForm(t, client, ts.URL+"/signup", signupForm("alice1", "a@x.com", "longpw12"))

	resp, _ := postForm(t, client, ts.URL+"/login", url.Values{
		"username": {"alice1"}, "password": {"longpw12"}, "remember": {"true"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("login status = %d", resp.StatusCode)
	}

	persistent := false
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName && c.MaxAge > 0 {
			persistent = true
		}
	}
	if !persistent {
		t.Error("remember=true did not produce a persistent session cookie")
	}
}

func TestLoginValidation(t *testing.T) {
	ts, client := newTestServer(t)

	resp, body := postForm(t, client, ts.URL+"/login", url.Values{
		"username": {"abc"}, "password": {"longpw12"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /login status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Must be at least 4 characters") {
		t.Error("short username was not rejected by validation")
	}
}
