package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joinboard/join-api/internal/models"
	"github.com/stretchr/testify/require"
)

// run executes fn inside a request that carries the session cookies of
// the previous response.
func run(t *testing.T, r *gin.Engine, from *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if from != nil {
		cookies := map[string]*http.Cookie{}
		for _, c := range from.Result().Cookies() {
			cookies[c.Name] = c
		}
		for _, c := range cookies {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newRouter(fn func(c *gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("join_session", cookie.NewStore([]byte("secret"))))
	r.GET("/", fn)
	return r
}

func TestActiveUserRoundTrip(t *testing.T) {
	snap := &models.ActiveUser{ID: 2, Name: "A B", Initials: "AB", Tasks: []int{6, 7}, Contacts: []int{1}}

	r := newRouter(func(c *gin.Context) {
		_, ok := ActiveUser(c)
		require.False(t, ok, "fresh session has no snapshot")
		require.NoError(t, SetActiveUser(c, snap))
	})
	first := run(t, r, nil)

	r = newRouter(func(c *gin.Context) {
		loaded, ok := ActiveUser(c)
		require.True(t, ok)
		require.Equal(t, snap, loaded)
	})
	run(t, r, first)
}

func TestClearKeepsRememberMe(t *testing.T) {
	r := newRouter(func(c *gin.Context) {
		require.NoError(t, SetActiveUser(c, &models.ActiveUser{ID: 2}))
		require.NoError(t, SetRememberMe(c, &RememberMe{Email: "a@b.c", Password: "pw"}))
		require.NoError(t, SetGreetingShown(c, true))
	})
	loggedIn := run(t, r, nil)

	r = newRouter(func(c *gin.Context) {
		require.NoError(t, Clear(c))
	})
	loggedOut := run(t, r, loggedIn)

	r = newRouter(func(c *gin.Context) {
		_, ok := ActiveUser(c)
		require.False(t, ok)
		require.False(t, GreetingShown(c))

		remember, ok := RememberedCredentials(c)
		require.True(t, ok, "remember-me survives logout")
		require.Equal(t, "a@b.c", remember.Email)
	})
	run(t, r, loggedOut)
}

func TestGreetingShownFlag(t *testing.T) {
	r := newRouter(func(c *gin.Context) {
		require.False(t, GreetingShown(c))
		require.NoError(t, SetGreetingShown(c, true))
		require.True(t, GreetingShown(c))
	})
	run(t, r, nil)
}

func TestClearRememberMe(t *testing.T) {
	r := newRouter(func(c *gin.Context) {
		require.NoError(t, SetRememberMe(c, &RememberMe{Email: "a@b.c", Password: "pw"}))
		require.NoError(t, ClearRememberMe(c))
		_, ok := RememberedCredentials(c)
		require.False(t, ok)
	})
	run(t, r, nil)
}
