package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(store session.Store) *gin.Engine {
	r := gin.New()
	r.Use(TraceIDMiddleware(), SessionMiddleware(store, zap.NewNop()))
	r.GET("/open", func(c *gin.Context) {
		utils.RespondSuccess(c, CurrentSession(c).ID, "ok")
	})
	r.GET("/private", AuthMiddleware(store, 30*time.Second, zap.NewNop()), func(c *gin.Context) {
		utils.RespondSuccess(c, c.GetInt64("user_id"), "ok")
	})
	return r
}

func token(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestSessionMiddleware_IssuesAndReusesSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	r := newRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(SessionHeader)
	require.NotEmpty(t, id)
	assert.NotEmpty(t, w.Header().Get(TraceHeader))

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(SessionHeader, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(SessionHeader))

	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(SessionHeader, "unknown")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "unknown", w.Header().Get(SessionHeader))
}

func TestAuthMiddleware(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	r := newRouter(store)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	anonymous := session.New()
	require.NoError(t, store.Save(ctx, anonymous))

	valid := session.New()
	valid.AccessToken = token(t, time.Now().Add(time.Hour))
	valid.Profile = &session.Profile{ID: 42}
	require.NoError(t, store.Save(ctx, valid))

	expired := session.New()
	expired.AccessToken = token(t, time.Now().Add(10*time.Second))
	require.NoError(t, store.Save(ctx, expired))

	call := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set(SessionHeader, id)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := call(anonymous.ID)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/login"`)

	assert.Equal(t, http.StatusOK, call(valid.ID).Code)

	// inside the skew counts as expired and clears the stored tokens
	assert.Equal(t, http.StatusUnauthorized, call(expired.ID).Code)
	s, err := store.Load(ctx, expired.ID)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
