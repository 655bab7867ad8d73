// file: controllers/main_test.go
//go:build unit
// +build unit

package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"lanmomo-web/middleware"
	"lanmomo-web/services"
)

// testEnv is a router with session and visitor middleware, plus one visitor
// whose upstream is a mock.
type testEnv struct {
	router  *gin.Engine
	api     *services.MockLanAPI
	visitor *services.Visitor
	cookies []*http.Cookie
}

// newTestEnv builds the router and registers a visitor through a helper
// route so later requests carry its session cookie.
func newTestEnv(t *testing.T, routes func(r gin.IRoutes)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := new(services.MockLanAPI)
	registry := services.NewVisitorRegistry(func() services.LanAPI { return api })

	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store), middleware.LoadVisitor(registry))
	router.GET("/__visitor", func(c *gin.Context) {
		v, _ := middleware.CurrentVisitor(c)
		c.String(http.StatusOK, v.ID)
	})
	routes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/__visitor", nil))
	require.Equal(t, http.StatusOK, w.Code)
	visitor, ok := registry.Get(w.Body.String())
	require.True(t, ok)

	return &testEnv{router: router, api: api, visitor: visitor, cookies: w.Result().Cookies()}
}

// do sends a request as the env's visitor. body is JSON-encoded unless nil.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range e.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
