// main_test.go
//go:build unit
// +build unit

package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"lanmomo-web/config"
	"lanmomo-web/models"
	"lanmomo-web/services"
	"lanmomo-web/websocket"
)

func testRouter(t *testing.T, api *services.MockLanAPI) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		SessionSecret:   "test-secret",
		PublicURL:       "https://lanmomo.test",
		PCCapacity:      10,
		ConsoleCapacity: 4,
	}
	registry := services.NewVisitorRegistry(func() services.LanAPI { return api })
	hub := websocket.NewHub(websocket.NoopMetrics{})
	handler := websocket.NewHandler(hub, viewConfig(cfg), websocket.NoopMetrics{}, nil)
	return setupRouter(cfg, registry, handler)
}

// Given: a router built as in main.
// When: GET /health.
// Then: 200 OK with no visitor cookie.
func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t, new(services.MockLanAPI))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.Empty(t, w.Result().Cookies(), "health checks must not create visitors")
}

// Given: an anonymous visitor.
// When: they hit a route behind AuthRequired.
// Then: a 401 JSON error comes back and the upstream is never called.
func TestProtectedRoutes_RequireLogin(t *testing.T) {
	api := new(services.MockLanAPI)
	router := testRouter(t, api)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/pay/summary"},
		{http.MethodPut, "/pay"},
		{http.MethodGet, "/profile"},
		{http.MethodPost, "/teams"},
		{http.MethodDelete, "/teams/3"},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}")))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
	api.AssertExpectations(t)
}

// Given: a visitor whose upstream session is live.
// When: they call /session then a protected route with the same cookie.
// Then: the session flag carries across requests.
func TestSessionCookieCarriesLogin(t *testing.T) {
	api := new(services.MockLanAPI)
	api.On("GetLoginState", mock.Anything).Return(models.LoginState{LoggedIn: true}, nil)
	api.On("DeleteTeam", mock.Anything, 3).Return(nil)
	router := testRouter(t, api)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/session", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"logged_in":true,"staging":false,"commit":""}`, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodDelete, "/teams/3", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
