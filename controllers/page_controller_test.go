// controllers/page_controller_test.go
//go:build unit
// +build unit

package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"lanmomo-web/models"
)

// TestHealth tests the Health function
func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestVisitorOrAbort_MissingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/teams", NewTeamsController().List)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teams", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func signupRoutes(r gin.IRoutes) {
	sc := NewSignupController()
	r.POST("/signup", sc.Signup)
	r.POST("/signup/has/:field", sc.Has)
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t, signupRoutes)
	req := models.SignupRequest{
		Username: "joe", Email: "joe@lanmomo.org", Password: "secret1",
		FirstName: "Joe", LastName: "Tremblay",
	}
	env.api.On("Signup", mock.Anything, req).Return(models.MessageResponse{Message: "check your inbox"}, nil)

	w := env.do(t, http.MethodPost, "/signup", req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "check your inbox", decodeBody(t, w)["message"])
}

func TestSignup_ValidationErrorListsFields(t *testing.T) {
	env := newTestEnv(t, signupRoutes)

	w := env.do(t, http.MethodPost, "/signup", map[string]string{"username": "joe"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["message"], "email (required)")
	env.api.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestSignupHas(t *testing.T) {
	env := newTestEnv(t, signupRoutes)
	env.api.On("HasUsername", mock.Anything, "free").Return(false, nil)
	env.api.On("HasUsername", mock.Anything, "broken").Return(false, models.NewAPIError(http.StatusInternalServerError, ""))

	w := env.do(t, http.MethodPost, "/signup/has/username", map[string]string{"value": "free"})
	assert.Equal(t, true, decodeBody(t, w)["available"])

	w = env.do(t, http.MethodPost, "/signup/has/username", map[string]string{"value": "broken"})
	assert.Equal(t, false, decodeBody(t, w)["available"], "lookup failures count as taken")
}

func TestQRLookup(t *testing.T) {
	env := newTestEnv(t, func(r gin.IRoutes) { r.GET("/qr/:token", NewQRController().Lookup) })
	env.api.On("LookupQR", mock.Anything, "abc").Return(models.QRLookup{
		Ticket: &models.Ticket{ID: 9, TypeID: models.TicketTypeConsole, Paid: true},
		Owner:  &models.User{Username: "joe"},
	}, nil)
	env.api.On("LookupQR", mock.Anything, "nope").Return(models.QRLookup{}, models.NewAPIError(http.StatusNotFound, "unknown code"))

	w := env.do(t, http.MethodGet, "/qr/abc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Console", body["typeLabel"])
	assert.Equal(t, "joe", body["owner"].(map[string]interface{})["username"])

	w = env.do(t, http.MethodGet, "/qr/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func teamRoutes(r gin.IRoutes) {
	tc := NewTeamsController()
	r.GET("/teams", tc.List)
	r.POST("/teams", tc.Create)
	r.DELETE("/teams/:id", tc.Delete)
}

func TestTeams(t *testing.T) {
	env := newTestEnv(t, teamRoutes)
	env.api.On("ListTeams", mock.Anything).Return(nil, nil)
	req := models.TeamRequest{Name: "Momo Rush", Game: "CS2"}
	env.api.On("CreateTeam", mock.Anything, req).Return(nil)
	env.api.On("DeleteTeam", mock.Anything, 4).Return(nil)

	w := env.do(t, http.MethodGet, "/teams", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"teams":[]}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/teams", req)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodDelete, "/teams/4", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodDelete, "/teams/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.api.AssertExpectations(t)
}

func TestServersList(t *testing.T) {
	env := newTestEnv(t, func(r gin.IRoutes) { r.GET("/servers", NewServersController().List) })
	env.api.On("ListServers", mock.Anything).Return(models.Servers{}, nil).Once()
	env.api.On("ListServers", mock.Anything).Return(nil, models.NewAPIError(http.StatusServiceUnavailable, "query timeout")).Once()

	w := env.do(t, http.MethodGet, "/servers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"servers":{},"empty":true}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/servers", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
