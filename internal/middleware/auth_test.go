// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/velora-shop/velora-backend/internal/utils"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *AuthMiddlewareTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("middleware-test-secret")

	suite.router = gin.New()
	suite.router.GET("/protected", AuthRequired(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("user_role")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	suite.router.GET("/admin", AuthRequired(), AdminRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	suite.router.GET("/optional", OptionalAuth(), func(c *gin.Context) {
		_, authed := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"authenticated": authed})
	})
}

func (suite *AuthMiddlewareTestSuite) request(path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthMiddlewareTestSuite) TestMissingToken() {
	w := suite.request("/protected", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestMalformedHeader() {
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestInvalidToken() {
	w := suite.request("/protected", "not-a-real-token")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestValidToken() {
	token, err := utils.GenerateJWT(uuid.New(), "alice", "customer", 1)
	assert.NoError(suite.T(), err)

	w := suite.request("/protected", token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "customer")
}

func (suite *AuthMiddlewareTestSuite) TestAdminRequiredRejectsCustomer() {
	token, err := utils.GenerateJWT(uuid.New(), "alice", "customer", 1)
	assert.NoError(suite.T(), err)

	w := suite.request("/admin", token)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestAdminRequiredAllowsAdmin() {
	token, err := utils.GenerateJWT(uuid.New(), "root", "admin", 1)
	assert.NoError(suite.T(), err)

	w := suite.request("/admin", token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestOptionalAuthWithoutToken() {
	w := suite.request("/optional", "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"authenticated":false`)
}

func (suite *AuthMiddlewareTestSuite) TestOptionalAuthWithToken() {
	token, err := utils.GenerateJWT(uuid.New(), "alice", "customer", 1)
	assert.NoError(suite.T(), err)

	w := suite.request("/optional", token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"authenticated":true`)
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}
