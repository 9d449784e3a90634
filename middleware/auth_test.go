package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"Scrawl/middleware"
	models "Scrawl/models/postgres"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/owned/:uuid", middleware.VerifyJWT, middleware.RequireOwner, func(c *gin.Context) {
		claims, _ := middleware.TokenClaims(c)
		c.JSON(http.StatusOK, gin.H{"uuid": claims.UUID})
	})
	r.GET("/verified/:uuid", middleware.VerifyJWT, middleware.RequireOwner, middleware.RequireVerified, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/mod", middleware.VerifyJWT, middleware.RequireModerator, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func tokenFor(t *testing.T, account *models.Account) string {
	token, err := middleware.CreateAccessToken(account)
	assert.NoError(t, err)
	return token
}

func TestVerifyJWT(t *testing.T) {
	t.Setenv("JWTSECRET", "unit-test-secret")
	r := newRouter()

	account := &models.Account{
		UUID:     "11111111-1111-1111-1111-111111111111",
		Name:     "alice",
		Verified: true,
		UserType: models.UserTypeNone,
	}

	t.Run("Valid token passes and exposes claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/owned/"+account.UUID, nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, account))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), account.UUID)
	})

	t.Run("Missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/owned/"+account.UUID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Garbage token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/owned/"+account.UUID, nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Token signed with another secret is rejected", func(t *testing.T) {
		token := tokenFor(t, account)
		t.Setenv("JWTSECRET", "rotated-secret")
		req := httptest.NewRequest(http.MethodGet, "/owned/"+account.UUID, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireOwner(t *testing.T) {
	t.Setenv("JWTSECRET", "unit-test-secret")
	r := newRouter()

	owner := &models.Account{
		UUID:     "11111111-1111-1111-1111-111111111111",
		Name:     "alice",
		Verified: true,
		UserType: models.UserTypeNone,
	}
	moderator := &models.Account{
		UUID:     "33333333-3333-3333-3333-333333333333",
		Name:     "mod",
		Verified: true,
		UserType: models.UserTypeModerator,
	}

	t.Run("Owner reaches their own resource", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/owned/"+owner.UUID, nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, owner))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Stranger is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/owned/22222222-2222-2222-2222-222222222222", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, owner))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Moderator reaches anyone's resource", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/owned/"+owner.UUID, nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, moderator))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireVerified(t *testing.T) {
	t.Setenv("JWTSECRET", "unit-test-secret")
	r := newRouter()

	unverified := &models.Account{
		UUID:     "11111111-1111-1111-1111-111111111111",
		Name:     "newbie",
		Verified: false,
		UserType: models.UserTypeNone,
	}
	verified := &models.Account{
		UUID:     "11111111-1111-1111-1111-111111111111",
		Name:     "alice",
		Verified: true,
		UserType: models.UserTypeNone,
	}

	t.Run("Unverified account is blocked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/verified/"+unverified.UUID, nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, unverified))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Verified account passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/verified/"+verified.UUID, nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, verified))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireModerator(t *testing.T) {
	t.Setenv("JWTSECRET", "unit-test-secret")
	r := newRouter()

	t.Run("Plain account is forbidden", func(t *testing.T) {
		account := &models.Account{UUID: "11111111-1111-1111-1111-111111111111", Name: "alice", UserType: models.UserTypeNone}
		req := httptest.NewRequest(http.MethodGet, "/mod", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, account))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin passes the moderator gate", func(t *testing.T) {
		admin := &models.Account{UUID: "44444444-4444-4444-4444-444444444444", Name: "root", UserType: models.UserTypeAdmin}
		req := httptest.NewRequest(http.MethodGet, "/mod", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, admin))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
