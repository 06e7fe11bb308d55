package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (s *stubValidator) ValidateToken(string) (*types.TokenClaims, error) {
	return s.claims, s.err
}

func newAuthRouter(validator middleware.TokenValidator, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	mw := middleware.AuthMiddleware(validator)
	if optional {
		mw = middleware.OptionalAuthMiddleware(validator)
	}

	router.GET("/probe", mw, func(c *gin.Context) {
		if id := middleware.CurrentUserID(c); id != nil {
			c.JSON(http.StatusOK, gin.H{"user_id": id.String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	})
	return router
}

func probe(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := &stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "alice"}}
	invalid := &stubValidator{err: errors.New("bad token")}

	t.Run("accepts valid bearer token", func(t *testing.T) {
		w := probe(newAuthRouter(valid, false), "Bearer some-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("rejects missing header", func(t *testing.T) {
		w := probe(newAuthRouter(valid, false), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		w := probe(newAuthRouter(valid, false), "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		w := probe(newAuthRouter(invalid, false), "Bearer some-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := &stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "alice"}}
	invalid := &stubValidator{err: errors.New("bad token")}

	t.Run("resolves the caller when the token is valid", func(t *testing.T) {
		w := probe(newAuthRouter(valid, true), "Bearer some-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("lets anonymous requests through", func(t *testing.T) {
		w := probe(newAuthRouter(valid, true), "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "null")
	})

	t.Run("treats a bad token as anonymous", func(t *testing.T) {
		w := probe(newAuthRouter(invalid, true), "Bearer some-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "null")
	})
}
