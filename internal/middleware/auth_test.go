package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/forkfeed/backend/internal/errs"
	"github.com/forkfeed/backend/internal/types"
)

// stubValidator accepts exactly one token string.
type stubValidator struct {
	token  string
	userID uuid.UUID
}

func (v *stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != v.token {
		return nil, errs.Unauthorized("invalid token")
	}
	return &types.TokenClaims{UserID: v.userID, Username: "alice"}, nil
}

func authTestRouter(required bool, validator TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	mw := OptionalAuthMiddleware(validator)
	if required {
		mw = AuthMiddleware(validator)
	}
	router.GET("/test", mw, func(c *gin.Context) {
		if id, ok := UserID(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": id})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	})
	return router
}

func getWithHeader(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	router := authTestRouter(true, &stubValidator{token: "good", userID: userID})

	w := getWithHeader(router, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())

	w = getWithHeader(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization header")

	w = getWithHeader(router, "NotBearer good")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid authorization header format")

	w = getWithHeader(router, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	router := authTestRouter(false, &stubValidator{token: "good", userID: userID})

	// Anonymous requests pass with no identity set.
	w := getWithHeader(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")

	// A bad token is treated as anonymous rather than rejected.
	w = getWithHeader(router, "Bearer bad")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")

	w = getWithHeader(router, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestViewer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, Viewer(c))

	id := uuid.New()
	c.Set(userIDKey, id)
	viewer := Viewer(c)
	if assert.NotNil(t, viewer) {
		assert.Equal(t, id, *viewer)
	}
}
