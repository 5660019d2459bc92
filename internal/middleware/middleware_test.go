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

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/service"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID int64, role models.UserRole) string {
	t.Helper()
	claims := models.JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/students/:id", append(handlers, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})...)
	return r
}

func serve(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	r := newRouter(JWT(service.NewAuthService(testSecret)))

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/students/1", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/students/1", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/students/1", "Bearer ").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/students/1", "Bearer not-a-jwt").Code)
}

func TestJWTAttachesClaims(t *testing.T) {
	var seen *models.JWTClaims
	r := newRouter(JWT(service.NewAuthService(testSecret)), func(c *gin.Context) {
		seen = ClaimsFrom(c)
		c.Next()
	})

	w := serve(r, "/students/1", "Bearer "+signToken(t, 7, models.RoleTeacher))

	require.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, int64(7), seen.UserID)
	assert.Equal(t, models.RoleTeacher, seen.Role)
}

func TestRBACAllowsRolesAndSelf(t *testing.T) {
	auth := service.NewAuthService(testSecret)
	r := newRouter(JWT(auth), RBAC(string(models.RoleAdmin), string(models.RoleTeacher), Self))

	assert.Equal(t, http.StatusNoContent, serve(r, "/students/9", "Bearer "+signToken(t, 1, models.RoleTeacher)).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, "/students/9", "Bearer "+signToken(t, 9, models.RoleStudent)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "/students/9", "Bearer "+signToken(t, 10, models.RoleStudent)).Code)
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	r := newRouter(RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/students/1", "").Code)
}

type recordingObserver struct {
	method string
	path   string
	status int
}

func (o *recordingObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	o.method, o.path, o.status = method, path, status
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	observer := &recordingObserver{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, "/students/42", "")
	assert.Equal(t, "/students/:id", observer.path)
	assert.Equal(t, http.StatusOK, observer.status)

	serve(r, "/nowhere", "")
	assert.Equal(t, "unmatched", observer.path)
	assert.Equal(t, http.StatusNotFound, observer.status)
}

func TestResponseMeta(t *testing.T) {
	var meta map[string]interface{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/students/:id", func(c *gin.Context) {
		SetCacheBypass(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	serve(r, "/students/1", "")

	require.NotNil(t, meta)
	assert.Equal(t, true, meta["cache_bypass"])
	assert.Contains(t, meta, "processing_time_ms")
}

func TestExtractMetaWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ExtractMeta(c))
}
