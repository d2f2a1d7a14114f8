package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
)

// stubJWT 按令牌字符串返回固定的声明
type stubJWT struct {
	services.InterfaceJWTService
	claims map[string]*services.JWTClaims
}

func (s stubJWT) ValidateToken(token string) (*services.JWTClaims, error) {
	if claims, ok := s.claims[token]; ok {
		return claims, nil
	}
	return nil, code.NewUnauthorized(code.TokenInvalid, "%s", code.GetMessage(code.TokenInvalid))
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterRejectsAfterBurst(t *testing.T) {
	r := gin.New()
	r.GET("/limited", IPRateLimiter(0.001, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	headers := map[string]string{"X-Forwarded-For": "10.0.0.1"}
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/limited", headers).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/limited", headers).Code)
	w := serve(r, http.MethodGet, "/limited", headers)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"r":429`)

	// 其他 IP 有独立的令牌桶
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/limited", map[string]string{"X-Forwarded-For": "10.0.0.2"}).Code)
}

func TestLimiterSetEvictsIdleKeys(t *testing.T) {
	set := newLimiterSet(RateLimiterConfig{Rate: 1, Burst: 1, ExpiryTime: time.Millisecond})
	require.True(t, set.allow("a"))
	require.False(t, set.allow("a"))

	time.Sleep(5 * time.Millisecond)
	// 闲置的键被回收后重新拿到完整的令牌桶
	assert.True(t, set.allow("b"))
	set.mu.Lock()
	_, stillThere := set.entries["a"]
	set.mu.Unlock()
	assert.False(t, stillThere)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:3000/"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/x", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = serve(r, http.MethodGet, "/x", map[string]string{"Origin": "http://other.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodOptions, "/x", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := serve(r, http.MethodGet, "/ok", map[string]string{RequestIDHeader: "req-1"})
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	w = serve(r, http.MethodGet, "/missing", nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	InitAuthMiddleware(stubJWT{claims: map[string]*services.JWTClaims{
		"viewer-token":   {UserID: 7, Username: "guard", Role: models.RoleViewer},
		"operator-token": {UserID: 8, Username: "desk", Role: models.RoleOperator},
	}})

	r := gin.New()
	r.PUT("/lock", Authenticate(), RequireRole(models.RoleOperator), func(c *gin.Context) {
		id := CurrentUserID(c)
		require.NotNil(t, id)
		c.JSON(http.StatusOK, gin.H{"user": *id})
	})
	r.POST("/requests", OptionalAuthentication(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"anonymous": CurrentUserID(c) == nil})
	})

	w := serve(r, http.MethodPut, "/lock", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"r":1001`)

	w = serve(r, http.MethodPut, "/lock", map[string]string{"Authorization": "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"r":1002`)

	w = serve(r, http.MethodPut, "/lock", map[string]string{"Authorization": "Bearer viewer-token"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"r":1004`)

	w = serve(r, http.MethodPut, "/lock", map[string]string{"Authorization": "Bearer operator-token"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":8}`, w.Body.String())

	w = serve(r, http.MethodPost, "/requests", map[string]string{"Authorization": "Bearer garbage"})
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())
	w = serve(r, http.MethodPost, "/requests", map[string]string{"Authorization": "Bearer viewer-token"})
	assert.JSONEq(t, `{"anonymous":false}`, w.Body.String())
}

func TestCacheKeyIgnoresQueryOrder(t *testing.T) {
	PurgeCache()
	calls := 0
	r := gin.New()
	r.GET("/items", Cache(CacheConfig{Expiration: time.Minute}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	serve(r, http.MethodGet, "/items?b=2&a=1", nil)
	w := serve(r, http.MethodGet, "/items?a=1&b=2", nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	PurgeCacheByPrefix("/items")
	w = serve(r, http.MethodGet, "/items?a=1&b=2", nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, CacheStats()["total_items"])
}
