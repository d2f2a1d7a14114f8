package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levanhoang792/manage-building-sub000/internal/app/middleware"
	"github.com/levanhoang792/manage-building-sub000/internal/app/routes"
	"github.com/levanhoang792/manage-building-sub000/internal/domain/services/container"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/database"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/metrics"
	"github.com/levanhoang792/manage-building-sub000/internal/test/testdb"
)

type envelope struct {
	Message string          `json:"message"`
	R       int             `json:"r"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.PurgeCache()

	db := testdb.New(t)
	require.NoError(t, database.EnsureAdminExists(db, "admin-pass"))

	cfg := &config.Config{JWTSecretKey: "router-secret", ClientOrigin: "http://localhost:3000"}
	c := container.NewServiceContainer(container.Infrastructure{DB: db, Config: cfg, Metrics: metrics.New()})
	return routes.SetupRouter(c)
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func createdID(t *testing.T, w *httptest.ResponseRecorder, env envelope) uint {
	t.Helper()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var data struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotZero(t, data.ID)
	return data.ID
}

func TestPingAndPreflight(t *testing.T) {
	r := newRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, code.OK, env.R)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodOptions, "/api/buildings", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/buildings", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthenticationCodes(t *testing.T) {
	r := newRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/buildings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, code.TokenMissing, env.R)

	req := httptest.NewRequest(http.MethodGet, "/api/buildings", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w, env = do(t, r, http.MethodGet, "/api/buildings", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, code.TokenInvalid, env.R)

	w, env = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, code.InvalidCredentials, env.R)

	token := login(t, r, "admin", "admin-pass")
	w, env = do(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "admin", me.Username)
	assert.Equal(t, "admin", me.Role)
}

func TestRoleGuards(t *testing.T) {
	r := newRouter(t)
	admin := login(t, r, "admin", "admin-pass")

	w, env := do(t, r, http.MethodPost, "/api/users", admin, map[string]string{"username": "guard", "password": "guard-pass", "role": "viewer"})
	createdID(t, w, env)
	viewer := login(t, r, "guard", "guard-pass")

	w, env = do(t, r, http.MethodPost, "/api/buildings", viewer, map[string]string{"name": "HQ"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, code.PermissionDenied, env.R)

	w, _ = do(t, r, http.MethodGet, "/api/buildings", viewer, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/users", viewer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, code.PermissionDenied, env.R)

	w, env = do(t, r, http.MethodGet, "/api/buildings/abc", viewer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid building ID", env.Message)

	w, env = do(t, r, http.MethodGet, "/api/buildings/999", viewer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, code.NotFound, env.R)
}

func TestDoorRequestLifecycleOverHTTP(t *testing.T) {
	r := newRouter(t)
	admin := login(t, r, "admin", "admin-pass")

	w, env := do(t, r, http.MethodPost, "/api/buildings", admin, map[string]string{"name": "HQ", "address": "1 Main St"})
	buildingID := createdID(t, w, env)
	w, env = do(t, r, http.MethodPost, fmt.Sprintf("/api/buildings/%d/floors", buildingID), admin, map[string]interface{}{"name": "Ground", "floor_number": 0})
	floorID := createdID(t, w, env)
	doorsPath := fmt.Sprintf("/api/buildings/%d/floors/%d/doors", buildingID, floorID)
	w, env = do(t, r, http.MethodPost, doorsPath, admin, map[string]string{"name": "Main entrance"})
	doorID := createdID(t, w, env)

	// 访客无需登录即可提交
	w, env = do(t, r, http.MethodPost, "/api/door-requests", "", map[string]interface{}{
		"door_id":        doorID,
		"requester_name": "Alice",
		"purpose":        "Delivery",
	})
	requestID := createdID(t, w, env)

	w, env = do(t, r, http.MethodPut, fmt.Sprintf("/api/door-requests/%d/status", requestID), admin, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resolved struct {
		Status   string `json:"status"`
		DoorName string `json:"door_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resolved))
	assert.Equal(t, "approved", resolved.Status)
	assert.Equal(t, "Main entrance", resolved.DoorName)

	w, env = do(t, r, http.MethodGet, fmt.Sprintf("%s/%d/lock", doorsPath, doorID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lock struct {
		LockStatus string `json:"lock_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &lock))
	assert.Equal(t, "open", lock.LockStatus)

	w, env = do(t, r, http.MethodPut, fmt.Sprintf("/api/door-requests/%d/status", requestID), admin, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Door request has already been approved", env.Message)

	w, env = do(t, r, http.MethodPut, fmt.Sprintf("%s/%d/lock", doorsPath, doorID), admin, map[string]string{"lock_status": "open"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Door is already open", env.Message)

	w, env = do(t, r, http.MethodGet, fmt.Sprintf("%s/%d/lock-history", doorsPath, doorID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Equal(t, int64(1), history.Total)
}

func TestListCacheInvalidatedByWrites(t *testing.T) {
	r := newRouter(t)
	admin := login(t, r, "admin", "admin-pass")

	w, _ := do(t, r, http.MethodGet, "/api/buildings", admin, nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	w, _ = do(t, r, http.MethodGet, "/api/buildings", admin, nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w, env := do(t, r, http.MethodPost, "/api/buildings", admin, map[string]string{"name": "Annex"})
	createdID(t, w, env)

	w, env = do(t, r, http.MethodGet, "/api/buildings", admin, nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)
}

func TestReportDownloads(t *testing.T) {
	r := newRouter(t)
	admin := login(t, r, "admin", "admin-pass")

	w, env := do(t, r, http.MethodGet, "/api/reports/doors?type=summary", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, code.OK, env.R)

	w, _ = do(t, r, http.MethodGet, "/api/reports/doors?type=frequency&format=csv", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "door-report-frequency-")
	assert.True(t, strings.HasPrefix(w.Body.String(), "period,total_changes,opened,closed"))

	w, env = do(t, r, http.MethodGet, "/api/reports/doors?type=bogus", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "Invalid report type")
}

func TestHealthStatusAndMetrics(t *testing.T) {
	r := newRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/health/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var status struct {
		Status     string                            `json:"status"`
		Components map[string]map[string]interface{} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "up", status.Components["database"]["status"])
	assert.Equal(t, "disabled", status.Components["redis"]["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
