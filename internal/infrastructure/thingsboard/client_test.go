package thingsboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	logins     int32
	attrCalls  int32
	telemetry  int32
	reject     int32 // 接下来拒绝多少次属性请求（401）
	failAttrs  bool
	lastAttrs  map[string]interface{}
	lastDevice string
}

func (p *fakePlatform) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&p.logins, 1)
		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":401,"message":"Invalid username or password","errorCode":10}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(loginResponse{Token: "jwt-" + string(rune('0'+n))})
	})
	mux.HandleFunc("/api/plugins/telemetry/DEVICE/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&p.attrCalls, 1)
		if !strings.HasPrefix(r.Header.Get("X-Authorization"), "Bearer jwt-") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if atomic.LoadInt32(&p.reject) > 0 {
			atomic.AddInt32(&p.reject, -1)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if p.failAttrs {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"status":500,"message":"boom"}`))
			return
		}
		parts := strings.Split(r.URL.Path, "/")
		p.lastDevice = parts[5]
		p.lastAttrs = map[string]interface{}{}
		_ = json.NewDecoder(r.Body).Decode(&p.lastAttrs)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&p.telemetry, 1)
		if !strings.HasSuffix(r.URL.Path, "/telemetry") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func newTestClient(t *testing.T, p *fakePlatform) *Client {
	srv := httptest.NewServer(p.handler(t))
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Username: "tenant@example.com", Password: "secret", Timeout: 2 * time.Second}, nil)
}

func TestClient_LoginCachesToken(t *testing.T) {
	p := &fakePlatform{}
	c := newTestClient(t, p)

	first, err := c.Token(context.Background())
	require.NoError(t, err)
	second, err := c.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&p.logins))
}

func TestClient_LoginRejected(t *testing.T) {
	p := &fakePlatform{}
	srv := httptest.NewServer(p.handler(t))
	defer srv.Close()
	c := NewClient(Config{BaseURL: srv.URL, Username: "x", Password: "wrong"}, nil)

	_, err := c.Login(context.Background())
	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "Invalid username or password", statusErr.Message)
}

func TestClient_UpdateAttributesRetriesAfterUnauthorized(t *testing.T) {
	p := &fakePlatform{reject: 1}
	c := newTestClient(t, p)

	err := c.UpdateDeviceAttributes(context.Background(), "dev-1", map[string]interface{}{"lock_status": "open"})
	require.NoError(t, err)

	assert.EqualValues(t, 2, atomic.LoadInt32(&p.logins))
	assert.EqualValues(t, 2, atomic.LoadInt32(&p.attrCalls))
	assert.Equal(t, "dev-1", p.lastDevice)
	assert.Equal(t, "open", p.lastAttrs["lock_status"])
}

func TestClient_UpdateAttributesGivesUpAfterSecondUnauthorized(t *testing.T) {
	p := &fakePlatform{reject: 5}
	c := newTestClient(t, p)

	err := c.UpdateDeviceAttributes(context.Background(), "dev-1", map[string]interface{}{"lock_status": "open"})
	require.Error(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&p.attrCalls))
}

func TestClient_SendTelemetry(t *testing.T) {
	p := &fakePlatform{}
	c := newTestClient(t, p)

	require.NoError(t, c.SendTelemetry(context.Background(), "device-token", map[string]interface{}{"lock_status": "closed"}))
	assert.EqualValues(t, 1, atomic.LoadInt32(&p.telemetry))
	assert.Error(t, c.SendTelemetry(context.Background(), "", nil))
}

func TestClient_SyncDoorStateNeverFails(t *testing.T) {
	p := &fakePlatform{failAttrs: true}
	c := newTestClient(t, p)

	result := c.SyncDoorState(context.Background(), DoorSync{
		DeviceID:    "dev-1",
		AccessToken: "device-token",
		Attributes:  map[string]interface{}{"lock_status": "open"},
		Telemetry:   map[string]interface{}{"lock_status": "open"},
	})

	assert.False(t, result.Skipped)
	assert.False(t, result.OK())
	assert.Error(t, result.AttributesErr)
	assert.NoError(t, result.TelemetryErr)
	assert.Error(t, result.Err())
}

func TestClient_SyncDoorStateUnreachable(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Username: "u", Password: "p", Timeout: 200 * time.Millisecond}, nil)

	result := c.SyncDoorState(context.Background(), DoorSync{
		DeviceID:   "dev-1",
		Attributes: map[string]interface{}{"lock_status": "open"},
	})
	assert.False(t, result.OK())
}

func TestClient_DisabledSkipsSync(t *testing.T) {
	c := NewClient(Config{}, nil)
	assert.False(t, c.Enabled())

	result := c.SyncDoorState(context.Background(), DoorSync{DeviceID: "dev-1"})
	assert.True(t, result.Skipped)
	assert.True(t, result.OK())

	_, err := c.Login(context.Background())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestClient_SyncWithoutDeviceSkipped(t *testing.T) {
	p := &fakePlatform{}
	c := newTestClient(t, p)

	result := c.SyncDoorState(context.Background(), DoorSync{})
	assert.True(t, result.Skipped)
	assert.EqualValues(t, 0, atomic.LoadInt32(&p.attrCalls))
}
