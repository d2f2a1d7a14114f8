package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/thingsboard"
	"github.com/levanhoang792/manage-building-sub000/internal/test/testdb"
)

type emitted struct {
	Room    string
	Event   string
	Payload map[string]interface{}
}

// recorder 记录广播的事件
type recorder struct {
	mu     sync.Mutex
	events []emitted
}

func (r *recorder) Emit(event string, payload interface{}) {
	r.record("", event, payload)
}

func (r *recorder) EmitToRoom(room, event string, payload interface{}) {
	r.record(room, event, payload)
}

func (r *recorder) record(room, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, _ := payload.(map[string]interface{})
	r.events = append(r.events, emitted{Room: room, Event: event, Payload: p})
}

func (r *recorder) named(event string) []emitted {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []emitted
	for _, e := range r.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// fakeThingsboard 模拟设备平台的 REST 接口
type fakeThingsboard struct {
	server *httptest.Server

	mu         sync.Mutex
	fail       bool
	attributes []map[string]interface{}
	telemetry  []map[string]interface{}
}

func newFakeThingsboard(t *testing.T) *fakeThingsboard {
	t.Helper()
	f := &fakeThingsboard{}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeThingsboard) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/api/auth/login" {
		_, _ = w.Write([]byte(`{"token":"tb-token"}`))
		return
	}
	if f.fail {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":500,"message":"platform down"}`))
		return
	}

	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	switch {
	case strings.HasSuffix(r.URL.Path, "/attributes/SHARED_SCOPE"):
		f.attributes = append(f.attributes, body)
	case strings.HasSuffix(r.URL.Path, "/telemetry"):
		f.telemetry = append(f.telemetry, body)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

func (f *fakeThingsboard) setFail(fail bool) {
	f.mu.Lock()
	f.fail = fail
	f.mu.Unlock()
}

func (f *fakeThingsboard) attributeCalls() []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]interface{}(nil), f.attributes...)
}

func (f *fakeThingsboard) telemetryCalls() []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]interface{}(nil), f.telemetry...)
}

func (f *fakeThingsboard) client() *thingsboard.Client {
	return thingsboard.NewClient(thingsboard.Config{BaseURL: f.server.URL, Username: "tenant", Password: "secret"}, nil)
}

// env 一组共享数据库与依赖的服务
type env struct {
	db       *gorm.DB
	cfg      *config.Config
	events   *recorder
	tb       *fakeThingsboard
	redis    InterfaceRedisService
	mini     *miniredis.Miniredis
	sync     InterfaceDeviceSyncService
	locks    InterfaceLockService
	doors    InterfaceDoorService
	requests InterfaceDoorRequestService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testdb.New(t)
	cfg := &config.Config{JWTSecretKey: "test-secret"}
	mini := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	e := &env{
		db:     db,
		cfg:    cfg,
		events: &recorder{},
		tb:     newFakeThingsboard(t),
		redis:  NewRedisServiceWithClient(redisClient),
		mini:   mini,
	}
	e.sync = NewDeviceSyncService(db, cfg, e.tb.client(), e.events, nil)
	e.locks = NewLockService(db, cfg, e.redis, e.sync, e.events, nil)
	e.doors = NewDoorService(db, cfg, e.redis, e.sync, e.events, nil)
	e.requests = NewDoorRequestService(db, cfg, e.locks, e.events, nil)
	return e
}

// fixture: 楼栋 1 / 楼层 1 / 门 5（active、closed、绑定设备）
type fixture struct {
	building models.Building
	floor    models.Floor
	door     models.Door
}

func seedDoor(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{}
	f.building = models.Building{Name: "HQ", Status: models.BuildingStatusActive}
	require.NoError(t, db.Create(&f.building).Error)
	f.floor = models.Floor{BuildingID: f.building.ID, Name: "Ground", FloorNumber: 0, Status: models.FloorStatusActive}
	require.NoError(t, db.Create(&f.floor).Error)

	device, token := "dev-5", "token-5"
	f.door = models.Door{
		FloorID:                f.floor.ID,
		Name:                   "Main entrance",
		Status:                 models.DoorStatusActive,
		LockStatus:             models.LockStatusClosed,
		ThingsboardDeviceID:    &device,
		ThingsboardAccessToken: &token,
	}
	f.door.ID = 5
	require.NoError(t, db.Create(&f.door).Error)
	return f
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func operator() Actor {
	return Actor{UserID: uintPtr(42), IPAddress: "10.0.0.42"}
}

func reloadDoor(t *testing.T, db *gorm.DB, id uint) models.Door {
	t.Helper()
	var door models.Door
	require.NoError(t, db.First(&door, id).Error)
	return door
}

func activityActions(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var logs []models.ActivityLog
	require.NoError(t, db.Order("id asc").Find(&logs).Error)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	return actions
}
