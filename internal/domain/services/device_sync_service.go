package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/metrics"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/realtime"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/thingsboard"
	"github.com/levanhoang792/manage-building-sub000/pkg/logger"
)

// InterfaceDeviceSyncService 门状态与外部 IoT 平台之间的同步
type InterfaceDeviceSyncService interface {
	SyncDoor(ctx context.Context, door *models.Door, details SyncDetails) thingsboard.SyncResult
	HandleTelemetry(deviceID string, data map[string]interface{})
	WatchDoor(door *models.Door)
	UnwatchDevice(deviceID string)
	Start(ctx context.Context) error
	Stop()
	Status() DeviceSyncStatus
}

// DeviceSyncStatus 同步适配器的运行状态
type DeviceSyncStatus struct {
	Enabled        bool                    `json:"enabled"`
	MonitorEnabled bool                    `json:"monitor_enabled"`
	BaseURL        string                  `json:"base_url,omitempty"`
	Connections    []thingsboard.ConnState `json:"connections"`
	LastError      string                  `json:"last_error,omitempty"`
}

// DeviceSyncService 同步是尽力而为的：失败只记录日志与指标，本地状态为准
type DeviceSyncService struct {
	DB          *gorm.DB
	Config      *config.Config
	Client      *thingsboard.Client
	Monitor     *thingsboard.Monitor
	Broadcaster realtime.Broadcaster
	Metrics     *metrics.Metrics

	mu      sync.Mutex
	rootCtx context.Context
	lastErr error
}

// NewDeviceSyncService 创建同步服务；配置了遥测监听时同时创建 Monitor
func NewDeviceSyncService(db *gorm.DB, cfg *config.Config, client *thingsboard.Client, broadcaster realtime.Broadcaster, m *metrics.Metrics) InterfaceDeviceSyncService {
	if broadcaster == nil {
		broadcaster = realtime.Nop{}
	}
	s := &DeviceSyncService{
		DB:          db,
		Config:      cfg,
		Client:      client,
		Broadcaster: broadcaster,
		Metrics:     m,
		rootCtx:     context.Background(),
	}
	if client.Enabled() && cfg.ThingsboardMonitor {
		wsURL := cfg.ThingsboardWSURL
		if wsURL == "" {
			wsURL = thingsboard.WSURLFromBase(client.BaseURL())
		}
		s.Monitor = thingsboard.NewMonitor(wsURL, client, s.HandleTelemetry, logger.L().Named("thingsboard.monitor"))
	}
	return s
}

// SyncDetails 一次变更的上下文，随属性与遥测一起推送
type SyncDetails struct {
	ChangedBy     *uint
	ChangedByName string
	Reason        string
	RequestID     *uint
	RequesterName string
}

// 1 SyncDoor 推送门的锁状态与门状态，受 THINGSBOARD_TIMEOUT 限制
func (s *DeviceSyncService) SyncDoor(ctx context.Context, door *models.Door, details SyncDetails) thingsboard.SyncResult {
	if door == nil || !door.HasDevice() || !s.Client.Enabled() {
		s.Metrics.DeviceSync("skipped")
		return thingsboard.SyncResult{Skipped: true}
	}

	timeout := s.Config.ThingsboardTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if details.ChangedByName == "" && details.ChangedBy != nil {
		details.ChangedByName = s.actorName(*details.ChangedBy)
	}

	now := time.Now().UnixMilli()
	attributes := map[string]interface{}{
		"door_id":              door.ID,
		"lock_status":          door.LockStatus,
		"door_status":          door.Status,
		"updated_at":           now,
		"last_updated_by":      details.ChangedBy,
		"last_updated_by_name": details.ChangedByName,
		"reason":               details.Reason,
	}
	telemetry := map[string]interface{}{
		"lock_status":     door.LockStatus,
		"door_status":     door.Status,
		"ts":              now,
		"changed_by":      details.ChangedBy,
		"changed_by_name": details.ChangedByName,
		"reason":          details.Reason,
	}
	if details.RequestID != nil {
		attributes["request_id"] = *details.RequestID
		telemetry["request_id"] = *details.RequestID
	}
	if details.RequesterName != "" {
		attributes["requester_name"] = details.RequesterName
		telemetry["requester_name"] = details.RequesterName
	}

	result := s.Client.SyncDoorState(ctx, thingsboard.DoorSync{
		DeviceID:    *door.ThingsboardDeviceID,
		AccessToken: stringValue(door.ThingsboardAccessToken),
		Attributes:  attributes,
		Telemetry:   telemetry,
	})

	switch {
	case result.Skipped:
		s.Metrics.DeviceSync("skipped")
	case result.OK():
		s.Metrics.DeviceSync("ok")
	default:
		s.Metrics.DeviceSync("failed")
		s.mu.Lock()
		s.lastErr = code.NewDeviceSync(result.Err(), "sync door %d to device %s", door.ID, *door.ThingsboardDeviceID)
		s.mu.Unlock()
	}
	return result
}

// actorName 操作人显示名，优先全名；查不到时为空
func (s *DeviceSyncService) actorName(userID uint) string {
	var user models.User
	if err := s.DB.Select("id", "username", "full_name").First(&user, userID).Error; err != nil {
		return ""
	}
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}

// 2 HandleTelemetry Monitor 回调：把设备上报转成门房间内的 door-telemetry 事件
func (s *DeviceSyncService) HandleTelemetry(deviceID string, data map[string]interface{}) {
	var door models.Door
	if err := s.DB.Select("id", "name", "floor_id").Where("thingsboard_device_id = ?", deviceID).First(&door).Error; err != nil {
		logger.Warning("收到未绑定设备的遥测数据: device_id=%s, err=%v", deviceID, err)
		return
	}

	payload := map[string]interface{}{
		"door_id":     door.ID,
		"door_name":   door.Name,
		"device_id":   deviceID,
		"data":        data,
		"received_at": time.Now().UTC(),
	}
	s.Broadcaster.EmitToRoom(realtime.DoorRoom(door.ID), realtime.EventDoorTelemetry, payload)
	s.Metrics.Event(realtime.EventDoorTelemetry)
}

// 3 WatchDoor 订阅门绑定设备的遥测
func (s *DeviceSyncService) WatchDoor(door *models.Door) {
	if s.Monitor == nil || door == nil || !door.HasDevice() {
		return
	}
	s.mu.Lock()
	ctx := s.rootCtx
	s.mu.Unlock()
	s.Monitor.Watch(ctx, *door.ThingsboardDeviceID)
}

// 4 UnwatchDevice 取消订阅
func (s *DeviceSyncService) UnwatchDevice(deviceID string) {
	if s.Monitor == nil || deviceID == "" {
		return
	}
	s.Monitor.Unwatch(deviceID)
}

// 5 Start 为所有已绑定设备的门建立订阅，ctx 取消时全部断开
func (s *DeviceSyncService) Start(ctx context.Context) error {
	s.mu.Lock()
	s.rootCtx = ctx
	s.mu.Unlock()

	if s.Monitor == nil {
		return nil
	}

	var doors []models.Door
	if err := s.DB.Where("thingsboard_device_id IS NOT NULL AND thingsboard_device_id <> ''").Find(&doors).Error; err != nil {
		return err
	}
	for i := range doors {
		s.Monitor.Watch(ctx, *doors[i].ThingsboardDeviceID)
	}
	logger.Info("已订阅 %d 个门禁设备的遥测数据", len(doors))
	return nil
}

// 6 Stop 断开所有订阅
func (s *DeviceSyncService) Stop() {
	if s.Monitor != nil {
		s.Monitor.Stop()
	}
}

// 7 Status 运行状态
func (s *DeviceSyncService) Status() DeviceSyncStatus {
	status := DeviceSyncStatus{
		Enabled:        s.Client.Enabled(),
		MonitorEnabled: s.Monitor != nil,
		BaseURL:        s.Client.BaseURL(),
		Connections:    []thingsboard.ConnState{},
	}
	if s.Monitor != nil {
		status.Connections = s.Monitor.States()
	}
	if err := s.LastError(); err != nil {
		status.LastError = err.Error()
	}
	return status
}

// LastError 最近一次失败的同步，类型为 code.ErrDeviceSync；从未失败时为 nil
func (s *DeviceSyncService) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
