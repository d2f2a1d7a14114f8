package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/metrics"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/realtime"
	"github.com/levanhoang792/manage-building-sub000/pkg/logger"
)

// 锁状态变更来源
const (
	LockSourceManual  = "manual"
	LockSourceRequest = "request"
)

// InterfaceLockService 门锁状态服务。doors.lock_status 只由这里（以及共用的 applyLockChange）写入
type InterfaceLockService interface {
	GetLockStatus(buildingID, floorID, doorID uint) (*LockStatusView, error)
	UpdateLockStatus(ctx context.Context, input LockUpdateInput) (*LockChange, error)
	GetLockHistory(buildingID, floorID, doorID uint, filter LockHistoryFilter) (*models.PaginatedResult, error)
	PublishLockChange(ctx context.Context, door *models.Door, change *LockChange)
}

// LockStatusView 门锁状态查询结果，也是缓存的内容
type LockStatusView struct {
	DoorID     uint              `json:"door_id"`
	Name       string            `json:"name"`
	FloorID    uint              `json:"floor_id"`
	BuildingID uint              `json:"building_id"`
	Status     models.DoorStatus `json:"status"`
	LockStatus models.LockStatus `json:"lock_status"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// LockUpdateInput 手动修改锁状态
type LockUpdateInput struct {
	BuildingID uint
	FloorID    uint
	DoorID     uint
	LockStatus models.LockStatus
	Reason     string
	RequestID  *uint
	Actor      Actor
}

// LockChange 一次锁状态变更的结果
type LockChange struct {
	DoorID         uint                    `json:"door_id"`
	Name           string                  `json:"name"`
	PreviousStatus models.LockStatus       `json:"previous_status"`
	LockStatus     models.LockStatus       `json:"lock_status"`
	History        *models.DoorLockHistory `json:"history"`
	Source         string                  `json:"-"`
	RequesterName  string                  `json:"-"`
	DeviceSynced   bool                    `json:"device_synced"`
}

// LockHistoryFilter 锁历史查询条件
type LockHistoryFilter struct {
	models.PaginationQuery
	NewStatus string `form:"new_status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

var lockHistorySortColumns = map[string]string{
	"created_at": "created_at",
	"new_status": "new_status",
}

// LockService 门锁状态服务
type LockService struct {
	DB          *gorm.DB
	Config      *config.Config
	Redis       InterfaceRedisService
	DeviceSync  InterfaceDeviceSyncService
	Broadcaster realtime.Broadcaster
	Metrics     *metrics.Metrics
}

// NewLockService 创建门锁状态服务；redis、deviceSync 可为 nil
func NewLockService(db *gorm.DB, cfg *config.Config, redis InterfaceRedisService, deviceSync InterfaceDeviceSyncService, broadcaster realtime.Broadcaster, m *metrics.Metrics) InterfaceLockService {
	if broadcaster == nil {
		broadcaster = realtime.Nop{}
	}
	return &LockService{
		DB:          db,
		Config:      cfg,
		Redis:       redis,
		DeviceSync:  deviceSync,
		Broadcaster: broadcaster,
		Metrics:     m,
	}
}

// 1 GetLockStatus 优先读缓存；缓存中的楼层/楼栋与请求不符时回源数据库
func (s *LockService) GetLockStatus(buildingID, floorID, doorID uint) (*LockStatusView, error) {
	if s.Redis != nil {
		if view, err := s.Redis.GetLockStatus(doorID); err == nil {
			if view.FloorID == floorID && view.BuildingID == buildingID {
				return view, nil
			}
		} else if !errors.Is(err, ErrCacheMiss) {
			logger.Warning("读取门锁状态缓存失败: door_id=%d, err=%v", doorID, err)
		}
	}

	door, err := loadScopedDoor(s.DB, buildingID, floorID, doorID)
	if err != nil {
		return nil, err
	}
	view := &LockStatusView{
		DoorID:     door.ID,
		Name:       door.Name,
		FloorID:    floorID,
		BuildingID: buildingID,
		Status:     door.Status,
		LockStatus: door.LockStatus,
		UpdatedAt:  door.UpdatedAt,
	}

	if s.Redis != nil {
		ttl := s.Config.LockCacheTTL
		if ttl <= 0 {
			ttl = 30 * time.Second
		}
		if err := s.Redis.CacheLockStatus(doorID, view, ttl); err != nil {
			logger.Warning("写入门锁状态缓存失败: door_id=%d, err=%v", doorID, err)
		}
	}
	return view, nil
}

// 2 UpdateLockStatus 手动开/关锁。门必须处于 active，且目标状态与当前不同
func (s *LockService) UpdateLockStatus(ctx context.Context, input LockUpdateInput) (*LockChange, error) {
	if !input.LockStatus.IsValid() {
		return nil, code.NewInvalidStatus("Invalid lock status. Must be one of: open, closed")
	}

	var door *models.Door
	var change *LockChange
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		door, err = loadScopedDoor(tx, input.BuildingID, input.FloorID, input.DoorID)
		if err != nil {
			return err
		}
		if door.Status != models.DoorStatusActive {
			return code.NewDoorInactive("Cannot change lock status of a door that is %s", door.Status)
		}
		if door.LockStatus == input.LockStatus {
			return code.NewNoOpRejected("Door is already %s", input.LockStatus)
		}

		reason := strings.TrimSpace(input.Reason)
		if reason == "" {
			reason = "Manual lock status change"
		}
		change, err = applyLockChange(tx, door, input.LockStatus, input.Actor, reason, input.RequestID)
		return err
	})
	if err != nil {
		return nil, code.Wrap(err, "update lock status")
	}

	change.Source = LockSourceManual
	s.PublishLockChange(ctx, door, change)
	return change, nil
}

// 3 GetLockHistory 锁历史，默认最新在前
func (s *LockService) GetLockHistory(buildingID, floorID, doorID uint, filter LockHistoryFilter) (*models.PaginatedResult, error) {
	if _, err := loadScopedDoor(s.DB, buildingID, floorID, doorID); err != nil {
		return nil, err
	}
	filter.Normalize(lockHistorySortColumns, "created_at")
	from, to, err := parseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	query := s.DB.Model(&models.DoorLockHistory{}).Where("door_id = ?", doorID)
	if filter.NewStatus != "" {
		if !models.LockStatus(filter.NewStatus).IsValid() {
			return nil, code.NewInvalidStatus("Invalid lock status. Must be one of: open, closed")
		}
		query = query.Where("new_status = ?", filter.NewStatus)
	}
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, code.Wrap(err, "count lock history")
	}
	var history []models.DoorLockHistory
	if err := query.Order(filter.OrderClause()).Order("id desc").Offset(filter.Offset()).Limit(filter.PageSize).Find(&history).Error; err != nil {
		return nil, code.Wrap(err, "list lock history")
	}

	result := models.NewPaginatedResult(history, total, filter.PaginationQuery)
	return &result, nil
}

// 4 PublishLockChange 提交之后的副作用：设备同步、缓存失效、广播。任何一步失败都不影响已提交的状态
func (s *LockService) PublishLockChange(ctx context.Context, door *models.Door, change *LockChange) {
	if door == nil || change == nil {
		return
	}

	if s.DeviceSync != nil {
		result := s.DeviceSync.SyncDoor(ctx, door, SyncDetails{
			ChangedBy:     change.History.ChangedBy,
			Reason:        change.History.Reason,
			RequestID:     change.History.RequestID,
			RequesterName: change.RequesterName,
		})
		change.DeviceSynced = !result.Skipped && result.OK()
	}

	if s.Redis != nil {
		if err := s.Redis.InvalidateLockStatus(door.ID); err != nil {
			logger.Warning("删除门锁状态缓存失败: door_id=%d, err=%v", door.ID, err)
		}
	}

	payload := map[string]interface{}{
		"door_id":         door.ID,
		"name":            door.Name,
		"lock_status":     change.LockStatus,
		"previous_status": change.PreviousStatus,
		"changed_by":      change.History.ChangedBy,
		"request_id":      change.History.RequestID,
		"updated_at":      change.History.CreatedAt,
	}
	s.Broadcaster.Emit(realtime.EventDoorLockStatusUpdated, payload)
	s.Broadcaster.EmitToRoom(realtime.DoorRoom(door.ID), realtime.EventDoorLockStatusUpdated, payload)

	s.Metrics.LockChange(string(change.LockStatus), change.Source)
	s.Metrics.Event(realtime.EventDoorLockStatusUpdated)
}

// applyLockChange 在事务内写入锁状态、历史与操作日志。写入以当前锁状态与 active 为条件，
// 条件不再成立时不写任何东西
func applyLockChange(tx *gorm.DB, door *models.Door, target models.LockStatus, actor Actor, reason string, requestID *uint) (*LockChange, error) {
	previous := door.LockStatus
	now := time.Now()

	res := tx.Model(&models.Door{}).
		Where("id = ? AND lock_status = ? AND status = ?", door.ID, previous, models.DoorStatusActive).
		Updates(map[string]interface{}{"lock_status": target, "updated_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var current models.Door
		if err := tx.Select("id", "status", "lock_status").First(&current, door.ID).Error; err != nil {
			return nil, notFoundOr(err, "Door not found")
		}
		if current.Status != models.DoorStatusActive {
			return nil, code.NewDoorInactive("Cannot change lock status of a door that is %s", current.Status)
		}
		return nil, code.NewConflict("Door lock status was changed by another operation")
	}

	history := models.DoorLockHistory{
		DoorID:         door.ID,
		PreviousStatus: previous,
		NewStatus:      target,
		ChangedBy:      actor.UserID,
		Reason:         reason,
		RequestID:      requestID,
	}
	if err := tx.Create(&history).Error; err != nil {
		return nil, err
	}

	details := map[string]interface{}{
		"previous_status": previous,
		"new_status":      target,
		"reason":          reason,
	}
	if requestID != nil {
		details["request_id"] = *requestID
	}
	if err := recordActivity(tx, ActivityEntry{
		Actor:      actor,
		Action:     "update_lock_status",
		EntityType: models.EntityDoor,
		EntityID:   door.ID,
		Details:    details,
	}); err != nil {
		return nil, err
	}

	door.LockStatus = target
	door.UpdatedAt = now
	return &LockChange{
		DoorID:         door.ID,
		Name:           door.Name,
		PreviousStatus: previous,
		LockStatus:     target,
		History:        &history,
	}, nil
}
