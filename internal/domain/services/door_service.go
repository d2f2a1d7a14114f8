package services

import (
	"context"
	"fmt"
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

// InterfaceDoorService 门服务接口，所有操作限定在楼栋、楼层之下
type InterfaceDoorService interface {
	GetDoors(buildingID, floorID uint, filter DoorFilter) (*models.PaginatedResult, error)
	GetDoor(buildingID, floorID, doorID uint) (*models.Door, error)
	CreateDoor(buildingID, floorID uint, input DoorInput, actor Actor) (*models.Door, error)
	UpdateDoor(buildingID, floorID, doorID uint, input DoorUpdateInput, actor Actor) (*models.Door, error)
	DeleteDoor(buildingID, floorID, doorID uint, actor Actor) error
	UpdateDoorStatus(ctx context.Context, buildingID, floorID, doorID uint, status models.DoorStatus, actor Actor) (*models.Door, error)
}

// DoorFilter 门列表查询条件
type DoorFilter struct {
	models.PaginationQuery
	Status     string `form:"status"`
	LockStatus string `form:"lock_status"`
	DoorTypeID *uint  `form:"door_type_id"`
	Search     string `form:"search"`
}

// DoorInput 创建门请求
type DoorInput struct {
	Name                   string            `json:"name" binding:"required"`
	DoorTypeID             *uint             `json:"door_type_id"`
	Status                 models.DoorStatus `json:"status"`
	LockStatus             models.LockStatus `json:"lock_status"`
	ThingsboardDeviceID    *string           `json:"thingsboard_device_id"`
	ThingsboardAccessToken *string           `json:"thingsboard_access_token"`
}

// DoorUpdateInput 更新门请求；状态与锁状态有专门的接口
type DoorUpdateInput struct {
	Name                   *string `json:"name"`
	DoorTypeID             *uint   `json:"door_type_id"`
	ThingsboardDeviceID    *string `json:"thingsboard_device_id"`
	ThingsboardAccessToken *string `json:"thingsboard_access_token"`
}

var doorSortColumns = map[string]string{
	"id":          "id",
	"name":        "name",
	"status":      "status",
	"lock_status": "lock_status",
	"created_at":  "created_at",
}

// DoorService 门服务
type DoorService struct {
	DB          *gorm.DB
	Config      *config.Config
	Redis       InterfaceRedisService
	DeviceSync  InterfaceDeviceSyncService
	Broadcaster realtime.Broadcaster
	Metrics     *metrics.Metrics
}

// NewDoorService 创建门服务；redis 可为 nil
func NewDoorService(db *gorm.DB, cfg *config.Config, redis InterfaceRedisService, deviceSync InterfaceDeviceSyncService, broadcaster realtime.Broadcaster, m *metrics.Metrics) InterfaceDoorService {
	if broadcaster == nil {
		broadcaster = realtime.Nop{}
	}
	return &DoorService{
		DB:          db,
		Config:      cfg,
		Redis:       redis,
		DeviceSync:  deviceSync,
		Broadcaster: broadcaster,
		Metrics:     m,
	}
}

// 1 GetDoors 楼层下的门列表
func (s *DoorService) GetDoors(buildingID, floorID uint, filter DoorFilter) (*models.PaginatedResult, error) {
	if _, err := loadScopedFloor(s.DB, buildingID, floorID); err != nil {
		return nil, err
	}
	if filter.SortBy == "" && filter.SortOrder == "" {
		filter.SortOrder = "asc"
	}
	filter.Normalize(doorSortColumns, "id")

	query := s.DB.Model(&models.Door{}).Where("floor_id = ?", floorID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.LockStatus != "" {
		query = query.Where("lock_status = ?", filter.LockStatus)
	}
	if filter.DoorTypeID != nil {
		query = query.Where("door_type_id = ?", *filter.DoorTypeID)
	}
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where("name LIKE ?", likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, code.Wrap(err, "count doors")
	}

	var doors []models.Door
	if err := query.Preload("DoorType").Order(filter.OrderClause()).Offset(filter.Offset()).Limit(filter.PageSize).Find(&doors).Error; err != nil {
		return nil, code.Wrap(err, "list doors")
	}

	result := models.NewPaginatedResult(doors, total, filter.PaginationQuery)
	return &result, nil
}

// 2 GetDoor 门详情，附带门类型与坐标
func (s *DoorService) GetDoor(buildingID, floorID, doorID uint) (*models.Door, error) {
	door, err := loadScopedDoor(s.DB, buildingID, floorID, doorID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Preload("DoorType").Preload("Coordinates").First(door, door.ID).Error; err != nil {
		return nil, code.Wrap(err, "load door")
	}
	return door, nil
}

// 3 CreateDoor 创建门，默认 active / closed
func (s *DoorService) CreateDoor(buildingID, floorID uint, input DoorInput, actor Actor) (*models.Door, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, code.NewValidation("Door name is required")
	}
	status := input.Status
	if status == "" {
		status = models.DoorStatusActive
	}
	if !status.IsValid() {
		return nil, code.NewInvalidStatus("Invalid status. Must be one of: active, inactive, maintenance")
	}
	lockStatus := input.LockStatus
	if lockStatus == "" {
		lockStatus = models.LockStatusClosed
	}
	if !lockStatus.IsValid() {
		return nil, code.NewInvalidStatus("Invalid lock status. Must be one of: open, closed")
	}

	door := models.Door{
		FloorID:                floorID,
		Name:                   name,
		DoorTypeID:             input.DoorTypeID,
		Status:                 status,
		LockStatus:             lockStatus,
		ThingsboardDeviceID:    trimmedPtr(input.ThingsboardDeviceID),
		ThingsboardAccessToken: trimmedPtr(input.ThingsboardAccessToken),
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := loadScopedFloor(tx, buildingID, floorID); err != nil {
			return err
		}
		if err := ensureDoorType(tx, door.DoorTypeID); err != nil {
			return err
		}
		if err := tx.Create(&door).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "create_door",
			EntityType: models.EntityDoor,
			EntityID:   door.ID,
			Details:    map[string]interface{}{"floor_id": floorID, "name": door.Name},
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "create door")
	}

	if s.DeviceSync != nil {
		s.DeviceSync.WatchDoor(&door)
	}
	return &door, nil
}

// 4 UpdateDoor 更新名称、门类型与设备绑定
func (s *DoorService) UpdateDoor(buildingID, floorID, doorID uint, input DoorUpdateInput, actor Actor) (*models.Door, error) {
	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, code.NewValidation("Door name cannot be empty")
		}
		updates["name"] = name
	}
	if input.DoorTypeID != nil {
		updates["door_type_id"] = *input.DoorTypeID
	}
	if input.ThingsboardDeviceID != nil {
		updates["thingsboard_device_id"] = trimmedPtr(input.ThingsboardDeviceID)
	}
	if input.ThingsboardAccessToken != nil {
		updates["thingsboard_access_token"] = trimmedPtr(input.ThingsboardAccessToken)
	}

	var previousDevice string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		door, err := loadScopedDoor(tx, buildingID, floorID, doorID)
		if err != nil {
			return err
		}
		previousDevice = stringValue(door.ThingsboardDeviceID)
		if len(updates) == 0 {
			return nil
		}
		if err := ensureDoorType(tx, input.DoorTypeID); err != nil {
			return err
		}
		if err := tx.Model(door).Updates(updates).Error; err != nil {
			return err
		}
		details := make(map[string]interface{}, len(updates))
		for k, v := range updates {
			if k != "thingsboard_access_token" {
				details[k] = v
			}
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "update_door",
			EntityType: models.EntityDoor,
			EntityID:   door.ID,
			Details:    details,
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "update door")
	}

	door, err := s.GetDoor(buildingID, floorID, doorID)
	if err != nil {
		return nil, err
	}
	if s.DeviceSync != nil && previousDevice != stringValue(door.ThingsboardDeviceID) {
		s.DeviceSync.UnwatchDevice(previousDevice)
		s.DeviceSync.WatchDoor(door)
	}
	return door, nil
}

// 5 DeleteDoor 删除门（硬删除，不级联）
func (s *DoorService) DeleteDoor(buildingID, floorID, doorID uint, actor Actor) error {
	var deviceID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		door, err := loadScopedDoor(tx, buildingID, floorID, doorID)
		if err != nil {
			return err
		}
		deviceID = stringValue(door.ThingsboardDeviceID)
		if err := tx.Delete(door).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "delete_door",
			EntityType: models.EntityDoor,
			EntityID:   door.ID,
			Details:    map[string]interface{}{"floor_id": floorID, "name": door.Name},
		})
	})
	if err != nil {
		return code.Wrap(err, "delete door")
	}

	s.invalidateLockCache(doorID)
	if s.DeviceSync != nil {
		s.DeviceSync.UnwatchDevice(deviceID)
	}
	return nil
}

// 6 UpdateDoorStatus 修改门状态；与当前状态相同时拒绝
func (s *DoorService) UpdateDoorStatus(ctx context.Context, buildingID, floorID, doorID uint, status models.DoorStatus, actor Actor) (*models.Door, error) {
	if !status.IsValid() {
		return nil, code.NewInvalidStatus("Invalid status. Must be one of: active, inactive, maintenance")
	}

	var door *models.Door
	var previous models.DoorStatus
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		door, err = loadScopedDoor(tx, buildingID, floorID, doorID)
		if err != nil {
			return err
		}
		if door.Status == status {
			return code.NewNoOpRejected("Door status is already %s", status)
		}
		previous = door.Status

		res := tx.Model(&models.Door{}).
			Where("id = ? AND status = ?", door.ID, previous).
			Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return code.NewConflict("Door status was changed by another operation")
		}
		door.Status = status

		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "update_door_status",
			EntityType: models.EntityDoor,
			EntityID:   door.ID,
			Details:    map[string]interface{}{"previous_status": previous, "new_status": status},
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "update door status")
	}

	// 提交之后：缓存失效、设备同步、广播
	s.invalidateLockCache(door.ID)
	if s.DeviceSync != nil {
		s.DeviceSync.SyncDoor(ctx, door, SyncDetails{
			ChangedBy: actor.UserID,
			Reason:    fmt.Sprintf("Door status changed from %s to %s", previous, status),
		})
	}
	payload := map[string]interface{}{
		"door_id":         door.ID,
		"name":            door.Name,
		"floor_id":        floorID,
		"building_id":     buildingID,
		"status":          status,
		"previous_status": previous,
		"updated_at":      time.Now().UTC(),
	}
	s.Broadcaster.Emit(realtime.EventDoorStatusUpdated, payload)
	s.Broadcaster.EmitToRoom(realtime.DoorRoom(door.ID), realtime.EventDoorStatusUpdated, payload)
	s.Metrics.Event(realtime.EventDoorStatusUpdated)

	return door, nil
}

func (s *DoorService) invalidateLockCache(doorID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.InvalidateLockStatus(doorID); err != nil {
		logger.Warning("删除门锁状态缓存失败: door_id=%d, err=%v", doorID, err)
	}
}

func ensureDoorType(tx *gorm.DB, doorTypeID *uint) error {
	if doorTypeID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.DoorType{}).Where("id = ?", *doorTypeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return code.NewNotFound("Door type not found")
	}
	return nil
}
