package services

import (
	"context"
	"errors"
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

// InterfaceDoorRequestService 开门申请服务接口
type InterfaceDoorRequestService interface {
	CreateRequest(ctx context.Context, input CreateDoorRequestInput, actor Actor) (*models.DoorRequestDetail, error)
	GetRequest(id uint) (*models.DoorRequestDetail, error)
	ListRequests(filter DoorRequestFilter) (*models.PaginatedResult, error)
	ResolveRequest(ctx context.Context, input ResolveDoorRequestInput) (*models.DoorRequestDetail, error)
}

// CreateDoorRequestInput 提交开门申请
type CreateDoorRequestInput struct {
	DoorID         uint    `json:"door_id" binding:"required"`
	RequesterName  string  `json:"requester_name" binding:"required"`
	RequesterPhone *string `json:"requester_phone"`
	RequesterEmail *string `json:"requester_email" binding:"omitempty,email"`
	Purpose        string  `json:"purpose" binding:"required"`
}

// ResolveDoorRequestInput 审批或拒绝申请
type ResolveDoorRequestInput struct {
	ID     uint
	Status models.DoorRequestStatus
	Reason *string
	Actor  Actor
}

// DoorRequestFilter 申请列表查询条件
type DoorRequestFilter struct {
	models.PaginationQuery
	Status     string `form:"status"`
	DoorID     *uint  `form:"door_id"`
	BuildingID *uint  `form:"building_id"`
	FloorID    *uint  `form:"floor_id"`
	Search     string `form:"search"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
}

var doorRequestSortColumns = map[string]string{
	"created_at":     "door_requests.created_at",
	"status":         "door_requests.status",
	"requester_name": "door_requests.requester_name",
	"processed_at":   "door_requests.processed_at",
	"door_id":        "door_requests.door_id",
}

const doorRequestDetailColumns = "door_requests.*, " +
	"COALESCE(doors.name, '') AS door_name, " +
	"COALESCE(doors.floor_id, 0) AS floor_id, " +
	"COALESCE(floors.name, '') AS floor_name, " +
	"COALESCE(floors.building_id, 0) AS building_id, " +
	"COALESCE(buildings.name, '') AS building_name"

// DoorRequestService 开门申请生命周期：pending 只能转到 approved 或 rejected 一次
type DoorRequestService struct {
	DB          *gorm.DB
	Config      *config.Config
	LockService InterfaceLockService
	Broadcaster realtime.Broadcaster
	Metrics     *metrics.Metrics
}

// NewDoorRequestService 创建开门申请服务
func NewDoorRequestService(db *gorm.DB, cfg *config.Config, lockService InterfaceLockService, broadcaster realtime.Broadcaster, m *metrics.Metrics) InterfaceDoorRequestService {
	if broadcaster == nil {
		broadcaster = realtime.Nop{}
	}
	return &DoorRequestService{
		DB:          db,
		Config:      cfg,
		LockService: lockService,
		Broadcaster: broadcaster,
		Metrics:     m,
	}
}

// 1 CreateRequest 为 active 的门创建 pending 申请并通知在线的操作员
func (s *DoorRequestService) CreateRequest(ctx context.Context, input CreateDoorRequestInput, actor Actor) (*models.DoorRequestDetail, error) {
	requesterName := strings.TrimSpace(input.RequesterName)
	purpose := strings.TrimSpace(input.Purpose)
	if requesterName == "" {
		return nil, code.NewValidation("Requester name is required")
	}
	if purpose == "" {
		return nil, code.NewValidation("Purpose is required")
	}

	request := models.DoorRequest{
		DoorID:         input.DoorID,
		RequesterName:  requesterName,
		RequesterPhone: trimmedPtr(input.RequesterPhone),
		RequesterEmail: trimmedPtr(input.RequesterEmail),
		Purpose:        purpose,
		Status:         models.DoorRequestPending,
	}

	var door models.Door
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&door, input.DoorID).Error; err != nil {
			return notFoundOr(err, "Door not found")
		}
		if door.Status != models.DoorStatusActive {
			return code.NewDoorInactive("Cannot create request for a door that is %s", door.Status)
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "create_door_request",
			EntityType: models.EntityDoorRequest,
			EntityID:   request.ID,
			Details: map[string]interface{}{
				"door_id":        door.ID,
				"requester_name": requesterName,
				"purpose":        purpose,
			},
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "create door request")
	}

	s.Broadcaster.Emit(realtime.EventNewDoorRequest, map[string]interface{}{
		"id":             request.ID,
		"door_id":        door.ID,
		"door_name":      door.Name,
		"requester_name": request.RequesterName,
		"created_at":     request.CreatedAt,
	})
	s.Metrics.Event(realtime.EventNewDoorRequest)

	return s.GetRequest(request.ID)
}

// 2 GetRequest 申请详情，附带门/楼层/楼栋名称
func (s *DoorRequestService) GetRequest(id uint) (*models.DoorRequestDetail, error) {
	var details []models.DoorRequestDetail
	if err := s.detailQuery(s.DB).Select(doorRequestDetailColumns).Where("door_requests.id = ?", id).Limit(1).Scan(&details).Error; err != nil {
		return nil, code.Wrap(err, "load door request")
	}
	if len(details) == 0 {
		return nil, code.NewNotFound("Door request not found")
	}
	return &details[0], nil
}

// 3 ListRequests 分页查询申请
func (s *DoorRequestService) ListRequests(filter DoorRequestFilter) (*models.PaginatedResult, error) {
	filter.Normalize(doorRequestSortColumns, "door_requests.created_at")
	from, to, err := parseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	query := s.detailQuery(s.DB)
	if filter.Status != "" {
		if !models.DoorRequestStatus(filter.Status).IsValid() {
			return nil, code.NewInvalidStatus("Invalid status. Must be one of: pending, approved, rejected")
		}
		query = query.Where("door_requests.status = ?", filter.Status)
	}
	if filter.DoorID != nil {
		query = query.Where("door_requests.door_id = ?", *filter.DoorID)
	}
	if filter.FloorID != nil {
		query = query.Where("doors.floor_id = ?", *filter.FloorID)
	}
	if filter.BuildingID != nil {
		query = query.Where("floors.building_id = ?", *filter.BuildingID)
	}
	if strings.TrimSpace(filter.Search) != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("door_requests.requester_name LIKE ? OR door_requests.requester_phone LIKE ? OR door_requests.requester_email LIKE ? OR door_requests.purpose LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if from != nil {
		query = query.Where("door_requests.created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("door_requests.created_at <= ?", *to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, code.Wrap(err, "count door requests")
	}

	var details []models.DoorRequestDetail
	if err := query.Select(doorRequestDetailColumns).
		Order(filter.OrderClause()).Order("door_requests.id desc").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Scan(&details).Error; err != nil {
		return nil, code.Wrap(err, "list door requests")
	}

	result := models.NewPaginatedResult(details, total, filter.PaginationQuery)
	return &result, nil
}

// 4 ResolveRequest 处理申请。pending -> 终态的转换是条件更新，并发处理时只有一个成功；
// 审批通过会在同一事务里切换门锁
func (s *DoorRequestService) ResolveRequest(ctx context.Context, input ResolveDoorRequestInput) (*models.DoorRequestDetail, error) {
	if input.Status != models.DoorRequestApproved && input.Status != models.DoorRequestRejected {
		return nil, code.NewInvalidStatus("Invalid status. Must be one of: approved, rejected")
	}
	reason := trimmedPtr(input.Reason)

	var request models.DoorRequest
	var door *models.Door
	var change *LockChange
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, input.ID).Error; err != nil {
			return notFoundOr(err, "Door request not found")
		}
		if request.Status != models.DoorRequestPending {
			return code.NewAlreadyProcessed("Door request has already been %s", request.Status)
		}

		now := time.Now()
		claimed, err := claimPendingRequest(tx, request.ID, input.Status, input.Actor.UserID, reason, now)
		if err != nil {
			return err
		}
		if !claimed {
			var current models.DoorRequest
			if err := tx.Select("id", "status").First(&current, request.ID).Error; err != nil {
				return notFoundOr(err, "Door request not found")
			}
			return code.NewAlreadyProcessed("Door request has already been %s", current.Status)
		}
		request.Status = input.Status
		request.ProcessedBy = input.Actor.UserID
		request.ProcessedAt = &now
		request.Reason = reason

		if input.Status == models.DoorRequestRejected {
			return recordActivity(tx, ActivityEntry{
				Actor:      input.Actor,
				Action:     "reject_door_request",
				EntityType: models.EntityDoorRequest,
				EntityID:   request.ID,
				Details:    map[string]interface{}{"door_id": request.DoorID, "reason": stringValue(reason)},
			})
		}

		door, change, err = s.toggleForApproval(tx, &request, input.Actor, reason)
		if err != nil {
			return err
		}
		details := map[string]interface{}{"door_id": request.DoorID, "reason": stringValue(reason)}
		if change != nil {
			details["lock_status"] = change.LockStatus
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      input.Actor,
			Action:     "approve_door_request",
			EntityType: models.EntityDoorRequest,
			EntityID:   request.ID,
			Details:    details,
		})
	})
	if err != nil {
		if errors.Is(err, code.ErrAlreadyProcessed) {
			s.Metrics.RequestTransition("already_processed")
		}
		return nil, code.Wrap(err, "resolve door request")
	}
	s.Metrics.RequestTransition(string(input.Status))

	if change != nil && s.LockService != nil {
		change.Source = LockSourceRequest
		s.LockService.PublishLockChange(ctx, door, change)
	}

	s.Broadcaster.Emit(realtime.EventDoorRequestStatusUpdated, map[string]interface{}{
		"id":           request.ID,
		"door_id":      request.DoorID,
		"status":       request.Status,
		"processed_by": request.ProcessedBy,
		"processed_at": request.ProcessedAt,
	})
	s.Metrics.Event(realtime.EventDoorRequestStatusUpdated)

	return s.GetRequest(request.ID)
}

// toggleForApproval 审批通过时切换门锁：closed 变 open，其余情况变 closed。
// 门已被删除时只批准不切换；门不是 active 时整个事务回滚
func (s *DoorRequestService) toggleForApproval(tx *gorm.DB, request *models.DoorRequest, actor Actor, reason *string) (*models.Door, *LockChange, error) {
	var door models.Door
	if err := tx.First(&door, request.DoorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warning("开门申请 %d 对应的门 %d 已不存在，批准但不切换门锁", request.ID, request.DoorID)
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if door.Status != models.DoorStatusActive {
		return nil, nil, code.NewDoorInactive("Cannot approve request: door is %s", door.Status)
	}

	lockReason := stringValue(reason)
	if lockReason == "" {
		lockReason = fmt.Sprintf("Approved door request from %s", request.RequesterName)
	}
	change, err := applyLockChange(tx, &door, door.LockStatus.Toggle(), actor, lockReason, &request.ID)
	if err != nil {
		return nil, nil, err
	}
	change.RequesterName = request.RequesterName
	return &door, change, nil
}

// claimPendingRequest 以 status='pending' 为条件把申请置为终态；返回是否抢到
func claimPendingRequest(tx *gorm.DB, id uint, status models.DoorRequestStatus, processedBy *uint, reason *string, now time.Time) (bool, error) {
	res := tx.Model(&models.DoorRequest{}).
		Where("id = ? AND status = ?", id, models.DoorRequestPending).
		Updates(map[string]interface{}{
			"status":       status,
			"processed_by": processedBy,
			"processed_at": now,
			"reason":       reason,
			"updated_at":   now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *DoorRequestService) detailQuery(db *gorm.DB) *gorm.DB {
	return db.Table("door_requests").
		Joins("LEFT JOIN doors ON doors.id = door_requests.door_id").
		Joins("LEFT JOIN floors ON floors.id = doors.floor_id").
		Joins("LEFT JOIN buildings ON buildings.id = floors.building_id")
}
