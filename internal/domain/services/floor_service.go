package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
)

// InterfaceFloorService 楼层服务接口，所有操作都限定在楼栋之下
type InterfaceFloorService interface {
	GetFloors(buildingID uint, filter FloorFilter) (*models.PaginatedResult, error)
	GetFloor(buildingID, floorID uint) (*models.Floor, error)
	CreateFloor(buildingID uint, input FloorInput, actor Actor) (*models.Floor, error)
	UpdateFloor(buildingID, floorID uint, input FloorUpdateInput, actor Actor) (*models.Floor, error)
	DeleteFloor(buildingID, floorID uint, actor Actor) error
}

// FloorFilter 楼层列表查询条件
type FloorFilter struct {
	models.PaginationQuery
	Status string `form:"status"`
	Search string `form:"search"`
}

// FloorInput 创建楼层请求
type FloorInput struct {
	Name           string             `json:"name" binding:"required"`
	FloorNumber    *int               `json:"floor_number" binding:"required"`
	Status         models.FloorStatus `json:"status"`
	FloorPlanImage *string            `json:"floor_plan_image"`
}

// FloorUpdateInput 更新楼层请求
type FloorUpdateInput struct {
	Name           *string             `json:"name"`
	FloorNumber    *int                `json:"floor_number"`
	Status         *models.FloorStatus `json:"status"`
	FloorPlanImage *string             `json:"floor_plan_image"`
}

var floorSortColumns = map[string]string{
	"id":           "id",
	"name":         "name",
	"floor_number": "floor_number",
	"created_at":   "created_at",
}

// FloorService 楼层服务
type FloorService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewFloorService 创建楼层服务
func NewFloorService(db *gorm.DB, cfg *config.Config) InterfaceFloorService {
	return &FloorService{DB: db, Config: cfg}
}

// 1. GetFloors 楼栋下的楼层列表，默认按楼层号升序
func (s *FloorService) GetFloors(buildingID uint, filter FloorFilter) (*models.PaginatedResult, error) {
	if err := s.ensureBuilding(s.DB, buildingID); err != nil {
		return nil, err
	}
	if filter.SortBy == "" && filter.SortOrder == "" {
		filter.SortOrder = "asc"
	}
	filter.Normalize(floorSortColumns, "floor_number")

	query := s.DB.Model(&models.Floor{}).Where("building_id = ?", buildingID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where("name LIKE ?", likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, code.Wrap(err, "count floors")
	}

	var floors []models.Floor
	if err := query.Order(filter.OrderClause()).Order("id asc").Offset(filter.Offset()).Limit(filter.PageSize).Find(&floors).Error; err != nil {
		return nil, code.Wrap(err, "list floors")
	}

	result := models.NewPaginatedResult(floors, total, filter.PaginationQuery)
	return &result, nil
}

// 2. GetFloor 获取楼层；楼层不属于该楼栋时返回 NotFound
func (s *FloorService) GetFloor(buildingID, floorID uint) (*models.Floor, error) {
	return loadScopedFloor(s.DB, buildingID, floorID)
}

// 3. CreateFloor 创建楼层，同一楼栋内名称和楼层号均不能重复
func (s *FloorService) CreateFloor(buildingID uint, input FloorInput, actor Actor) (*models.Floor, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, code.NewValidation("Floor name is required")
	}
	if input.FloorNumber == nil {
		return nil, code.NewValidation("Floor number is required")
	}
	status := input.Status
	if status == "" {
		status = models.FloorStatusActive
	}
	if !status.IsValid() {
		return nil, code.NewInvalidStatus("Invalid status. Must be one of: active, inactive")
	}

	floor := models.Floor{
		BuildingID:     buildingID,
		Name:           name,
		FloorNumber:    *input.FloorNumber,
		Status:         status,
		FloorPlanImage: trimmedPtr(input.FloorPlanImage),
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.ensureBuilding(tx, buildingID); err != nil {
			return err
		}
		if err := checkFloorDuplicates(tx, buildingID, 0, &floor.Name, &floor.FloorNumber); err != nil {
			return err
		}
		if err := tx.Create(&floor).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "create_floor",
			EntityType: models.EntityFloor,
			EntityID:   floor.ID,
			Details:    map[string]interface{}{"building_id": buildingID, "name": floor.Name, "floor_number": floor.FloorNumber},
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "create floor")
	}
	return &floor, nil
}

// 4. UpdateFloor 更新楼层
func (s *FloorService) UpdateFloor(buildingID, floorID uint, input FloorUpdateInput, actor Actor) (*models.Floor, error) {
	updates := map[string]interface{}{}
	var name *string
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, code.NewValidation("Floor name cannot be empty")
		}
		name = &trimmed
		updates["name"] = trimmed
	}
	if input.FloorNumber != nil {
		updates["floor_number"] = *input.FloorNumber
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, code.NewInvalidStatus("Invalid status. Must be one of: active, inactive")
		}
		updates["status"] = *input.Status
	}
	if input.FloorPlanImage != nil {
		updates["floor_plan_image"] = trimmedPtr(input.FloorPlanImage)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		floor, err := loadScopedFloor(tx, buildingID, floorID)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := checkFloorDuplicates(tx, buildingID, floor.ID, name, input.FloorNumber); err != nil {
			return err
		}
		if err := tx.Model(floor).Updates(updates).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "update_floor",
			EntityType: models.EntityFloor,
			EntityID:   floor.ID,
			Details:    updates,
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "update floor")
	}
	return s.GetFloor(buildingID, floorID)
}

// 5. DeleteFloor 删除楼层（硬删除，不级联）
func (s *FloorService) DeleteFloor(buildingID, floorID uint, actor Actor) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		floor, err := loadScopedFloor(tx, buildingID, floorID)
		if err != nil {
			return err
		}
		if err := tx.Delete(floor).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "delete_floor",
			EntityType: models.EntityFloor,
			EntityID:   floor.ID,
			Details:    map[string]interface{}{"building_id": buildingID, "name": floor.Name},
		})
	})
	return code.Wrap(err, "delete floor")
}

func (s *FloorService) ensureBuilding(db *gorm.DB, buildingID uint) error {
	var count int64
	if err := db.Model(&models.Building{}).Where("id = ?", buildingID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return code.NewNotFound("Building not found")
	}
	return nil
}

// checkFloorDuplicates 插入/更新前显式检查 (building_id, name) 与 (building_id, floor_number)
func checkFloorDuplicates(tx *gorm.DB, buildingID, excludeID uint, name *string, number *int) error {
	if name != nil {
		var count int64
		q := tx.Model(&models.Floor{}).Where("building_id = ? AND name = ?", buildingID, *name)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return code.NewDuplicate("Floor name %s already exists in this building", *name)
		}
	}
	if number != nil {
		var count int64
		q := tx.Model(&models.Floor{}).Where("building_id = ? AND floor_number = ?", buildingID, *number)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return code.NewDuplicate("Floor number %d already exists in this building", *number)
		}
	}
	return nil
}
