package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
)

// InterfaceDoorTypeService 门类型服务接口
type InterfaceDoorTypeService interface {
	GetDoorTypes(filter DoorTypeFilter) (*models.PaginatedResult, error)
	GetDoorTypeByID(id uint) (*models.DoorType, error)
	CreateDoorType(input DoorTypeInput, actor Actor) (*models.DoorType, error)
	UpdateDoorType(id uint, input DoorTypeUpdateInput, actor Actor) (*models.DoorType, error)
	DeleteDoorType(id uint, actor Actor) error
}

// DoorTypeFilter 门类型查询条件
type DoorTypeFilter struct {
	models.PaginationQuery
	Search string `form:"search"`
}

// DoorTypeInput 创建门类型请求
type DoorTypeInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// DoorTypeUpdateInput 更新门类型请求
type DoorTypeUpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

var doorTypeSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"created_at": "created_at",
}

// DoorTypeService 门类型服务
type DoorTypeService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDoorTypeService 创建门类型服务
func NewDoorTypeService(db *gorm.DB, cfg *config.Config) InterfaceDoorTypeService {
	return &DoorTypeService{DB: db, Config: cfg}
}

func (s *DoorTypeService) GetDoorTypes(filter DoorTypeFilter) (*models.PaginatedResult, error) {
	if filter.SortBy == "" && filter.SortOrder == "" {
		filter.SortOrder = "asc"
	}
	filter.Normalize(doorTypeSortColumns, "name")

	query := s.DB.Model(&models.DoorType{})
	if strings.TrimSpace(filter.Search) != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, code.Wrap(err, "count door types")
	}
	var types []models.DoorType
	if err := query.Order(filter.OrderClause()).Offset(filter.Offset()).Limit(filter.PageSize).Find(&types).Error; err != nil {
		return nil, code.Wrap(err, "list door types")
	}

	result := models.NewPaginatedResult(types, total, filter.PaginationQuery)
	return &result, nil
}

func (s *DoorTypeService) GetDoorTypeByID(id uint) (*models.DoorType, error) {
	var doorType models.DoorType
	if err := s.DB.First(&doorType, id).Error; err != nil {
		return nil, notFoundOr(err, "Door type not found")
	}
	return &doorType, nil
}

func (s *DoorTypeService) CreateDoorType(input DoorTypeInput, actor Actor) (*models.DoorType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, code.NewValidation("Door type name is required")
	}

	doorType := models.DoorType{Name: name, Description: strings.TrimSpace(input.Description)}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkDoorTypeName(tx, name, 0); err != nil {
			return err
		}
		if err := tx.Create(&doorType).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "create_door_type",
			EntityType: models.EntityDoorType,
			EntityID:   doorType.ID,
			Details:    map[string]interface{}{"name": doorType.Name},
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "create door type")
	}
	return &doorType, nil
}

func (s *DoorTypeService) UpdateDoorType(id uint, input DoorTypeUpdateInput, actor Actor) (*models.DoorType, error) {
	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, code.NewValidation("Door type name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var doorType models.DoorType
		if err := tx.First(&doorType, id).Error; err != nil {
			return notFoundOr(err, "Door type not found")
		}
		if len(updates) == 0 {
			return nil
		}
		if name, ok := updates["name"].(string); ok {
			if err := checkDoorTypeName(tx, name, id); err != nil {
				return err
			}
		}
		if err := tx.Model(&doorType).Updates(updates).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "update_door_type",
			EntityType: models.EntityDoorType,
			EntityID:   doorType.ID,
			Details:    updates,
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "update door type")
	}
	return s.GetDoorTypeByID(id)
}

// DeleteDoorType 仍有门引用时拒绝删除
func (s *DoorTypeService) DeleteDoorType(id uint, actor Actor) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var doorType models.DoorType
		if err := tx.First(&doorType, id).Error; err != nil {
			return notFoundOr(err, "Door type not found")
		}
		var inUse int64
		if err := tx.Model(&models.Door{}).Where("door_type_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return code.NewConflict("Door type is used by %d door(s)", inUse)
		}
		if err := tx.Delete(&doorType).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "delete_door_type",
			EntityType: models.EntityDoorType,
			EntityID:   doorType.ID,
			Details:    map[string]interface{}{"name": doorType.Name},
		})
	})
	return code.Wrap(err, "delete door type")
}

func checkDoorTypeName(tx *gorm.DB, name string, excludeID uint) error {
	var count int64
	q := tx.Model(&models.DoorType{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return code.NewDuplicate("Door type %s already exists", name)
	}
	return nil
}
