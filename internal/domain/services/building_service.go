package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
)

// InterfaceBuildingService 定义楼栋服务接口
type InterfaceBuildingService interface {
	GetBuildings(filter BuildingFilter) (*models.PaginatedResult, error)
	GetBuildingByID(id uint) (*models.Building, error)
	CreateBuilding(input BuildingInput, actor Actor) (*models.Building, error)
	UpdateBuilding(id uint, input BuildingUpdateInput, actor Actor) (*models.Building, error)
	DeleteBuilding(id uint, actor Actor) error
}

// BuildingFilter 楼栋列表查询条件
type BuildingFilter struct {
	models.PaginationQuery
	Status string `form:"status"`
	Search string `form:"search"`
}

// BuildingInput 创建楼栋请求
type BuildingInput struct {
	Name    string                `json:"name" binding:"required"`
	Address string                `json:"address"`
	Status  models.BuildingStatus `json:"status"`
}

// BuildingUpdateInput 更新楼栋请求
type BuildingUpdateInput struct {
	Name    *string                `json:"name"`
	Address *string                `json:"address"`
	Status  *models.BuildingStatus `json:"status"`
}

var buildingSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"status":     "status",
	"created_at": "created_at",
}

// BuildingService 提供楼栋相关的服务
type BuildingService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewBuildingService 创建一个新的楼栋服务
func NewBuildingService(db *gorm.DB, cfg *config.Config) InterfaceBuildingService {
	return &BuildingService{
		DB:     db,
		Config: cfg,
	}
}

// 1. GetBuildings 获取楼栋列表，支持分页、状态过滤和名称/地址搜索
func (s *BuildingService) GetBuildings(filter BuildingFilter) (*models.PaginatedResult, error) {
	filter.Normalize(buildingSortColumns, "created_at")

	query := s.DB.Model(&models.Building{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if strings.TrimSpace(filter.Search) != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name LIKE ? OR address LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, code.Wrap(err, "count buildings")
	}

	var buildings []models.Building
	if err := query.Order(filter.OrderClause()).Order("id desc").Offset(filter.Offset()).Limit(filter.PageSize).Find(&buildings).Error; err != nil {
		return nil, code.Wrap(err, "list buildings")
	}

	result := models.NewPaginatedResult(buildings, total, filter.PaginationQuery)
	return &result, nil
}

// 2. GetBuildingByID 根据ID获取楼栋
func (s *BuildingService) GetBuildingByID(id uint) (*models.Building, error) {
	var building models.Building
	if err := s.DB.First(&building, id).Error; err != nil {
		return nil, notFoundOr(err, "Building not found")
	}
	return &building, nil
}

// 3. CreateBuilding 创建新楼栋
func (s *BuildingService) CreateBuilding(input BuildingInput, actor Actor) (*models.Building, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, code.NewValidation("Building name is required")
	}
	status := input.Status
	if status == "" {
		status = models.BuildingStatusActive
	}
	if !status.IsValid() {
		return nil, code.NewInvalidStatus("Invalid status. Must be one of: active, inactive")
	}

	building := models.Building{Name: name, Address: strings.TrimSpace(input.Address), Status: status}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&building).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "create_building",
			EntityType: models.EntityBuilding,
			EntityID:   building.ID,
			Details:    map[string]interface{}{"name": building.Name},
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "create building")
	}
	return &building, nil
}

// 4. UpdateBuilding 更新楼栋信息
func (s *BuildingService) UpdateBuilding(id uint, input BuildingUpdateInput, actor Actor) (*models.Building, error) {
	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, code.NewValidation("Building name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Address != nil {
		updates["address"] = strings.TrimSpace(*input.Address)
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, code.NewInvalidStatus("Invalid status. Must be one of: active, inactive")
		}
		updates["status"] = *input.Status
	}

	var building models.Building
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&building, id).Error; err != nil {
			return notFoundOr(err, "Building not found")
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&building).Updates(updates).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "update_building",
			EntityType: models.EntityBuilding,
			EntityID:   building.ID,
			Details:    updates,
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "update building")
	}
	return s.GetBuildingByID(id)
}

// 5. DeleteBuilding 删除楼栋（硬删除，不级联）
func (s *BuildingService) DeleteBuilding(id uint, actor Actor) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var building models.Building
		if err := tx.First(&building, id).Error; err != nil {
			return notFoundOr(err, "Building not found")
		}
		if err := tx.Delete(&building).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "delete_building",
			EntityType: models.EntityBuilding,
			EntityID:   building.ID,
			Details:    map[string]interface{}{"name": building.Name},
		})
	})
	return code.Wrap(err, "delete building")
}
