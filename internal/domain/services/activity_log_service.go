package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
)

// InterfaceActivityLogService 操作日志服务接口
type InterfaceActivityLogService interface {
	Record(entry ActivityEntry) error
	GetActivityLogs(filter ActivityLogFilter) (*models.PaginatedResult, error)
}

// ActivityLogFilter 操作日志查询条件
type ActivityLogFilter struct {
	models.PaginationQuery
	UserID     *uint  `form:"user_id"`
	EntityType string `form:"entity_type"`
	EntityID   *uint  `form:"entity_id"`
	Action     string `form:"action"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
}

var activityLogSortColumns = map[string]string{
	"created_at":  "created_at",
	"action":      "action",
	"entity_type": "entity_type",
	"user_id":     "user_id",
}

// ActivityLogService 操作日志只追加，不提供修改与删除
type ActivityLogService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewActivityLogService 创建操作日志服务
func NewActivityLogService(db *gorm.DB, cfg *config.Config) InterfaceActivityLogService {
	return &ActivityLogService{DB: db, Config: cfg}
}

// Record 在独立语句中写入一条日志
func (s *ActivityLogService) Record(entry ActivityEntry) error {
	return recordActivity(s.DB, entry)
}

// GetActivityLogs 分页查询日志，默认按时间倒序
func (s *ActivityLogService) GetActivityLogs(filter ActivityLogFilter) (*models.PaginatedResult, error) {
	filter.Normalize(activityLogSortColumns, "created_at")
	from, to, err := parseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	query := s.DB.Model(&models.ActivityLog{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", strings.TrimSpace(filter.EntityType))
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", strings.TrimSpace(filter.Action))
	}
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, code.Wrap(err, "count activity logs")
	}

	var logs []models.ActivityLog
	if err := query.Order(filter.OrderClause()).Order("id desc").Offset(filter.Offset()).Limit(filter.PageSize).Find(&logs).Error; err != nil {
		return nil, code.Wrap(err, "list activity logs")
	}

	result := models.NewPaginatedResult(logs, total, filter.PaginationQuery)
	return &result, nil
}
