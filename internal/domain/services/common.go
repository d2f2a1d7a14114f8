package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
)

// Actor 发起操作的用户与来源 IP；匿名请求 UserID 为 nil
type Actor struct {
	UserID    *uint
	IPAddress string
}

// ActivityEntry 一条待写入的操作日志
type ActivityEntry struct {
	Actor      Actor
	Action     string
	EntityType string
	EntityID   uint
	Details    map[string]interface{}
}

// recordActivity 在给定的事务里写入操作日志
func recordActivity(tx *gorm.DB, e ActivityEntry) error {
	var details datatypes.JSON
	if e.Details != nil {
		raw, err := json.Marshal(e.Details)
		if err != nil {
			return err
		}
		details = datatypes.JSON(raw)
	}

	entry := models.ActivityLog{
		UserID:     e.Actor.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		Details:    details,
		IPAddress:  e.Actor.IPAddress,
	}
	if e.EntityID != 0 {
		id := e.EntityID
		entry.EntityID = &id
	}
	return tx.Create(&entry).Error
}

// notFoundOr 记录不存在时转成 NotFound，其他错误包装成 500
func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return code.NewNotFound("%s", message)
	}
	return code.Wrap(err, "%s", "database error")
}

// loadScopedFloor 查询属于指定楼栋的楼层
func loadScopedFloor(db *gorm.DB, buildingID, floorID uint) (*models.Floor, error) {
	var building models.Building
	if err := db.Select("id").First(&building, buildingID).Error; err != nil {
		return nil, notFoundOr(err, "Building not found")
	}

	var floor models.Floor
	if err := db.Where("id = ? AND building_id = ?", floorID, buildingID).First(&floor).Error; err != nil {
		return nil, notFoundOr(err, "Floor not found")
	}
	return &floor, nil
}

// loadScopedDoor 查询属于指定楼栋、楼层的门
func loadScopedDoor(db *gorm.DB, buildingID, floorID, doorID uint) (*models.Door, error) {
	if _, err := loadScopedFloor(db, buildingID, floorID); err != nil {
		return nil, err
	}

	var door models.Door
	if err := db.Where("id = ? AND floor_id = ?", doorID, floorID).First(&door).Error; err != nil {
		return nil, notFoundOr(err, "Door not found")
	}
	return &door, nil
}

// likePattern 搜索关键字转为 LIKE 模式
func likePattern(search string) string {
	return "%" + strings.TrimSpace(search) + "%"
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// parseDateRange 解析 start/end 查询参数；只给日期时 end 包含当天
func parseDateRange(start, end string) (*time.Time, *time.Time, error) {
	from, _, err := parseDate(start)
	if err != nil {
		return nil, nil, code.NewValidation("Invalid start_date %q", start)
	}
	to, dateOnly, err := parseDate(end)
	if err != nil {
		return nil, nil, code.NewValidation("Invalid end_date %q", end)
	}
	if to != nil && dateOnly {
		t := to.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, code.NewValidation("end_date must not be before start_date")
	}
	return from, to, nil
}

func parseDate(value string) (*time.Time, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, false, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t, layout == "2006-01-02", nil
		}
	}
	return nil, false, errors.New("unrecognized date format")
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
