package models

import (
	"time"

	"gorm.io/datatypes"
)

// 活动日志中的实体类型
const (
	EntityBuilding    = "building"
	EntityFloor       = "floor"
	EntityDoor        = "door"
	EntityDoorType    = "door_type"
	EntityCoordinate  = "door_coordinate"
	EntityDoorRequest = "door_request"
	EntityUser        = "user"
)

// ActivityLog 管理操作审计记录，只追加不修改
type ActivityLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     *uint          `gorm:"index" json:"user_id"`
	Action     string         `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityType string         `gorm:"type:varchar(50);index" json:"entity_type"`
	EntityID   *uint          `gorm:"index" json:"entity_id"`
	Details    datatypes.JSON `json:"details"`
	IPAddress  string         `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}
