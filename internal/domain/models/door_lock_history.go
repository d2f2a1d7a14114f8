package models

import "time"

// DoorLockHistory 门锁状态变更记录，只追加不修改
type DoorLockHistory struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	DoorID         uint       `gorm:"not null;index" json:"door_id"`
	PreviousStatus LockStatus `gorm:"type:varchar(20);not null" json:"previous_status"`
	NewStatus      LockStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedBy      *uint      `gorm:"index" json:"changed_by"`
	Reason         string     `gorm:"type:text" json:"reason"`
	RequestID      *uint      `gorm:"index" json:"request_id"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}

// TableName 固定表名
func (DoorLockHistory) TableName() string {
	return "door_lock_history"
}
