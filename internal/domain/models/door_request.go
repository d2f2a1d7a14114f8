package models

import "time"

// DoorRequestStatus 开门申请状态
type DoorRequestStatus string

const (
	DoorRequestPending  DoorRequestStatus = "pending"
	DoorRequestApproved DoorRequestStatus = "approved"
	DoorRequestRejected DoorRequestStatus = "rejected"
)

func (s DoorRequestStatus) IsValid() bool {
	switch s {
	case DoorRequestPending, DoorRequestApproved, DoorRequestRejected:
		return true
	}
	return false
}

// IsTerminal approved 与 rejected 为终态
func (s DoorRequestStatus) IsTerminal() bool {
	return s == DoorRequestApproved || s == DoorRequestRejected
}

// DoorRequest 开门申请。创建时为 pending，只能被处理一次
type DoorRequest struct {
	BaseModel
	DoorID         uint              `gorm:"not null;index" json:"door_id"`
	RequesterName  string            `gorm:"type:varchar(100);not null" json:"requester_name"`
	RequesterPhone *string           `gorm:"type:varchar(30)" json:"requester_phone"`
	RequesterEmail *string           `gorm:"type:varchar(100)" json:"requester_email"`
	Purpose        string            `gorm:"type:text;not null" json:"purpose"`
	Status         DoorRequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ProcessedBy    *uint             `json:"processed_by"`
	ProcessedAt    *time.Time        `json:"processed_at"`
	Reason         *string           `gorm:"type:text" json:"reason"`

	Door *Door `gorm:"foreignKey:DoorID" json:"-"`
}

// DoorRequestDetail 申请详情，附带门/楼层/楼栋名称用于展示
type DoorRequestDetail struct {
	DoorRequest
	DoorName     string `json:"door_name"`
	FloorID      uint   `json:"floor_id"`
	FloorName    string `json:"floor_name"`
	BuildingID   uint   `json:"building_id"`
	BuildingName string `json:"building_name"`
}
