package models

// DoorStatus 门的运行状态
type DoorStatus string

const (
	DoorStatusActive      DoorStatus = "active"
	DoorStatusInactive    DoorStatus = "inactive"
	DoorStatusMaintenance DoorStatus = "maintenance"
)

func (s DoorStatus) IsValid() bool {
	switch s {
	case DoorStatusActive, DoorStatusInactive, DoorStatusMaintenance:
		return true
	}
	return false
}

// LockStatus 门锁状态
type LockStatus string

const (
	LockStatusOpen   LockStatus = "open"
	LockStatusClosed LockStatus = "closed"
)

func (s LockStatus) IsValid() bool {
	return s == LockStatusOpen || s == LockStatusClosed
}

// Toggle 返回相反的锁状态；非 closed 一律视为 open
func (s LockStatus) Toggle() LockStatus {
	if s == LockStatusClosed {
		return LockStatusOpen
	}
	return LockStatusClosed
}

// Door 表示门及其锁状态。lock_status 只能通过锁状态服务修改
type Door struct {
	BaseModel
	FloorID                uint       `gorm:"not null;index" json:"floor_id"`
	Name                   string     `gorm:"type:varchar(100);not null" json:"name"`
	DoorTypeID             *uint      `gorm:"index" json:"door_type_id"`
	Status                 DoorStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	LockStatus             LockStatus `gorm:"type:varchar(20);default:'closed'" json:"lock_status"`
	ThingsboardDeviceID    *string    `gorm:"type:varchar(100)" json:"thingsboard_device_id,omitempty"`
	ThingsboardAccessToken *string    `gorm:"type:varchar(100)" json:"-"`

	// 关联关系
	Floor       *Floor           `gorm:"foreignKey:FloorID" json:"floor,omitempty"`
	DoorType    *DoorType        `gorm:"foreignKey:DoorTypeID" json:"door_type,omitempty"`
	Coordinates []DoorCoordinate `gorm:"foreignKey:DoorID" json:"coordinates,omitempty"`
}

// HasDevice 是否绑定了外部设备
func (d *Door) HasDevice() bool {
	return d.ThingsboardDeviceID != nil && *d.ThingsboardDeviceID != ""
}
