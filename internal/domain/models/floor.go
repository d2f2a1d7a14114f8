package models

// FloorStatus 楼层状态
type FloorStatus string

const (
	FloorStatusActive   FloorStatus = "active"
	FloorStatusInactive FloorStatus = "inactive"
)

func (s FloorStatus) IsValid() bool {
	return s == FloorStatusActive || s == FloorStatusInactive
}

// Floor 表示楼层信息，(building_id, name) 与 (building_id, floor_number) 在服务层保证唯一
type Floor struct {
	BaseModel
	BuildingID     uint        `gorm:"not null;index" json:"building_id"`
	Name           string      `gorm:"type:varchar(100);not null" json:"name"`
	FloorNumber    int         `gorm:"not null" json:"floor_number"`
	Status         FloorStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	FloorPlanImage *string     `gorm:"type:varchar(255)" json:"floor_plan_image"` // 平面图路径，作为坐标画布

	// 关联关系
	Building *Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Doors    []Door    `gorm:"foreignKey:FloorID" json:"doors,omitempty"`
}
