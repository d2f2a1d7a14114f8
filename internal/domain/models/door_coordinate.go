package models

// DoorCoordinate 门在楼层平面图上的一个放置位置，一扇门可以有多个
type DoorCoordinate struct {
	BaseModel
	DoorID   uint     `gorm:"not null;index" json:"door_id"`
	X        float64  `gorm:"not null" json:"x_coordinate"`
	Y        float64  `gorm:"not null" json:"y_coordinate"`
	Z        *float64 `json:"z_coordinate,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"` // 角度
}
