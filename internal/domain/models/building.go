package models

// BuildingStatus 楼栋状态
type BuildingStatus string

const (
	BuildingStatusActive   BuildingStatus = "active"
	BuildingStatusInactive BuildingStatus = "inactive"
)

func (s BuildingStatus) IsValid() bool {
	return s == BuildingStatusActive || s == BuildingStatusInactive
}

// Building 表示楼栋信息
type Building struct {
	BaseModel
	Name    string         `gorm:"type:varchar(100);not null" json:"name"`
	Address string         `gorm:"type:varchar(255)" json:"address"`
	Status  BuildingStatus `gorm:"type:varchar(20);default:'active'" json:"status"`

	// 关联关系
	Floors []Floor `gorm:"foreignKey:BuildingID" json:"floors,omitempty"`
}
