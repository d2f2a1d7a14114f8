package models

// DoorType 门类型，如 main、emergency、office
type DoorType struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}
