package services

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gorm.io/gorm"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
)

// InterfaceCoordinateService 门坐标服务接口
type InterfaceCoordinateService interface {
	GetCoordinates(buildingID, floorID, doorID uint) ([]models.DoorCoordinate, error)
	GetCoordinate(buildingID, floorID, doorID, coordinateID uint) (*models.DoorCoordinate, error)
	CreateCoordinate(buildingID, floorID, doorID uint, input CoordinateInput, actor Actor) (*models.DoorCoordinate, error)
	UpdateCoordinate(buildingID, floorID, doorID, coordinateID uint, input CoordinateUpdateInput, actor Actor) (*models.DoorCoordinate, error)
	DeleteCoordinate(buildingID, floorID, doorID, coordinateID uint, actor Actor) error
	GetFloorLayout(buildingID, floorID uint) (*FloorLayout, error)
}

// CoordinateInput 创建坐标请求；x、y 为平面图像素坐标
type CoordinateInput struct {
	X        *float64 `json:"x_coordinate" binding:"required"`
	Y        *float64 `json:"y_coordinate" binding:"required"`
	Z        *float64 `json:"z_coordinate"`
	Rotation *float64 `json:"rotation"`
}

// CoordinateUpdateInput 更新坐标请求
type CoordinateUpdateInput struct {
	X        *float64 `json:"x_coordinate"`
	Y        *float64 `json:"y_coordinate"`
	Z        *float64 `json:"z_coordinate"`
	Rotation *float64 `json:"rotation"`
}

// FloorLayout 楼层平面图上所有门的位置，GeoJSON 点位于平面图像素空间
type FloorLayout struct {
	FloorID        uint                       `json:"floor_id"`
	FloorName      string                     `json:"floor_name"`
	FloorPlanImage *string                    `json:"floor_plan_image"`
	DoorCount      int                        `json:"door_count"`
	Layout         *geojson.FeatureCollection `json:"layout"`
}

// CoordinateService 门坐标服务
type CoordinateService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewCoordinateService 创建门坐标服务
func NewCoordinateService(db *gorm.DB, cfg *config.Config) InterfaceCoordinateService {
	return &CoordinateService{DB: db, Config: cfg}
}

func (s *CoordinateService) GetCoordinates(buildingID, floorID, doorID uint) ([]models.DoorCoordinate, error) {
	if _, err := loadScopedDoor(s.DB, buildingID, floorID, doorID); err != nil {
		return nil, err
	}
	var coordinates []models.DoorCoordinate
	if err := s.DB.Where("door_id = ?", doorID).Order("id asc").Find(&coordinates).Error; err != nil {
		return nil, code.Wrap(err, "list coordinates")
	}
	return coordinates, nil
}

func (s *CoordinateService) GetCoordinate(buildingID, floorID, doorID, coordinateID uint) (*models.DoorCoordinate, error) {
	return loadScopedCoordinate(s.DB, buildingID, floorID, doorID, coordinateID)
}

func (s *CoordinateService) CreateCoordinate(buildingID, floorID, doorID uint, input CoordinateInput, actor Actor) (*models.DoorCoordinate, error) {
	if input.X == nil || input.Y == nil {
		return nil, code.NewValidation("x_coordinate and y_coordinate are required")
	}

	coordinate := models.DoorCoordinate{DoorID: doorID, X: *input.X, Y: *input.Y, Z: input.Z, Rotation: input.Rotation}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := loadScopedDoor(tx, buildingID, floorID, doorID); err != nil {
			return err
		}
		if err := tx.Create(&coordinate).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "create_door_coordinate",
			EntityType: models.EntityCoordinate,
			EntityID:   coordinate.ID,
			Details:    map[string]interface{}{"door_id": doorID, "x": coordinate.X, "y": coordinate.Y},
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "create coordinate")
	}
	return &coordinate, nil
}

func (s *CoordinateService) UpdateCoordinate(buildingID, floorID, doorID, coordinateID uint, input CoordinateUpdateInput, actor Actor) (*models.DoorCoordinate, error) {
	updates := map[string]interface{}{}
	if input.X != nil {
		updates["x"] = *input.X
	}
	if input.Y != nil {
		updates["y"] = *input.Y
	}
	if input.Z != nil {
		updates["z"] = *input.Z
	}
	if input.Rotation != nil {
		updates["rotation"] = *input.Rotation
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		coordinate, err := loadScopedCoordinate(tx, buildingID, floorID, doorID, coordinateID)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(coordinate).Updates(updates).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "update_door_coordinate",
			EntityType: models.EntityCoordinate,
			EntityID:   coordinate.ID,
			Details:    updates,
		})
	})
	if err != nil {
		return nil, code.Wrap(err, "update coordinate")
	}
	return s.GetCoordinate(buildingID, floorID, doorID, coordinateID)
}

func (s *CoordinateService) DeleteCoordinate(buildingID, floorID, doorID, coordinateID uint, actor Actor) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		coordinate, err := loadScopedCoordinate(tx, buildingID, floorID, doorID, coordinateID)
		if err != nil {
			return err
		}
		if err := tx.Delete(coordinate).Error; err != nil {
			return err
		}
		return recordActivity(tx, ActivityEntry{
			Actor:      actor,
			Action:     "delete_door_coordinate",
			EntityType: models.EntityCoordinate,
			EntityID:   coordinate.ID,
			Details:    map[string]interface{}{"door_id": doorID},
		})
	})
	return code.Wrap(err, "delete coordinate")
}

// GetFloorLayout 楼层平面图投影：每个坐标一个 Point 要素，附带门的状态与锁状态
func (s *CoordinateService) GetFloorLayout(buildingID, floorID uint) (*FloorLayout, error) {
	floor, err := loadScopedFloor(s.DB, buildingID, floorID)
	if err != nil {
		return nil, err
	}

	var doors []models.Door
	if err := s.DB.Where("floor_id = ?", floorID).Preload("Coordinates").Order("id asc").Find(&doors).Error; err != nil {
		return nil, code.Wrap(err, "load floor doors")
	}

	fc := geojson.NewFeatureCollection()
	points := orb.MultiPoint{}
	for _, door := range doors {
		for _, c := range door.Coordinates {
			point := orb.Point{c.X, c.Y}
			points = append(points, point)

			feature := geojson.NewFeature(point)
			feature.ID = c.ID
			feature.Properties["coordinate_id"] = c.ID
			feature.Properties["door_id"] = door.ID
			feature.Properties["door_name"] = door.Name
			feature.Properties["status"] = door.Status
			feature.Properties["lock_status"] = door.LockStatus
			if c.Z != nil {
				feature.Properties["z"] = *c.Z
			}
			if c.Rotation != nil {
				feature.Properties["rotation"] = *c.Rotation
			}
			fc.Append(feature)
		}
	}
	if len(points) > 0 {
		fc.BBox = geojson.NewBBox(points.Bound())
	}

	return &FloorLayout{
		FloorID:        floor.ID,
		FloorName:      floor.Name,
		FloorPlanImage: floor.FloorPlanImage,
		DoorCount:      len(doors),
		Layout:         fc,
	}, nil
}

func loadScopedCoordinate(db *gorm.DB, buildingID, floorID, doorID, coordinateID uint) (*models.DoorCoordinate, error) {
	if _, err := loadScopedDoor(db, buildingID, floorID, doorID); err != nil {
		return nil, err
	}
	var coordinate models.DoorCoordinate
	if err := db.Where("id = ? AND door_id = ?", coordinateID, doorID).First(&coordinate).Error; err != nil {
		return nil, notFoundOr(err, "Door coordinate not found")
	}
	return &coordinate, nil
}
