package services

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/realtime"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestBuildingService_CRUD(t *testing.T) {
	e := newEnv(t)
	svc := NewBuildingService(e.db, e.cfg)
	admin := Actor{UserID: uintPtr(1)}

	_, err := svc.CreateBuilding(BuildingInput{Name: "Tower", Status: "demolished"}, admin)
	assert.ErrorIs(t, err, code.ErrInvalidStatus)

	b, err := svc.CreateBuilding(BuildingInput{Name: " Tower ", Address: "1 Main St"}, admin)
	require.NoError(t, err)
	assert.Equal(t, "Tower", b.Name)
	assert.Equal(t, models.BuildingStatusActive, b.Status)

	inactive := models.BuildingStatusInactive
	b, err = svc.UpdateBuilding(b.ID, BuildingUpdateInput{Status: &inactive}, admin)
	require.NoError(t, err)
	assert.Equal(t, models.BuildingStatusInactive, b.Status)

	list, err := svc.GetBuildings(BuildingFilter{Status: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	require.NoError(t, svc.DeleteBuilding(b.ID, admin))
	_, err = svc.GetBuildingByID(b.ID)
	assert.ErrorIs(t, err, code.ErrNotFound)

	assert.Equal(t, []string{"create_building", "update_building", "delete_building"}, activityActions(t, e.db))
}

func TestFloorService_Duplicates(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)
	svc := NewFloorService(e.db, e.cfg)

	_, err := svc.CreateFloor(f.building.ID, FloorInput{Name: "Ground", FloorNumber: intPtr(3)}, Actor{})
	require.ErrorIs(t, err, code.ErrDuplicate)
	assert.Equal(t, "Floor name Ground already exists in this building", err.Error())

	_, err = svc.CreateFloor(f.building.ID, FloorInput{Name: "Lobby", FloorNumber: intPtr(0)}, Actor{})
	require.ErrorIs(t, err, code.ErrDuplicate)
	assert.Equal(t, "Floor number 0 already exists in this building", err.Error())

	_, err = svc.CreateFloor(f.building.ID+99, FloorInput{Name: "Roof", FloorNumber: intPtr(9)}, Actor{})
	assert.ErrorIs(t, err, code.ErrNotFound)

	first, err := svc.CreateFloor(f.building.ID, FloorInput{Name: "First", FloorNumber: intPtr(1)}, Actor{})
	require.NoError(t, err)

	// 更新为自身当前值不算重复
	same := "First"
	_, err = svc.UpdateFloor(f.building.ID, first.ID, FloorUpdateInput{Name: &same}, Actor{})
	require.NoError(t, err)

	_, err = svc.UpdateFloor(f.building.ID, first.ID, FloorUpdateInput{FloorNumber: intPtr(0)}, Actor{})
	assert.ErrorIs(t, err, code.ErrDuplicate)

	floors, err := svc.GetFloors(f.building.ID, FloorFilter{})
	require.NoError(t, err)
	rows := floors.Data.([]models.Floor)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].FloorNumber)
	assert.Equal(t, 1, rows[1].FloorNumber)
}

func TestDoorTypeService_InUse(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)
	svc := NewDoorTypeService(e.db, e.cfg)

	dt, err := svc.CreateDoorType(DoorTypeInput{Name: "Glass"}, Actor{})
	require.NoError(t, err)
	_, err = svc.CreateDoorType(DoorTypeInput{Name: "Glass"}, Actor{})
	assert.ErrorIs(t, err, code.ErrDuplicate)

	require.NoError(t, e.db.Model(&models.Door{}).Where("id = ?", f.door.ID).Update("door_type_id", dt.ID).Error)
	err = svc.DeleteDoorType(dt.ID, Actor{})
	assert.ErrorIs(t, err, code.ErrConflict)

	_, err = e.doors.CreateDoor(f.building.ID, f.floor.ID, DoorInput{Name: "Side", DoorTypeID: uintPtr(dt.ID + 50)}, Actor{})
	assert.ErrorIs(t, err, code.ErrNotFound)
}

func TestDoorService_CreateDefaultsAndScope(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)

	door, err := e.doors.CreateDoor(f.building.ID, f.floor.ID, DoorInput{Name: "Back door"}, Actor{})
	require.NoError(t, err)
	assert.Equal(t, models.DoorStatusActive, door.Status)
	assert.Equal(t, models.LockStatusClosed, door.LockStatus)
	assert.False(t, door.HasDevice())

	_, err = e.doors.GetDoor(f.building.ID+1, f.floor.ID, door.ID)
	require.ErrorIs(t, err, code.ErrNotFound)
	assert.Equal(t, "Building not found", err.Error())

	list, err := e.doors.GetDoors(f.building.ID, f.floor.ID, DoorFilter{LockStatus: "closed", Search: "back"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	name := "Rear door"
	updated, err := e.doors.UpdateDoor(f.building.ID, f.floor.ID, door.ID, DoorUpdateInput{Name: &name}, Actor{})
	require.NoError(t, err)
	assert.Equal(t, "Rear door", updated.Name)

	require.NoError(t, e.doors.DeleteDoor(f.building.ID, f.floor.ID, door.ID, Actor{}))
	_, err = e.doors.GetDoor(f.building.ID, f.floor.ID, door.ID)
	assert.ErrorIs(t, err, code.ErrNotFound)
}

func TestDoorService_UpdateDoorStatus(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)
	ctx := context.Background()

	_, err := e.doors.UpdateDoorStatus(ctx, f.building.ID, f.floor.ID, f.door.ID, models.DoorStatusActive, operator())
	require.ErrorIs(t, err, code.ErrNoOpRejected)
	assert.Equal(t, "Door status is already active", err.Error())

	_, err = e.doors.UpdateDoorStatus(ctx, f.building.ID, f.floor.ID, f.door.ID, "broken", operator())
	assert.ErrorIs(t, err, code.ErrInvalidStatus)

	door, err := e.doors.UpdateDoorStatus(ctx, f.building.ID, f.floor.ID, f.door.ID, models.DoorStatusMaintenance, operator())
	require.NoError(t, err)
	assert.Equal(t, models.DoorStatusMaintenance, door.Status)
	assert.Equal(t, models.LockStatusClosed, door.LockStatus)

	events := e.events.named(realtime.EventDoorStatusUpdated)
	require.Len(t, events, 2)
	assert.Equal(t, "", events[0].Room)
	assert.Equal(t, "door:5", events[1].Room)
	assert.Equal(t, models.DoorStatusActive, events[0].Payload["previous_status"])

	calls := e.tb.attributeCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "maintenance", calls[0]["door_status"])
	assert.Equal(t, []string{"update_door_status"}, activityActions(t, e.db))
}

func TestCoordinateService_Layout(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)
	svc := NewCoordinateService(e.db, e.cfg)

	_, err := svc.CreateCoordinate(f.building.ID, f.floor.ID, f.door.ID, CoordinateInput{X: floatPtr(10)}, Actor{})
	assert.ErrorIs(t, err, code.ErrValidation)

	c1, err := svc.CreateCoordinate(f.building.ID, f.floor.ID, f.door.ID, CoordinateInput{X: floatPtr(10), Y: floatPtr(20), Rotation: floatPtr(90)}, Actor{})
	require.NoError(t, err)
	_, err = svc.CreateCoordinate(f.building.ID, f.floor.ID, f.door.ID, CoordinateInput{X: floatPtr(110), Y: floatPtr(5)}, Actor{})
	require.NoError(t, err)

	_, err = svc.GetCoordinate(f.building.ID, f.floor.ID, f.door.ID, c1.ID+100)
	require.ErrorIs(t, err, code.ErrNotFound)
	assert.Equal(t, "Door coordinate not found", err.Error())

	layout, err := svc.GetFloorLayout(f.building.ID, f.floor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, layout.DoorCount)
	require.Len(t, layout.Layout.Features, 2)

	feature := layout.Layout.Features[0]
	assert.Equal(t, orb.Point{10, 20}, feature.Geometry)
	assert.Equal(t, f.door.ID, feature.Properties["door_id"])
	assert.Equal(t, 90.0, feature.Properties["rotation"])
	assert.Equal(t, models.LockStatusClosed, feature.Properties["lock_status"])
	assert.Equal(t, []float64{10, 5, 110, 20}, []float64(layout.Layout.BBox))

	require.NoError(t, svc.DeleteCoordinate(f.building.ID, f.floor.ID, f.door.ID, c1.ID, Actor{}))
	coords, err := svc.GetCoordinates(f.building.ID, f.floor.ID, f.door.ID)
	require.NoError(t, err)
	assert.Len(t, coords, 1)
}
