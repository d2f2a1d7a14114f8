package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/realtime"
)

func TestUpdateLockStatus_ManualChange(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)

	change, err := e.locks.UpdateLockStatus(context.Background(), LockUpdateInput{
		BuildingID: f.building.ID,
		FloorID:    f.floor.ID,
		DoorID:     f.door.ID,
		LockStatus: models.LockStatusOpen,
		Actor:      operator(),
	})
	require.NoError(t, err)

	assert.Equal(t, models.LockStatusClosed, change.PreviousStatus)
	assert.Equal(t, models.LockStatusOpen, change.LockStatus)
	assert.Equal(t, LockSourceManual, change.Source)
	assert.True(t, change.DeviceSynced)
	require.NotNil(t, change.History)
	assert.Equal(t, "Manual lock status change", change.History.Reason)
	assert.Nil(t, change.History.RequestID)

	assert.Equal(t, models.LockStatusOpen, reloadDoor(t, e.db, f.door.ID).LockStatus)
	assert.Equal(t, []string{"update_lock_status"}, activityActions(t, e.db))

	events := e.events.named(realtime.EventDoorLockStatusUpdated)
	require.Len(t, events, 2)
	assert.Equal(t, realtime.DoorRoom(f.door.ID), events[1].Room)
	assert.Equal(t, models.LockStatusClosed, events[0].Payload["previous_status"])
}

func TestUpdateLockStatus_Rejections(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)
	ctx := context.Background()
	input := LockUpdateInput{BuildingID: f.building.ID, FloorID: f.floor.ID, DoorID: f.door.ID, Actor: operator()}

	input.LockStatus = "ajar"
	_, err := e.locks.UpdateLockStatus(ctx, input)
	assert.ErrorIs(t, err, code.ErrInvalidStatus)

	input.LockStatus = models.LockStatusClosed
	_, err = e.locks.UpdateLockStatus(ctx, input)
	require.ErrorIs(t, err, code.ErrNoOpRejected)
	assert.Equal(t, "Door is already closed", err.Error())

	wrongFloor := input
	wrongFloor.FloorID = f.floor.ID + 10
	wrongFloor.LockStatus = models.LockStatusOpen
	_, err = e.locks.UpdateLockStatus(ctx, wrongFloor)
	require.ErrorIs(t, err, code.ErrNotFound)
	assert.Equal(t, "Floor not found", err.Error())

	require.NoError(t, e.db.Model(&models.Door{}).Where("id = ?", f.door.ID).Update("status", models.DoorStatusMaintenance).Error)
	input.LockStatus = models.LockStatusOpen
	_, err = e.locks.UpdateLockStatus(ctx, input)
	assert.ErrorIs(t, err, code.ErrDoorInactive)

	var count int64
	require.NoError(t, e.db.Model(&models.DoorLockHistory{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, e.events.named(realtime.EventDoorLockStatusUpdated))
}

func TestGetLockStatus_CachedAndInvalidated(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)

	view, err := e.locks.GetLockStatus(f.building.ID, f.floor.ID, f.door.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LockStatusClosed, view.LockStatus)
	assert.True(t, e.mini.Exists(LockStatusKey(f.door.ID)))

	// 缓存命中时不会读数据库
	require.NoError(t, e.db.Model(&models.Door{}).Where("id = ?", f.door.ID).Update("name", "Renamed").Error)
	view, err = e.locks.GetLockStatus(f.building.ID, f.floor.ID, f.door.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main entrance", view.Name)

	// 楼层不匹配时不使用缓存
	_, err = e.locks.GetLockStatus(f.building.ID, f.floor.ID+1, f.door.ID)
	assert.ErrorIs(t, err, code.ErrNotFound)

	_, err = e.locks.UpdateLockStatus(context.Background(), LockUpdateInput{
		BuildingID: f.building.ID, FloorID: f.floor.ID, DoorID: f.door.ID,
		LockStatus: models.LockStatusOpen, Actor: operator(),
	})
	require.NoError(t, err)
	assert.False(t, e.mini.Exists(LockStatusKey(f.door.ID)))

	view, err = e.locks.GetLockStatus(f.building.ID, f.floor.ID, f.door.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LockStatusOpen, view.LockStatus)
	assert.Equal(t, "Renamed", view.Name)
}

func TestGetLockHistory_Filters(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)
	ctx := context.Background()

	for _, status := range []models.LockStatus{models.LockStatusOpen, models.LockStatusClosed, models.LockStatusOpen} {
		_, err := e.locks.UpdateLockStatus(ctx, LockUpdateInput{
			BuildingID: f.building.ID, FloorID: f.floor.ID, DoorID: f.door.ID,
			LockStatus: status, Reason: "drill", Actor: operator(),
		})
		require.NoError(t, err)
	}

	result, err := e.locks.GetLockHistory(f.building.ID, f.floor.ID, f.door.ID, LockHistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	rows := result.Data.([]models.DoorLockHistory)
	require.Len(t, rows, 3)
	assert.Greater(t, rows[0].ID, rows[2].ID)

	result, err = e.locks.GetLockHistory(f.building.ID, f.floor.ID, f.door.ID, LockHistoryFilter{NewStatus: "open"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)

	_, err = e.locks.GetLockHistory(f.building.ID, f.floor.ID, f.door.ID, LockHistoryFilter{NewStatus: "ajar"})
	assert.ErrorIs(t, err, code.ErrInvalidStatus)
}

func TestUpdateLockStatus_DeviceFailureKeepsLocalState(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)
	e.tb.setFail(true)

	change, err := e.locks.UpdateLockStatus(context.Background(), LockUpdateInput{
		BuildingID: f.building.ID, FloorID: f.floor.ID, DoorID: f.door.ID,
		LockStatus: models.LockStatusOpen, Actor: operator(),
	})
	require.NoError(t, err)
	assert.False(t, change.DeviceSynced)
	assert.Equal(t, models.LockStatusOpen, reloadDoor(t, e.db, f.door.ID).LockStatus)
}
