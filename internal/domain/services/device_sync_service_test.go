package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/error/code"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/realtime"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/thingsboard"
)

func TestDeviceSync_SkipsWithoutDeviceOrClient(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)

	plain := models.Door{Name: "No device", LockStatus: models.LockStatusOpen}
	result := e.sync.SyncDoor(context.Background(), &plain, SyncDetails{})
	assert.True(t, result.Skipped)

	disabled := NewDeviceSyncService(e.db, e.cfg, thingsboard.NewClient(thingsboard.Config{}, nil), nil, nil)
	result = disabled.SyncDoor(context.Background(), &f.door, SyncDetails{})
	assert.True(t, result.Skipped)
	assert.False(t, disabled.Status().Enabled)
	assert.Empty(t, disabled.Status().Connections)

	result = e.sync.SyncDoor(context.Background(), &f.door, SyncDetails{})
	assert.False(t, result.Skipped)
	assert.True(t, result.OK())
	require.Len(t, e.tb.attributeCalls(), 1)
	assert.Equal(t, float64(5), e.tb.attributeCalls()[0]["door_id"])
}

func TestDeviceSync_PushesChangeContext(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)
	user := models.User{Username: "op", FullName: "Olivia Operator", Role: models.RoleOperator, Status: models.UserStatusActive, Password: "x"}
	user.ID = 42
	require.NoError(t, e.db.Create(&user).Error)

	result := e.sync.SyncDoor(context.Background(), &f.door, SyncDetails{
		ChangedBy:     uintPtr(42),
		Reason:        "visitor",
		RequestID:     uintPtr(7),
		RequesterName: "Alice",
	})
	require.True(t, result.OK())

	attrs := e.tb.attributeCalls()
	require.Len(t, attrs, 1)
	assert.Equal(t, float64(42), attrs[0]["last_updated_by"])
	assert.Equal(t, "Olivia Operator", attrs[0]["last_updated_by_name"])
	assert.Equal(t, "visitor", attrs[0]["reason"])
	assert.Equal(t, float64(7), attrs[0]["request_id"])
	assert.Equal(t, "Alice", attrs[0]["requester_name"])

	samples := e.tb.telemetryCalls()
	require.Len(t, samples, 1)
	assert.NotNil(t, samples[0]["ts"])
	assert.Equal(t, float64(42), samples[0]["changed_by"])
	assert.Equal(t, "Olivia Operator", samples[0]["changed_by_name"])
	assert.Equal(t, "visitor", samples[0]["reason"])
	assert.Equal(t, float64(7), samples[0]["request_id"])
	assert.Equal(t, "Alice", samples[0]["requester_name"])
}

func TestDeviceSync_FailureKeptAsDeviceSyncError(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)
	svc := e.sync.(*DeviceSyncService)
	assert.NoError(t, svc.LastError())
	assert.Empty(t, svc.Status().LastError)

	e.tb.setFail(true)
	result := e.sync.SyncDoor(context.Background(), &f.door, SyncDetails{Reason: "test"})
	assert.False(t, result.OK())

	err := svc.LastError()
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrDeviceSync)
	assert.Contains(t, svc.Status().LastError, "dev-5")
}

func TestDeviceSync_TelemetryBecomesRoomEvent(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)

	e.sync.HandleTelemetry("dev-5", map[string]interface{}{"battery": 87.0})
	e.sync.HandleTelemetry("unknown-device", map[string]interface{}{"battery": 1.0})

	events := e.events.named(realtime.EventDoorTelemetry)
	require.Len(t, events, 1)
	assert.Equal(t, realtime.DoorRoom(f.door.ID), events[0].Room)
	assert.Equal(t, "dev-5", events[0].Payload["device_id"])
	assert.Equal(t, map[string]interface{}{"battery": 87.0}, events[0].Payload["data"])
}

func TestActivityLogService_Filters(t *testing.T) {
	e := newEnv(t)
	f := seedDoor(t, e.db)
	svc := NewActivityLogService(e.db, e.cfg)

	require.NoError(t, svc.Record(ActivityEntry{Actor: operator(), Action: "login", EntityType: models.EntityUser, EntityID: 42}))
	_, err := e.locks.UpdateLockStatus(context.Background(), LockUpdateInput{
		BuildingID: f.building.ID, FloorID: f.floor.ID, DoorID: f.door.ID,
		LockStatus: models.LockStatusOpen, Actor: Actor{UserID: uintPtr(7)},
	})
	require.NoError(t, err)

	result, err := svc.GetActivityLogs(ActivityLogFilter{UserID: uintPtr(42)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	result, err = svc.GetActivityLogs(ActivityLogFilter{EntityType: models.EntityDoor, EntityID: uintPtr(f.door.ID)})
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)
	logs := result.Data.([]models.ActivityLog)
	assert.Equal(t, "update_lock_status", logs[0].Action)
	assert.Contains(t, string(logs[0].Details), `"new_status":"open"`)
}
