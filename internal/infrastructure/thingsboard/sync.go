package thingsboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DoorSync 一次门状态同步需要推送的数据
type DoorSync struct {
	DeviceID    string
	AccessToken string
	Attributes  map[string]interface{}
	Telemetry   map[string]interface{}
}

// SyncResult 设备同步结果。同步是尽力而为的：调用方只记录它，不会因此失败
type SyncResult struct {
	Skipped       bool
	AttributesErr error
	TelemetryErr  error
	Duration      time.Duration
}

// OK 两个调用都成功（或被跳过）
func (r SyncResult) OK() bool {
	return r.AttributesErr == nil && r.TelemetryErr == nil
}

// Err 合并后的错误，成功时为 nil
func (r SyncResult) Err() error {
	if r.OK() {
		return nil
	}
	return errors.Join(r.AttributesErr, r.TelemetryErr)
}

// SyncDoorState 推送属性与遥测。任何错误（包括 panic）都记录在结果里，不会向上传播
func (c *Client) SyncDoorState(ctx context.Context, s DoorSync) (result SyncResult) {
	if !c.Enabled() || s.DeviceID == "" {
		return SyncResult{Skipped: true}
	}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			result.TelemetryErr = errors.Join(result.TelemetryErr, fmt.Errorf("thingsboard sync panic: %v", rec))
		}
		result.Duration = time.Since(start)
		if !result.OK() {
			c.logger.Warn("device sync failed, local state kept",
				zap.String("device_id", s.DeviceID),
				zap.Error(result.Err()),
				zap.Duration("duration", result.Duration),
			)
		}
	}()

	result.AttributesErr = c.UpdateDeviceAttributes(ctx, s.DeviceID, s.Attributes)
	if s.AccessToken != "" && s.Telemetry != nil {
		result.TelemetryErr = c.SendTelemetry(ctx, s.AccessToken, s.Telemetry)
	}
	return result
}
