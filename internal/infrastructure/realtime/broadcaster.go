// Package realtime 负责把领域事件推送给在线客户端：本地 WebSocket Hub、
// 跨实例的 Redis 转发，以及面向边缘设备的 MQTT 镜像。
package realtime

import (
	"encoding/json"
	"fmt"
	"time"
)

// 事件名称
const (
	EventNewDoorRequest           = "new-door-request"
	EventDoorRequestStatusUpdated = "door-request-status-updated"
	EventDoorLockStatusUpdated    = "door-lock-status-updated"
	EventDoorStatusUpdated        = "door-status-updated"
	EventDoorTelemetry            = "door-telemetry"
)

// Broadcaster 事件广播。发送即忘，没有返回值，也不保证送达
type Broadcaster interface {
	Emit(event string, payload interface{})
	EmitToRoom(room, event string, payload interface{})
}

// DoorRoom 单个门的房间名
func DoorRoom(doorID uint) string {
	return fmt.Sprintf("door:%d", doorID)
}

// Envelope 推送给客户端以及跨实例转发的消息体
type Envelope struct {
	Event     string      `json:"event"`
	Room      string      `json:"room,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Origin    string      `json:"origin,omitempty"`
}

func newEnvelope(room, event string, payload interface{}) Envelope {
	return Envelope{Event: event, Room: room, Data: payload, Timestamp: time.Now().UTC()}
}

func (e Envelope) marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Fanout 把事件依次交给多个 Broadcaster；nil 成员被忽略
type Fanout []Broadcaster

// NewFanout 过滤掉 nil 后组合
func NewFanout(members ...Broadcaster) Fanout {
	f := make(Fanout, 0, len(members))
	for _, m := range members {
		if m != nil {
			f = append(f, m)
		}
	}
	return f
}

func (f Fanout) Emit(event string, payload interface{}) {
	for _, b := range f {
		if b != nil {
			b.Emit(event, payload)
		}
	}
}

func (f Fanout) EmitToRoom(room, event string, payload interface{}) {
	for _, b := range f {
		if b != nil {
			b.EmitToRoom(room, event, payload)
		}
	}
}

// Nop 丢弃所有事件
type Nop struct{}

func (Nop) Emit(string, interface{})               {}
func (Nop) EmitToRoom(string, string, interface{}) {}
