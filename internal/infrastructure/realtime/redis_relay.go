package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RedisRelay 把事件发布到 Redis 频道，并把其他实例发布的事件转交给本地 Broadcaster，
// 使每个实例上的客户端都能收到。本实例的事件直接本地投递，不等待回环
type RedisRelay struct {
	client  *redis.Client
	channel string
	local   Broadcaster
	origin  string
	logger  *zap.Logger
	timeout time.Duration
}

// NewRedisRelay 创建转发器；local 通常是本地 Hub
func NewRedisRelay(client *redis.Client, channel string, local Broadcaster, logger *zap.Logger) *RedisRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	if local == nil {
		local = Nop{}
	}
	return &RedisRelay{
		client:  client,
		channel: channel,
		local:   local,
		origin:  uuid.New().String(),
		logger:  logger,
		timeout: 2 * time.Second,
	}
}

// Origin 本实例标识
func (r *RedisRelay) Origin() string {
	return r.origin
}

func (r *RedisRelay) Emit(event string, payload interface{}) {
	r.local.Emit(event, payload)
	r.publish(newEnvelope("", event, payload))
}

func (r *RedisRelay) EmitToRoom(room, event string, payload interface{}) {
	r.local.EmitToRoom(room, event, payload)
	r.publish(newEnvelope(room, event, payload))
}

func (r *RedisRelay) publish(env Envelope) {
	env.Origin = r.origin
	data, err := env.marshal()
	if err != nil {
		r.logger.Error("failed to marshal relay event", zap.String("event", env.Event), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		r.logger.Warn("failed to publish relay event", zap.String("event", env.Event), zap.Error(err))
	}
}

type relayedEnvelope struct {
	Event  string          `json:"event"`
	Room   string          `json:"room"`
	Data   json.RawMessage `json:"data"`
	Origin string          `json:"origin"`
}

// Run 订阅频道直到 ctx 取消。ready 在订阅确认后关闭，可为 nil
func (r *RedisRelay) Run(ctx context.Context, ready chan<- struct{}) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}
	r.logger.Info("redis event relay subscribed", zap.String("channel", r.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.handle(msg.Payload)
		}
	}
}

func (r *RedisRelay) handle(payload string) {
	var env relayedEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		r.logger.Warn("ignoring malformed relay event", zap.Error(err))
		return
	}
	if env.Origin == r.origin || env.Event == "" {
		return
	}

	var data interface{}
	if len(env.Data) > 0 {
		data = env.Data
	}
	if env.Room != "" {
		r.local.EmitToRoom(env.Room, env.Event, data)
		return
	}
	r.local.Emit(env.Event, data)
}
