package realtime

import (
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MQTTConfig 事件镜像的 broker 参数
type MQTTConfig struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	QoS         byte
	Retained    bool
	TopicPrefix string
}

// MQTTClient MQTTPublisher 依赖的最小客户端能力，mqtt.Client 满足它
type MQTTClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPublisher 把事件镜像到 MQTT：
// 全局事件 {prefix}/events/{event}，房间事件 {prefix}/rooms/{room}/{event}
type MQTTPublisher struct {
	client  MQTTClient
	cfg     MQTTConfig
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewPahoClient 按配置创建 paho 客户端（未连接）
func NewPahoClient(cfg MQTTConfig, logger *zap.Logger) mqtt.Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	// 多实例部署时客户端 ID 必须唯一
	opts.SetClientID(fmt.Sprintf("%s-%s", cfg.ClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(true)
	opts.SetOrderMatters(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", zap.Error(err))
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("mqtt connected", zap.String("broker", cfg.BrokerURL))
	})
	opts.SetReconnectingHandler(func(_ mqtt.Client, _ *mqtt.ClientOptions) {
		logger.Info("mqtt reconnecting")
	})
	return mqtt.NewClient(opts)
}

// ConnectMQTT 连接 broker，失败时指数退避重试 maxRetries 次
func ConnectMQTT(client mqtt.Client, maxRetries int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var err error
	for i := 0; i < maxRetries; i++ {
		token := client.Connect()
		if token.WaitTimeout(5*time.Second) && token.Error() == nil {
			return nil
		}
		err = token.Error()
		backoff := time.Duration(1<<uint(i)) * time.Second
		logger.Warn("mqtt connect attempt failed",
			zap.Int("attempt", i+1),
			zap.Int("max_retries", maxRetries),
			zap.Duration("retry_in", backoff),
			zap.Error(err),
		)
		if i < maxRetries-1 {
			time.Sleep(backoff)
		}
	}
	return fmt.Errorf("mqtt connect failed after %d attempts: %v", maxRetries, err)
}

// NewMQTTPublisher 创建发布器；client 需已连接（或开启了自动重连）
func NewMQTTPublisher(client MQTTClient, cfg MQTTConfig, logger *zap.Logger) *MQTTPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = "building-access"
	}
	return &MQTTPublisher{client: client, cfg: cfg, logger: logger, timeout: 3 * time.Second}
}

// EventTopic 全局事件主题
func (p *MQTTPublisher) EventTopic(event string) string {
	return p.cfg.TopicPrefix + "/events/" + event
}

// RoomTopic 房间事件主题；房间名中的 ':' 换成层级分隔符
func (p *MQTTPublisher) RoomTopic(room, event string) string {
	return p.cfg.TopicPrefix + "/rooms/" + strings.ReplaceAll(room, ":", "/") + "/" + event
}

func (p *MQTTPublisher) Emit(event string, payload interface{}) {
	p.publish(p.EventTopic(event), newEnvelope("", event, payload))
}

func (p *MQTTPublisher) EmitToRoom(room, event string, payload interface{}) {
	p.publish(p.RoomTopic(room, event), newEnvelope(room, event, payload))
}

func (p *MQTTPublisher) publish(topic string, env Envelope) {
	data, err := env.marshal()
	if err != nil {
		p.logger.Error("failed to marshal mqtt event", zap.String("topic", topic), zap.Error(err))
		return
	}

	token := p.client.Publish(topic, p.cfg.QoS, p.cfg.Retained, data)
	// 不阻塞调用方，在后台等待确认并记录结果
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if !token.WaitTimeout(p.timeout) {
			p.logger.Warn("mqtt publish timed out", zap.String("topic", topic))
			return
		}
		if err := token.Error(); err != nil {
			p.logger.Warn("mqtt publish failed", zap.String("topic", topic), zap.Error(err))
			return
		}
		p.logger.Debug("mqtt event published", zap.String("topic", topic))
	}()
}

// Flush 等待所有在途发布完成
func (p *MQTTPublisher) Flush() {
	p.wg.Wait()
}
