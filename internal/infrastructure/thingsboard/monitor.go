package thingsboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// TokenSource 提供并刷新平台令牌
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	InvalidateToken()
}

// UpdateHandler 收到设备遥测/属性更新时调用；data 为 key -> 最新值
type UpdateHandler func(deviceID string, data map[string]interface{})

// Backoff 指数退避：Initial 起步，每次翻倍，不超过 Max；MaxAttempts 次连续失败后放弃
type Backoff struct {
	Initial     time.Duration
	Max         time.Duration
	MaxAttempts int
}

// DefaultBackoff 1s 起步，60s 封顶，最多 10 次
var DefaultBackoff = Backoff{Initial: time.Second, Max: time.Minute, MaxAttempts: 10}

// Delay 第 attempt 次（从 1 开始）重连前的等待时间
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := b.Initial
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= b.Max {
			return b.Max
		}
	}
	if d > b.Max {
		return b.Max
	}
	return d
}

// ConnState 单个设备连接的状态
type ConnState struct {
	DeviceID    string    `json:"device_id"`
	Connected   bool      `json:"connected"`
	Attempts    int       `json:"attempts"`
	LastError   string    `json:"last_error,omitempty"`
	LastMessage time.Time `json:"last_message,omitempty"`
}

type subscription struct {
	cancel context.CancelFunc
	state  ConnState
}

// Monitor 维护设备 ID -> WebSocket 订阅的连接表。每个连接由独立的 goroutine 监管，
// 断线后按 Backoff 重连，ctx 取消或 Unwatch 时退出
type Monitor struct {
	wsURL   string
	tokens  TokenSource
	handler UpdateHandler
	backoff Backoff
	logger  *zap.Logger
	dialer  *websocket.Dialer

	// 连接保持超过该时长视为健康，重置失败计数
	healthyAfter time.Duration

	mu   sync.Mutex
	subs map[string]*subscription
	wg   sync.WaitGroup
}

// MonitorOption 配置项
type MonitorOption func(*Monitor)

// WithBackoff 覆盖默认退避策略
func WithBackoff(b Backoff) MonitorOption {
	return func(m *Monitor) { m.backoff = b }
}

// WithHealthyAfter 覆盖健康连接判定时长
func WithHealthyAfter(d time.Duration) MonitorOption {
	return func(m *Monitor) { m.healthyAfter = d }
}

// NewMonitor 创建监视器。wsURL 形如 ws://host:8080，为空时由调用方保证不调用 Watch
func NewMonitor(wsURL string, tokens TokenSource, handler UpdateHandler, logger *zap.Logger, opts ...MonitorOption) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		wsURL:        strings.TrimRight(wsURL, "/"),
		tokens:       tokens,
		handler:      handler,
		backoff:      DefaultBackoff,
		logger:       logger,
		dialer:       &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		healthyAfter: 30 * time.Second,
		subs:         make(map[string]*subscription),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WSURLFromBase 由 http(s) 地址推导 ws(s) 地址
func WSURLFromBase(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	}
	return baseURL
}

// Watch 开始订阅设备；已在订阅中的设备忽略
func (m *Monitor) Watch(ctx context.Context, deviceID string) {
	if deviceID == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[deviceID]; ok {
		return
	}

	subCtx, cancel := context.WithCancel(ctx)
	m.subs[deviceID] = &subscription{cancel: cancel, state: ConnState{DeviceID: deviceID}}
	m.wg.Add(1)
	go m.supervise(subCtx, deviceID)
}

// Unwatch 停止订阅设备
func (m *Monitor) Unwatch(deviceID string) {
	m.mu.Lock()
	sub, ok := m.subs[deviceID]
	delete(m.subs, deviceID)
	m.mu.Unlock()
	if ok {
		sub.cancel()
	}
}

// Stop 关闭所有连接并等待 goroutine 退出
func (m *Monitor) Stop() {
	m.mu.Lock()
	for id, sub := range m.subs {
		sub.cancel()
		delete(m.subs, id)
	}
	m.mu.Unlock()
	m.wg.Wait()
}

// States 当前所有连接的状态快照
func (m *Monitor) States() []ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	states := make([]ConnState, 0, len(m.subs))
	for _, sub := range m.subs {
		states = append(states, sub.state)
	}
	return states
}

// Watching 是否正在订阅该设备
func (m *Monitor) Watching(deviceID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[deviceID]
	return ok
}

func (m *Monitor) updateState(deviceID string, fn func(*ConnState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.subs[deviceID]; ok {
		fn(&sub.state)
	}
}

func (m *Monitor) supervise(ctx context.Context, deviceID string) {
	defer m.wg.Done()

	attempts := 0
	for {
		started := time.Now()
		err := m.runOnce(ctx, deviceID)
		if ctx.Err() != nil {
			return
		}

		if time.Since(started) >= m.healthyAfter {
			attempts = 0
		}
		attempts++
		m.updateState(deviceID, func(s *ConnState) {
			s.Connected = false
			s.Attempts = attempts
			if err != nil {
				s.LastError = err.Error()
			}
		})

		if m.backoff.MaxAttempts > 0 && attempts >= m.backoff.MaxAttempts {
			m.logger.Error("device telemetry connection gave up",
				zap.String("device_id", deviceID),
				zap.Int("attempts", attempts),
				zap.Error(err),
			)
			m.mu.Lock()
			if sub, ok := m.subs[deviceID]; ok {
				sub.cancel()
				delete(m.subs, deviceID)
			}
			m.mu.Unlock()
			return
		}

		delay := m.backoff.Delay(attempts)
		m.logger.Warn("device telemetry connection lost, reconnecting",
			zap.String("device_id", deviceID),
			zap.Int("attempt", attempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

type wsCommand struct {
	TsSubCmds   []wsSubCmd `json:"tsSubCmds"`
	HistoryCmds []wsSubCmd `json:"historyCmds"`
	AttrSubCmds []wsSubCmd `json:"attrSubCmds"`
}

type wsSubCmd struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	Scope      string `json:"scope"`
	CmdID      int    `json:"cmdId"`
}

type wsUpdate struct {
	SubscriptionID int                        `json:"subscriptionId"`
	ErrorCode      int                        `json:"errorCode"`
	ErrorMsg       string                     `json:"errorMsg"`
	Data           map[string][][]interface{} `json:"data"`
}

func (m *Monitor) runOnce(ctx context.Context, deviceID string) error {
	token, err := m.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("obtain token: %w", err)
	}

	endpoint := m.wsURL + "/api/ws/plugins/telemetry?token=" + url.QueryEscape(token)
	conn, _, err := m.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	// ctx 取消时关闭连接，使 ReadMessage 返回
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	cmd := wsCommand{
		TsSubCmds:   []wsSubCmd{{EntityType: "DEVICE", EntityID: deviceID, Scope: "LATEST_TELEMETRY", CmdID: 1}},
		HistoryCmds: []wsSubCmd{},
		AttrSubCmds: []wsSubCmd{{EntityType: "DEVICE", EntityID: deviceID, Scope: "CLIENT_SCOPE", CmdID: 2}},
	}
	if err := conn.WriteJSON(cmd); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	m.updateState(deviceID, func(s *ConnState) {
		s.Connected = true
		s.LastError = ""
	})
	m.logger.Info("device telemetry subscribed", zap.String("device_id", deviceID))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}

		var update wsUpdate
		if err := json.Unmarshal(message, &update); err != nil {
			m.logger.Debug("ignoring malformed telemetry message", zap.String("device_id", deviceID), zap.Error(err))
			continue
		}
		if update.ErrorCode != 0 {
			// 令牌过期等错误：丢弃令牌后由监管循环重连
			m.tokens.InvalidateToken()
			return errors.New("subscription error: " + update.ErrorMsg)
		}
		if len(update.Data) == 0 {
			continue
		}

		data := make(map[string]interface{}, len(update.Data))
		for key, samples := range update.Data {
			// 每个样本为 [ts, value]，取第一个（最新）
			if len(samples) > 0 && len(samples[0]) > 1 {
				data[key] = samples[0][1]
			}
		}
		m.updateState(deviceID, func(s *ConnState) { s.LastMessage = time.Now() })
		if m.handler != nil && len(data) > 0 {
			m.handler(deviceID, data)
		}
	}
}
