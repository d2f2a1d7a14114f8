package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 客户端消息类型
const (
	MsgJoin  = "join"
	MsgLeave = "leave"
	MsgPing  = "ping"
	MsgPong  = "pong"
	MsgError = "error"
	MsgAck   = "ack"
)

const (
	sendBufferSize = 256
	maxMessageSize = 4096
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
)

// ClientMessage 客户端发来的控制消息，例如 {"type":"join","room":"door:5"}
type ClientMessage struct {
	Type string `json:"type"`
	Room string `json:"room,omitempty"`
}

type controlReply struct {
	Type    string `json:"type"`
	Room    string `json:"room,omitempty"`
	Message string `json:"message,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 跨域由 CORS 中间件处理
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// Hub 管理 WebSocket 连接与房间。无持久化，无重放；发送缓冲满的客户端直接丢消息
type Hub struct {
	logger *zap.Logger

	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
}

// Client 一个 WebSocket 连接
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// mu 同时保护 rooms 与 closed；关闭 send 需要写锁，发送持有读锁
	mu     sync.RWMutex
	rooms  map[string]struct{}
	closed bool
}

// NewHub 创建 Hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:  logger,
		clients: make(map[*Client]struct{}),
	}
}

// Run 阻塞直到 ctx 取消，然后断开所有客户端
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// ServeWS gin 处理函数：升级连接并启动读写循环
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		ID:    uuid.New().String(),
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		rooms: make(map[string]struct{}),
	}
	if !h.register(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", zap.String("client_id", c.ID), zap.Int("clients", h.ClientCount()))
	return true
}

// unregister 从表中删除客户端并关闭 send
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, existed := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if existed {
		c.close()
	}
	h.logger.Debug("websocket client disconnected", zap.String("client_id", c.ID), zap.Int("clients", h.ClientCount()))
}

// Emit 推送给所有客户端
func (h *Hub) Emit(event string, payload interface{}) {
	h.deliver(newEnvelope("", event, payload))
}

// EmitToRoom 推送给加入了 room 的客户端
func (h *Hub) EmitToRoom(room, event string, payload interface{}) {
	h.deliver(newEnvelope(room, event, payload))
}

func (h *Hub) deliver(env Envelope) {
	data, err := env.marshal()
	if err != nil {
		h.logger.Error("failed to marshal event", zap.String("event", env.Event), zap.Error(err))
		return
	}

	// 在 Hub 锁内取快照，释放后再检查客户端房间，避免同时持有两把锁
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range clients {
		if env.Room != "" && !c.inRoom(env.Room) {
			continue
		}
		if c.trySend(data) {
			sent++
		}
	}
	if sent > 0 {
		h.logger.Debug("event delivered", zap.String("event", env.Event), zap.String("room", env.Room), zap.Int("recipients", sent))
	}
}

// ClientCount 在线客户端数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize 房间内客户端数
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	n := 0
	for _, c := range clients {
		if c.inRoom(room) {
			n++
		}
	}
	return n
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.close()
		c.conn.Close()
		delete(h.clients, c)
	}
}

func (c *Client) inRoom(room string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.rooms[room]
	return ok
}

// close 关闭 send，重复调用无效
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// trySend 非阻塞发送；客户端已关闭或缓冲满时丢弃
func (c *Client) trySend(data []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		c.hub.logger.Debug("websocket client buffer full, message dropped", zap.String("client_id", c.ID))
		return false
	}
}

func (c *Client) reply(msg controlReply) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.trySend(data)
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.handleMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.reply(controlReply{Type: MsgError, Message: "invalid JSON message"})
		return
	}

	switch msg.Type {
	case MsgJoin:
		if msg.Room == "" {
			c.reply(controlReply{Type: MsgError, Message: "room is required"})
			return
		}
		c.mu.Lock()
		c.rooms[msg.Room] = struct{}{}
		c.mu.Unlock()
		c.reply(controlReply{Type: MsgAck, Room: msg.Room, Message: MsgJoin})
	case MsgLeave:
		c.mu.Lock()
		delete(c.rooms, msg.Room)
		c.mu.Unlock()
		c.reply(controlReply{Type: MsgAck, Room: msg.Room, Message: MsgLeave})
	case MsgPing:
		c.reply(controlReply{Type: MsgPong})
	default:
		c.reply(controlReply{Type: MsgError, Message: "unknown message type: " + msg.Type})
	}
}
