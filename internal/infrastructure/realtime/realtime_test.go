package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	Room    string
	Event   string
	Payload interface{}
}

type recorder struct {
	mu     sync.Mutex
	events []emitted
}

func (r *recorder) Emit(event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{Event: event, Payload: payload})
}

func (r *recorder) EmitToRoom(room, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{Room: room, Event: event, Payload: payload})
}

func (r *recorder) snapshot() []emitted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]emitted(nil), r.events...)
}

func TestFanout_SkipsNilMembers(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	f := NewFanout(a, nil, b)
	require.Len(t, f, 2)

	f.Emit(EventNewDoorRequest, map[string]interface{}{"door_id": 5})
	f.EmitToRoom(DoorRoom(5), EventDoorLockStatusUpdated, nil)

	for _, r := range []*recorder{a, b} {
		events := r.snapshot()
		require.Len(t, events, 2)
		assert.Equal(t, EventNewDoorRequest, events[0].Event)
		assert.Equal(t, "door:5", events[1].Room)
	}
}

func dialHub(t *testing.T, srvURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srvURL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_RoomsAndBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)
	router := gin.New()
	router.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	watcher := dialHub(t, srv.URL)
	bystander := dialHub(t, srv.URL)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, watcher.WriteJSON(ClientMessage{Type: MsgJoin, Room: "door:5"}))
	ack := readJSON(t, watcher)
	assert.Equal(t, MsgAck, ack["type"])
	assert.Equal(t, "door:5", ack["room"])
	assert.Equal(t, 1, hub.RoomSize("door:5"))

	hub.EmitToRoom("door:5", EventDoorLockStatusUpdated, map[string]interface{}{"door_id": 5, "lock_status": "open"})
	hub.Emit(EventNewDoorRequest, map[string]interface{}{"door_id": 5})

	first := readJSON(t, watcher)
	assert.Equal(t, EventDoorLockStatusUpdated, first["event"])
	assert.Equal(t, "door:5", first["room"])
	assert.Equal(t, "open", first["data"].(map[string]interface{})["lock_status"])
	second := readJSON(t, watcher)
	assert.Equal(t, EventNewDoorRequest, second["event"])

	// 未加入房间的客户端只收到全局事件
	only := readJSON(t, bystander)
	assert.Equal(t, EventNewDoorRequest, only["event"])

	require.NoError(t, watcher.WriteJSON(ClientMessage{Type: MsgLeave, Room: "door:5"}))
	readJSON(t, watcher)
	assert.Equal(t, 0, hub.RoomSize("door:5"))
}

func TestHub_RejectsUnknownMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)
	router := gin.New()
	router.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn := dialHub(t, srv.URL)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, MsgError, readJSON(t, conn)["type"])

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "dance"}))
	reply := readJSON(t, conn)
	assert.Equal(t, MsgError, reply["type"])
	assert.Contains(t, reply["message"], "dance")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgPing}))
	assert.Equal(t, MsgPong, readJSON(t, conn)["type"])
}

func TestHub_RunClosesClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)
	router := gin.New()
	router.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	conn := dialHub(t, srv.URL)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, 0, hub.ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{ID: "test", hub: hub, send: make(chan []byte, buffer), rooms: make(map[string]struct{})}
}

func TestClient_SendAfterCloseIsDropped(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient(hub, 1)
	require.True(t, hub.register(c))

	assert.True(t, c.trySend([]byte("a")))
	assert.False(t, c.trySend([]byte("b")), "buffer full")

	hub.unregister(c)
	assert.False(t, c.trySend([]byte("c")))
	assert.Equal(t, 0, hub.ClientCount())

	// 第二次关闭不会 panic
	hub.unregister(c)
	c.close()

	<-c.send
	_, open := <-c.send
	assert.False(t, open)
}

func TestHub_DeliverWhileUnregistering(t *testing.T) {
	hub := NewHub(nil)
	clients := make([]*Client, 20)
	for i := range clients {
		clients[i] = newTestClient(hub, 1024)
		require.True(t, hub.register(clients[i]))
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				hub.Emit(EventNewDoorRequest, map[string]interface{}{"n": j})
			}
		}()
	}
	for _, c := range clients {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			hub.unregister(c)
		}(c)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.ClientCount())
	for _, c := range clients {
		assert.False(t, c.trySend([]byte("late")))
	}
}

func TestRedisRelay_CrossInstance(t *testing.T) {
	mr := miniredis.RunT(t)
	newClient := func() *redis.Client {
		c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { c.Close() })
		return c
	}

	localA, localB := &recorder{}, &recorder{}
	relayA := NewRedisRelay(newClient(), "events", localA, nil)
	relayB := NewRedisRelay(newClient(), "events", localB, nil)
	require.NotEqual(t, relayA.Origin(), relayB.Origin())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	readyA, readyB := make(chan struct{}), make(chan struct{})
	go func() { _ = relayA.Run(ctx, readyA) }()
	go func() { _ = relayB.Run(ctx, readyB) }()
	<-readyA
	<-readyB

	relayA.EmitToRoom("door:7", EventDoorLockStatusUpdated, map[string]interface{}{"door_id": 7, "lock_status": "open"})

	// A 直接本地投递一次，不因回环重复
	require.Eventually(t, func() bool { return len(localB.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, localA.snapshot(), 1)

	got := localB.snapshot()[0]
	assert.Equal(t, "door:7", got.Room)
	assert.Equal(t, EventDoorLockStatusUpdated, got.Event)
	raw, ok := got.Payload.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"door_id":7,"lock_status":"open"}`, string(raw))
}

func TestRedisRelay_PublishFailureStillDeliversLocally(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	local := &recorder{}
	relay := NewRedisRelay(client, "events", local, nil)
	relay.Emit(EventNewDoorRequest, map[string]interface{}{"door_id": 1})

	assert.Len(t, local.snapshot(), 1)
}

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeMQTT struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (f *fakeMQTT) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return &fakeToken{err: f.err}
}

func TestMQTTPublisher_Topics(t *testing.T) {
	client := &fakeMQTT{}
	p := NewMQTTPublisher(client, MQTTConfig{QoS: 1, TopicPrefix: "acme"}, nil)

	p.Emit(EventDoorRequestStatusUpdated, map[string]interface{}{"id": 3, "status": "approved"})
	p.EmitToRoom(DoorRoom(5), EventDoorLockStatusUpdated, map[string]interface{}{"lock_status": "open"})
	p.Flush()

	require.Len(t, client.msgs, 2)
	assert.Equal(t, "acme/events/door-request-status-updated", client.msgs[0].topic)
	assert.Equal(t, byte(1), client.msgs[0].qos)
	assert.Equal(t, "acme/rooms/door/5/door-lock-status-updated", client.msgs[1].topic)

	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(client.msgs[1].payload, &env))
	assert.Equal(t, "door:5", env["room"])
	assert.Equal(t, EventDoorLockStatusUpdated, env["event"])
}

func TestMQTTPublisher_FailureIsSwallowed(t *testing.T) {
	client := &fakeMQTT{err: errors.New("not connected")}
	p := NewMQTTPublisher(client, MQTTConfig{}, nil)

	assert.NotPanics(t, func() {
		p.Emit(EventNewDoorRequest, nil)
		p.Flush()
	})
	assert.Equal(t, "building-access/events/new-door-request", client.msgs[0].topic)
}
