package realtime

import (
	"sync"

	"classhub/biz/infrastructure/util/log"
)

const connBufferSize = 16

// Event 房间广播事件, Room 为班级slug
type Event struct {
	Room string `json:"room"`
	Name string `json:"name"`
	Data any    `json:"data,omitempty"`
}

// Conn 一条实时连接及其已加入的房间
type Conn struct {
	UserID string

	hub    *Hub
	events chan *Event
	mu     sync.RWMutex
	rooms  map[string]struct{}
}

func (c *Conn) Events() <-chan *Event {
	return c.events
}

func (c *Conn) InRoom(room string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.rooms[room]
	return ok
}

func (c *Conn) Rooms() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rooms := make([]string, 0, len(c.rooms))
	for room := range c.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Hub 管理房间到连接的映射
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Conn]struct{}),
	}
}

func (h *Hub) Connect(userID string) *Conn {
	return &Conn{
		UserID: userID,
		hub:    h,
		events: make(chan *Event, connBufferSize),
		rooms:  make(map[string]struct{}),
	}
}

// Join 批量加入房间, 重复加入是幂等的
func (h *Hub) Join(c *Conn, rooms ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, room := range rooms {
		if _, ok := c.rooms[room]; ok {
			continue
		}
		c.rooms[room] = struct{}{}
		if h.rooms[room] == nil {
			h.rooms[room] = make(map[*Conn]struct{})
		}
		h.rooms[room][c] = struct{}{}
	}
}

// Disconnect 退出全部房间并关闭事件通道
func (h *Hub) Disconnect(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	for room := range c.rooms {
		delete(h.rooms[room], c)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	c.rooms = make(map[string]struct{})
	close(c.events)
}

// Broadcast 向房间内所有连接投递事件, 慢连接丢弃不阻塞
func (h *Hub) Broadcast(room, name string, data any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event := &Event{Room: room, Name: name, Data: data}
	for c := range h.rooms[room] {
		select {
		case c.events <- event:
		default:
			log.Info("event channel full, drop %s for user %s", name, c.UserID)
		}
	}
}
