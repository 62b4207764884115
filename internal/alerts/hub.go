package alerts

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 32
)

// Message is the frame written to subscribers.
type Message struct {
	Type string `json:"type"`
	Data Alert  `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

// subscription asks Run to add c and reply with the history it must replay.
type subscription struct {
	c      *client
	replay chan []Alert
}

// publication asks Run to record and fan out a. done is closed afterwards.
type publication struct {
	a    Alert
	done chan struct{}
}

// Hub owns the subscriber set and a bounded alert history. Run must be
// started before subscribers can register.
type Hub struct {
	register   chan subscription
	unregister chan *client
	broadcast  chan publication
	done       chan struct{}

	mu      sync.RWMutex
	history []Alert
	limit   int

	clients  atomic.Int64
	upgrader websocket.Upgrader
	now      func() time.Time
	log      *slog.Logger
}

// NewHub keeps the last limit alerts. Connections from allowedOrigins, from
// localhost, or without an Origin header are accepted.
func NewHub(limit int, allowedOrigins []string, log *slog.Logger) *Hub {
	if limit <= 0 {
		limit = 100
	}
	if log == nil {
		log = slog.Default()
	}
	h := &Hub{
		register:   make(chan subscription),
		unregister: make(chan *client),
		broadcast:  make(chan publication),
		done:       make(chan struct{}),
		limit:      limit,
		now:        time.Now,
		log:        log,
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins, log)}
	return h
}

func originChecker(allowed []string, log *slog.Logger) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if origin == a {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err == nil {
			host := u.Hostname()
			if host == "localhost" || host == "127.0.0.1" {
				return true
			}
		}
		log.Warn("rejected websocket origin", "origin", origin)
		return false
	}
}

// Run serves register, unregister and broadcast until ctx ends, then closes
// every subscriber. History is only appended here, so a new subscriber sees
// every alert exactly once, either in its replay or on its stream.
func (h *Hub) Run(ctx context.Context) {
	subs := make(map[*client]struct{})
	defer func() {
		close(h.done)
		for c := range subs {
			close(c.send)
		}
		h.clients.Store(0)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case sub := <-h.register:
			h.mu.RLock()
			replay := append([]Alert(nil), h.history...)
			h.mu.RUnlock()
			subs[sub.c] = struct{}{}
			h.clients.Store(int64(len(subs)))
			sub.replay <- replay
		case c := <-h.unregister:
			if _, ok := subs[c]; ok {
				delete(subs, c)
				close(c.send)
				h.clients.Store(int64(len(subs)))
			}
		case pub := <-h.broadcast:
			a := pub.a
			h.record(a)
			for c := range subs {
				select {
				case c.send <- Message{Type: "alert", Data: a}:
				default:
					h.log.Warn("dropping slow alert subscriber", "remote", c.conn.RemoteAddr().String())
					delete(subs, c)
					close(c.send)
				}
			}
			h.clients.Store(int64(len(subs)))
			close(pub.done)
		}
	}
}

func (h *Hub) record(a Alert) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = append(h.history, a)
	if over := len(h.history) - h.limit; over > 0 {
		h.history = append(h.history[:0:0], h.history[over:]...)
	}
}

// Publish validates a, stamps it as sent and fans it out.
func (h *Hub) Publish(ctx context.Context, a Alert) (Alert, error) {
	if err := a.Validate(); err != nil {
		return Alert{}, err
	}
	if a.ID == "" {
		a.ID = "alert-" + uuid.NewString()
	}
	a.Timestamp = h.now().UTC()
	a.Status = Sent
	a.Channels = append([]Channel(nil), a.Channels...)

	pub := publication{a: a, done: make(chan struct{})}
	select {
	case h.broadcast <- pub:
	case <-h.done:
		h.record(a)
		return a, nil
	case <-ctx.Done():
		return a, ctx.Err()
	}
	select {
	case <-pub.done:
	case <-h.done:
	}
	return a, nil
}

// History returns stored alerts, newest first.
func (h *Hub) History() []Alert {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Alert, len(h.history))
	for i, a := range h.history {
		out[len(h.history)-1-i] = a
	}
	return out
}

// Subscribers reports the live connection count.
func (h *Hub) Subscribers() int { return int(h.clients.Load()) }

// ServeWS upgrades the request, replays history oldest first and then
// streams new alerts.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan Message, sendBuffer)}
	sub := subscription{c: c, replay: make(chan []Alert, 1)}
	select {
	case h.register <- sub:
	case <-h.done:
		conn.Close()
		return
	}
	for _, a := range <-sub.replay {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(Message{Type: "history", Data: a}); err != nil {
			break
		}
	}
	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug("alert subscriber read error", "err", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
