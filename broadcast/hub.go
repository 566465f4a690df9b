package broadcast

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/jrwynneiii/scopetrainer/scope"
)

const (
	SyncPath     = "/sync"
	SnapshotPath = "/snapshot"
)

type HubConfig struct {
	SendBuffer     int
	WriteTimeout   time.Duration
	ReadLimit      int64
	OriginPatterns []string
}

// Hub relays snapshots between websocket peers and also acts as a local
// Transport for the process that hosts it. Delivery is fire-and-forget: a
// peer whose queue is full loses its oldest pending snapshot, never the
// newest.
type Hub struct {
	cfg  HubConfig
	id   uuid.UUID
	subs subscribers
	mux  *http.ServeMux

	mu     sync.Mutex
	latest *Envelope
	conns  map[*hubConn]struct{}
}

type hubConn struct {
	conn *websocket.Conn
	send chan Envelope
	done chan struct{}

	mu        sync.Mutex
	closeOnce sync.Once
}

func NewHub(cfg HubConfig) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 8
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = 64 << 10
	}
	h := &Hub{
		cfg:   cfg,
		id:    uuid.New(),
		conns: make(map[*hubConn]struct{}),
		mux:   http.NewServeMux(),
	}
	h.mux.HandleFunc(SyncPath, h.handleSync)
	h.mux.HandleFunc(SnapshotPath, h.handleSnapshot)
	return h
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Publish makes s the latest snapshot and pushes it to every peer and
// local subscriber.
func (h *Hub) Publish(ctx context.Context, s scope.SharedSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.accept(Envelope{Origin: h.id, Settings: s}, nil)
	return nil
}

func (h *Hub) Subscribe(fn func(scope.SharedSettings)) func() {
	cancel := h.subs.add(fn)
	if s, ok := h.Latest(); ok {
		fn(s)
	}
	return cancel
}

func (h *Hub) Latest() (scope.SharedSettings, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil {
		return scope.SharedSettings{}, false
	}
	return h.latest.Settings, true
}

func (h *Hub) Peers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) accept(env Envelope, from *hubConn) {
	h.mu.Lock()
	h.latest = &env
	peers := make([]*hubConn, 0, len(h.conns))
	for c := range h.conns {
		if c != from {
			peers = append(peers, c)
		}
	}
	h.mu.Unlock()

	log.Debugf("[sync] snapshot v%d from %s to %d peers", env.Settings.Version, env.Origin, len(peers))
	for _, c := range peers {
		c.enqueue(env)
	}
	h.subs.deliver(env.Settings)
}

func (h *Hub) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	s, ok := h.Latest()
	if !ok {
		http.Error(w, "no snapshot published", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s); err != nil {
		log.Warnf("[sync] could not write snapshot: %v", err)
	}
}

func (h *Hub) handleSync(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.cfg.OriginPatterns,
	})
	if err != nil {
		log.Errorf("[sync] accept failed: %v", err)
		return
	}
	conn.SetReadLimit(h.cfg.ReadLimit)

	hc := &hubConn{
		conn: conn,
		send: make(chan Envelope, h.cfg.SendBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.conns[hc] = struct{}{}
	latest := h.latest
	h.mu.Unlock()
	log.Infof("[sync] peer connected: %s", r.RemoteAddr)

	if latest != nil {
		hc.enqueue(*latest)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go h.writeLoop(ctx, hc)
	h.readLoop(ctx, hc)

	h.mu.Lock()
	delete(h.conns, hc)
	h.mu.Unlock()
	hc.close(websocket.StatusNormalClosure, "")
	log.Infof("[sync] peer disconnected: %s", r.RemoteAddr)
}

func (h *Hub) readLoop(ctx context.Context, hc *hubConn) {
	for {
		_, data, err := hc.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				log.Warnf("[sync] read failed: %v", err)
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Warnf("[sync] dropping malformed snapshot: %v", err)
			continue
		}
		env.Settings = env.Settings.Normalize()
		h.accept(env, hc)
	}
}

func (h *Hub) writeLoop(ctx context.Context, hc *hubConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hc.done:
			return
		case env := <-hc.send:
			wctx, cancel := context.WithTimeout(ctx, h.cfg.WriteTimeout)
			err := wsjson.Write(wctx, hc.conn, env)
			cancel()
			if err != nil {
				log.Warnf("[sync] write failed, closing peer: %v", err)
				hc.close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}

// enqueue never blocks. When the queue is full the oldest pending snapshot
// is discarded to make room, so the newest one is always delivered.
func (c *hubConn) enqueue(env Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		select {
		case <-c.done:
			return
		case c.send <- env:
			return
		default:
		}
		select {
		case <-c.send:
			log.Debug("[sync] peer queue full, dropped oldest snapshot")
		default:
		}
	}
}

func (c *hubConn) close(code websocket.StatusCode, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close(code, reason)
	})
}
