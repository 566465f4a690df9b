package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/jrwynneiii/scopetrainer/scope"
)

// Client is a Transport backed by a websocket connection to a Hub.
type Client struct {
	id   uuid.UUID
	conn *websocket.Conn
	subs subscribers
	done chan struct{}

	mu     sync.Mutex
	latest *scope.SharedSettings
	cancel context.CancelFunc
}

// Dial connects to a hub's sync endpoint, e.g. ws://host:8765/sync, and
// starts receiving snapshots in the background.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	conn.SetReadLimit(64 << 10)

	rctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		id:     uuid.New(),
		conn:   conn,
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go c.readLoop(rctx)
	log.Infof("[sync] connected to %s", url)
	return c, nil
}

func (c *Client) Publish(ctx context.Context, s scope.SharedSettings) error {
	if err := wsjson.Write(ctx, c.conn, Envelope{Origin: c.id, Settings: s}); err != nil {
		return fmt.Errorf("publish snapshot v%d: %w", s.Version, err)
	}
	return nil
}

func (c *Client) Subscribe(fn func(scope.SharedSettings)) func() {
	cancel := c.subs.add(fn)
	if s, ok := c.Latest(); ok {
		fn(s)
	}
	return cancel
}

func (c *Client) Latest() (scope.SharedSettings, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest == nil {
		return scope.SharedSettings{}, false
	}
	return *c.latest, true
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Close() error {
	err := c.conn.Close(websocket.StatusNormalClosure, "")
	c.cancel()
	<-c.done
	if err != nil && websocket.CloseStatus(err) == -1 && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("close sync connection: %w", err)
	}
	return nil
}

func (c *Client) readLoop(ctx context.Context) {
	defer close(c.done)
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) == -1 {
				log.Warnf("[sync] connection lost: %v", err)
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Warnf("[sync] dropping malformed snapshot: %v", err)
			continue
		}
		if env.Origin == c.id {
			continue
		}
		s := env.Settings.Normalize()
		c.mu.Lock()
		c.latest = &s
		c.mu.Unlock()
		log.Debugf("[sync] received snapshot v%d", s.Version)
		c.subs.deliver(s)
	}
}
