// Package client runs the websocket session between a live document and a
// djust-style server: it routes patch, snapshot and stream messages to
// their reconciliation roots and carries action dispatches and
// resynchronization requests upstream.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/djust-dev/liveclient/action"
	"github.com/djust-dev/liveclient/debug"
	"github.com/djust-dev/liveclient/dom"
	"github.com/djust-dev/liveclient/patch"
	"github.com/djust-dev/liveclient/view"
)

type Client struct {
	cfg        Config
	doc        *dom.Document
	sessionID  string
	dispatcher *action.Dispatcher
	views      map[string]*view.View

	// mu guards conn and serializes writes on it.
	mu   sync.Mutex
	conn *websocket.Conn
}

func New(cfg Config, doc *dom.Document) *Client {
	c := &Client{
		cfg:       cfg,
		doc:       doc,
		sessionID: ulid.Make().String(),
		views:     map[string]*view.View{},
	}
	window := cfg.ActionWindow
	if window == 0 {
		window = action.Window
	}
	c.dispatcher = action.NewDispatcherWindow(c.sendEvent, window)
	return c
}

func (c *Client) SessionID() string {
	return c.sessionID
}

// Mount associates a reconciliation root with a server view. An empty
// selector means the nearest marked container, [data-djust-root].
func (c *Client) Mount(viewID, selector string) (*view.View, error) {
	if selector == "" {
		selector = "[" + dom.AttrRoot + "]"
	}
	root, err := dom.Query(c.doc.Root, selector)
	if err != nil {
		return nil, fmt.Errorf("mounting %s: %w", viewID, err)
	}
	v := view.New(viewID, c.doc, root, c.dispatcher.Dispatch, c.requestResync)
	c.views[viewID] = v
	return v, nil
}

func (c *Client) View(id string) *view.View {
	return c.views[id]
}

// Dispatch is the outbound action pipeline entry point: sanitize, dedup,
// send. Exposed for hooks that fire actions outside the binding layer.
func (c *Client) Dispatch(name string, params map[string]any) error {
	return c.dispatcher.Dispatch(name, params)
}

func (c *Client) sendEvent(name string, params map[string]any) error {
	return c.write(clientMessage{
		Type:   "event",
		ID:     ulid.Make().String(),
		Event:  name,
		Params: params,
	})
}

func (c *Client) requestResync(viewID string, version int) error {
	if debug.WS() {
		debug.Logf("requesting snapshot for view %s (v%d)\n", viewID, version)
	}
	return c.write(clientMessage{Type: "request_html", View: viewID, Version: version})
}

// write sends one message. The mutex is held across the whole write: the
// connection allows only one writer at a time, and pings from the ticker
// goroutine race event and resync sends from the read loop's handlers.
func (c *Client) write(msg clientMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("write %q: not connected", msg.Type)
	}
	return c.conn.WriteJSON(msg)
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// backoffBounds returns the reconnect backoff range, substituting the
// defaults for unset fields so a zero-valued Config cannot hot-loop dials.
func (c *Client) backoffBounds() (lo, hi time.Duration) {
	lo = c.cfg.ReconnectMin
	if lo <= 0 {
		lo = time.Second
	}
	hi = c.cfg.ReconnectMax
	if hi <= 0 {
		hi = 30 * time.Second
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Run connects and processes messages until ctx is done, reconnecting with
// capped exponential backoff. All reconciliation happens on this loop's
// goroutine: batches for one root are strictly sequential, and nothing in
// the engine yields control mid-mutation.
func (c *Client) Run(ctx context.Context) error {
	lo, hi := c.backoffBounds()
	backoff := lo
	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, nil)
		if err != nil {
			if debug.WS() {
				debug.Logf("dial %s: %v (retry in %v)\n", c.cfg.URL, err, backoff)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, hi)
			continue
		}
		backoff = lo
		c.setConn(conn)
		err = c.readLoop(ctx, conn)
		c.setConn(nil)
		conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if debug.WS() {
			debug.Logf("session ended: %v (reconnecting)\n", err)
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	interval := c.cfg.PingInterval
	if interval <= 0 {
		interval = 25 * time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				conn.Close()
				return
			case <-t.C:
				c.write(clientMessage{Type: "ping"})
			}
		}
	}()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if err := c.handle(data); err != nil && debug.WS() {
			debug.Logf("handling message: %v\n", err)
		}
	}
}

func (c *Client) handle(data []byte) error {
	var msg serverMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	if debug.WS() {
		debug.Logf("recv %s (view %q, v%d)\n", msg.Type, msg.View, msg.Version)
	}
	switch msg.Type {
	case "mount":
		v := c.viewFor(msg.View)
		if v == nil {
			return fmt.Errorf("mount for unknown view %q", msg.View)
		}
		return v.Hydrate(msg.HTML, msg.Version)
	case "patch":
		v := c.viewFor(msg.View)
		if v == nil {
			return fmt.Errorf("patch for unknown view %q", msg.View)
		}
		patches, err := patch.DecodeBatch(msg.Patches)
		if err != nil {
			// A malformed batch is treated like an addressing failure:
			// recover, never partially interpret.
			return v.Invalidate(err)
		}
		return v.ApplyBatch(patches, msg.Version)
	case "html_update", "html_recovery":
		v := c.viewFor(msg.View)
		if v == nil {
			return fmt.Errorf("%s for unknown view %q", msg.Type, msg.View)
		}
		return v.ApplySnapshot(msg.HTML, msg.Version)
	case "stream":
		if err := ApplyStreamOps(c.doc.Root, msg.Ops); err != nil {
			return err
		}
		for _, v := range c.views {
			v.BindPass()
		}
		return nil
	case "error":
		if debug.WS() {
			debug.Logf("server error: %s\n", msg.Message)
		}
		return nil
	case "pong":
		return nil
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// viewFor resolves the target root: the named view, or the only mounted
// view when the server does not name one.
func (c *Client) viewFor(id string) *view.View {
	if id != "" {
		return c.views[id]
	}
	if len(c.views) == 1 {
		for _, v := range c.views {
			return v
		}
	}
	return nil
}
