package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// LogsClientConfig configures the websocket logs client.
type LogsClientConfig struct {
	ReconnectDelay    time.Duration // initial delay before a reconnect attempt
	MaxReconnectDelay time.Duration // backoff cap
	PingInterval      time.Duration // keepalive ping frames
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	SubscribeTimeout  time.Duration // wait for the subscription confirmation
}

// DefaultLogsClientConfig returns defaults suitable for public RPC nodes.
func DefaultLogsClientConfig() LogsClientConfig {
	return LogsClientConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		SubscribeTimeout:  30 * time.Second,
	}
}

// LogsClient is a gorilla/websocket implementation of WSClient that
// tails program logs for the Watcher. It carries a single logsSubscribe
// subscription, which it re-establishes after a reconnect; the watcher
// only ever follows the one deployed commit-reveal program.
type LogsClient struct {
	endpoint string
	cfg      LogsClientConfig

	connMu sync.Mutex
	conn   *websocket.Conn

	closed       atomic.Bool
	reconnecting atomic.Bool
	reqID        atomic.Uint64

	// The active subscription. subID changes across reconnects; the
	// notification channel does not.
	subMu     sync.Mutex
	subID     int64
	subFilter LogsFilter
	subCh     chan LogNotification

	pendingMu sync.Mutex
	pending   map[uint64]chan int64

	done chan struct{}
	wg   sync.WaitGroup
}

// Compile-time interface check.
var _ WSClient = (*LogsClient)(nil)

// NewLogsClient dials the endpoint and starts the read and ping loops.
// A nil config means DefaultLogsClientConfig.
func NewLogsClient(ctx context.Context, endpoint string, config *LogsClientConfig) (*LogsClient, error) {
	cfg := DefaultLogsClientConfig()
	if config != nil {
		cfg = *config
	}

	c := &LogsClient{
		endpoint: endpoint,
		cfg:      cfg,
		pending:  make(map[uint64]chan int64),
		done:     make(chan struct{}),
	}
	if err := c.dial(ctx); err != nil {
		return nil, err
	}

	c.wg.Add(2)
	go c.readLoop()
	go c.pingLoop()
	return c, nil
}

func (c *LogsClient) dial(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	c.conn = conn
	return nil
}

// SubscribeLogs issues logsSubscribe for the filter and returns the
// notification channel. One subscription per client; a second call
// fails.
func (c *LogsClient) SubscribeLogs(ctx context.Context, filter LogsFilter) (<-chan LogNotification, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("logs client closed")
	}

	c.subMu.Lock()
	if c.subCh != nil {
		c.subMu.Unlock()
		return nil, fmt.Errorf("already subscribed")
	}
	ch := make(chan LogNotification, 1024)
	c.subCh = ch
	c.subFilter = filter
	c.subMu.Unlock()

	subID, err := c.subscribe(ctx, filter)
	if err != nil {
		c.subMu.Lock()
		c.subCh = nil
		c.subMu.Unlock()
		return nil, err
	}

	c.subMu.Lock()
	c.subID = subID
	c.subMu.Unlock()
	return ch, nil
}

// subscribe sends the logsSubscribe request and waits for the
// confirmation carrying the subscription ID.
func (c *LogsClient) subscribe(ctx context.Context, filter LogsFilter) (int64, error) {
	reqID := c.reqID.Add(1)

	mentions := map[string]interface{}{"all": nil}
	if len(filter.Mentions) > 0 {
		mentions = map[string]interface{}{"mentions": filter.Mentions}
	}
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "logsSubscribe",
		Params: []interface{}{
			mentions,
			map[string]string{"commitment": "confirmed"},
		},
	}

	confirm := make(chan int64, 1)
	c.pendingMu.Lock()
	c.pending[reqID] = confirm
	c.pendingMu.Unlock()
	drop := func() {
		c.pendingMu.Lock()
		delete(c.pending, reqID)
		c.pendingMu.Unlock()
	}

	c.connMu.Lock()
	if c.conn == nil {
		c.connMu.Unlock()
		drop()
		return 0, fmt.Errorf("not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	err := c.conn.WriteJSON(req)
	c.connMu.Unlock()
	if err != nil {
		drop()
		return 0, fmt.Errorf("write subscribe: %w", err)
	}

	select {
	case subID := <-confirm:
		return subID, nil
	case <-time.After(c.cfg.SubscribeTimeout):
		drop()
		return 0, fmt.Errorf("subscription timeout after %s", c.cfg.SubscribeTimeout)
	case <-c.done:
		return 0, fmt.Errorf("logs client closed")
	case <-ctx.Done():
		drop()
		return 0, ctx.Err()
	}
}

// Close shuts the connection down and closes the notification channel.
func (c *LogsClient) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.pendingMu.Lock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.pendingMu.Unlock()

	c.wg.Wait()

	c.subMu.Lock()
	if c.subCh != nil {
		close(c.subCh)
		c.subCh = nil
	}
	c.subMu.Unlock()
	return nil
}

// readLoop reads frames and dispatches them; on a read error it kicks
// off a reconnect with exponential backoff.
func (c *LogsClient) readLoop() {
	defer c.wg.Done()

	delay := c.cfg.ReconnectDelay
	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}
			if !c.reconnecting.Swap(true) {
				go c.reconnect(delay)
			}
			delay *= 2
			if delay > c.cfg.MaxReconnectDelay {
				delay = c.cfg.MaxReconnectDelay
			}
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		delay = c.cfg.ReconnectDelay
		c.handleMessage(message)
	}
}

// reconnect redials and re-issues the active subscription. The
// notification channel survives; only the subscription ID changes.
func (c *LogsClient) reconnect(wait time.Duration) {
	defer c.reconnecting.Store(false)

	select {
	case <-c.done:
		return
	case <-time.After(wait):
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.dial(ctx); err != nil {
		// Next read error retries with a longer delay.
		return
	}

	c.subMu.Lock()
	active := c.subCh != nil
	filter := c.subFilter
	c.subMu.Unlock()
	if !active {
		return
	}

	subID, err := c.subscribe(ctx, filter)
	if err != nil {
		return
	}
	c.subMu.Lock()
	c.subID = subID
	c.subMu.Unlock()
}

func (c *LogsClient) handleMessage(message []byte) {
	var resp wsSubscribeResponse
	if err := json.Unmarshal(message, &resp); err == nil && resp.Result > 0 {
		c.pendingMu.Lock()
		confirm, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.pendingMu.Unlock()
		if ok {
			select {
			case confirm <- resp.Result:
			default:
			}
		}
		return
	}

	var notif wsNotification
	if err := json.Unmarshal(message, &notif); err == nil && notif.Method == "logsNotification" && notif.Params != nil {
		c.deliver(notif.Params)
	}
}

func (c *LogsClient) deliver(params *wsNotificationParams) {
	n := LogNotification{
		Signature: params.Result.Value.Signature,
		Logs:      params.Result.Value.Logs,
		Err:       params.Result.Value.Err,
	}
	if params.Result.Context != nil {
		n.Slot = params.Result.Context.Slot
	}

	c.subMu.Lock()
	ch := c.subCh
	c.subMu.Unlock()
	if ch == nil {
		return
	}

	// Block rather than drop; the buffer absorbs bursts.
	select {
	case ch <- n:
	case <-c.done:
	}
}

// pingLoop keeps the connection alive through idle periods.
func (c *LogsClient) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
				// A failed ping surfaces as a read error; the read
				// loop owns the reconnect.
				_ = c.conn.WriteMessage(websocket.PingMessage, nil)
			}
			c.connMu.Unlock()
		}
	}
}

// Wire types for the logsSubscribe protocol.

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type wsSubscribeResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Result  int64  `json:"result"` // subscription ID
}

type wsNotification struct {
	JSONRPC string                `json:"jsonrpc"`
	Method  string                `json:"method"`
	Params  *wsNotificationParams `json:"params"`
}

type wsNotificationParams struct {
	Subscription int64                `json:"subscription"`
	Result       wsNotificationResult `json:"result"`
}

type wsNotificationResult struct {
	Context *wsContext  `json:"context"`
	Value   wsLogsValue `json:"value"`
}

type wsContext struct {
	Slot int64 `json:"slot"`
}

type wsLogsValue struct {
	Signature string      `json:"signature"`
	Logs      []string    `json:"logs"`
	Err       interface{} `json:"err"`
}
