// Package mpv drives an external mpv process over its JSON IPC socket and
// exposes it as a playback.Engine.
package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRequestTimeout bounds every IPC round trip
const DefaultRequestTimeout = 2 * time.Second

const (
	maxLineSize = 1 << 20

	replySuccess             = "success"
	replyPropertyUnavailable = "property unavailable"
)

var (
	// ErrClosed is returned once the IPC connection is gone
	ErrClosed = errors.New("mpv: connection closed")
	// ErrTimeout is returned when mpv does not answer in time
	ErrTimeout = errors.New("mpv: request timed out")
	// ErrPropertyUnavailable means the property has no value right now,
	// e.g. duration before a file is loaded
	ErrPropertyUnavailable = errors.New("mpv: property unavailable")
)

type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type response struct {
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID int64           `json:"request_id"`
	Event     string          `json:"event"`
}

// Client is a JSON IPC connection. It is safe for concurrent use; replies
// are matched to requests by request_id and events are dropped.
type Client struct {
	conn    net.Conn
	logger  *slog.Logger
	timeout time.Duration

	writeMu sync.Mutex
	mu      sync.Mutex
	pending map[int64]chan response
	nextID  atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
}

func newClient(conn net.Conn, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		conn:    conn,
		logger:  logger,
		timeout: DefaultRequestTimeout,
		pending: make(map[int64]chan response),
		closed:  make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Command sends one command and waits for its reply data
func (c *Client) Command(args ...any) (json.RawMessage, error) {
	results, err := c.batch(c.timeout, args)
	if err != nil {
		return nil, err
	}
	return results[0].data, results[0].err
}

type result struct {
	data json.RawMessage
	err  error
}

// batch writes every command before reading any reply and waits for all of
// them under one deadline. A per-command mpv error lands in its result.
func (c *Client) batch(timeout time.Duration, cmds ...[]any) ([]result, error) {
	replies := make([]chan response, len(cmds))
	ids := make([]int64, len(cmds))

	c.mu.Lock()
	for i := range cmds {
		ids[i] = c.nextID.Add(1)
		replies[i] = make(chan response, 1)
		c.pending[ids[i]] = replies[i]
	}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		for _, id := range ids {
			delete(c.pending, id)
		}
		c.mu.Unlock()
	}()

	var buf []byte
	for i, cmd := range cmds {
		line, err := json.Marshal(request{Command: cmd, RequestID: ids[i]})
		if err != nil {
			return nil, fmt.Errorf("encode mpv command: %w", err)
		}
		buf = append(append(buf, line...), '\n')
	}

	c.writeMu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
	_, err := c.conn.Write(buf)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClosed, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	results := make([]result, len(cmds))
	for i, reply := range replies {
		select {
		case resp := <-reply:
			results[i] = result{data: resp.Data, err: replyError(cmds[i][0], resp.Error)}
		case <-timer.C:
			return nil, fmt.Errorf("%w: %v", ErrTimeout, cmds[i][0])
		case <-c.closed:
			return nil, ErrClosed
		}
	}
	return results, nil
}

func replyError(name any, reply string) error {
	switch reply {
	case replySuccess, "":
		return nil
	case replyPropertyUnavailable:
		return ErrPropertyUnavailable
	default:
		return fmt.Errorf("mpv %v: %s", name, reply)
	}
}

// GetProperty decodes property name into out
func (c *Client) GetProperty(name string, out any) error {
	data, err := c.Command("get_property", name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode mpv property %s: %w", name, err)
	}
	return nil
}

// SetProperty sets property name to value
func (c *Client) SetProperty(name string, value any) error {
	_, err := c.Command("set_property", name, value)
	return err
}

// Done is closed when the connection ends
func (c *Client) Done() <-chan struct{} {
	return c.closed
}

// closeConn shuts the connection down; pending requests fail with ErrClosed
func (c *Client) closeConn() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.closed)

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		var resp response
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			c.logger.Debug("Skipping malformed mpv message", "error", err)
			continue
		}
		if resp.Event != "" || resp.RequestID == 0 {
			continue
		}

		c.mu.Lock()
		reply, ok := c.pending[resp.RequestID]
		c.mu.Unlock()
		if ok {
			reply <- resp
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.logger.Debug("mpv connection ended", "error", err)
	}
}
