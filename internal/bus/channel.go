package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/cochaviz/vmc/internal/wire"
)

// noReplyError is the bus daemon's own timeout reply.
const noReplyError = "org.freedesktop.DBus.Error.NoReply"

// Channel performs request/reply calls with a serialised payload over a Conn.
type Channel struct {
	Conn   Conn
	Logger *slog.Logger
}

// Call sends req as the single byte-array argument of method, followed by any
// extra arguments (such as a dbus.UnixFD), and decodes the reply into resp.
func (c *Channel) Call(ctx context.Context, ep Endpoint, method string, req, resp wire.Message, timeout time.Duration, extra ...any) error {
	args := make([]any, 0, 1+len(extra))
	args = append(args, req.Marshal())
	args = append(args, extra...)

	body, err := c.CallArgs(ctx, ep, method, timeout, args...)
	if err != nil {
		return err
	}
	return Decode(ep.Member(method), body, resp)
}

// CallArgs sends a call with plain bus arguments and returns the raw reply body.
func (c *Channel) CallArgs(ctx context.Context, ep Endpoint, method string, timeout time.Duration, args ...any) ([]any, error) {
	if c.Conn == nil {
		return nil, &TransportError{Member: ep.Member(method), Err: errors.New("no connection")}
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	member := ep.Member(method)
	started := time.Now()
	body, err := c.Conn.Call(callCtx, ep, method, args...)
	c.logger().Debug("bus call finished",
		"member", member,
		"destination", ep.Service,
		"elapsed", time.Since(started),
		"error", err,
	)
	if err != nil {
		return nil, classifyCallError(callCtx, member, timeout, err)
	}
	return body, nil
}

func (c *Channel) logger() *slog.Logger {
	if c != nil && c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func classifyCallError(ctx context.Context, member string, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) || isNoReply(err) {
		return &TimeoutError{Waiting: "reply to " + member, Timeout: timeout}
	}
	return &TransportError{Member: member, Err: err}
}

func isNoReply(err error) bool {
	var value dbus.Error
	if errors.As(err, &value) {
		return value.Name == noReplyError
	}
	var ptr *dbus.Error
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Name == noReplyError
	}
	return false
}

// Decode parses the first argument of a reply or signal body into msg.
func Decode(member string, body []any, msg wire.Message) error {
	if len(body) == 0 {
		return &DecodeError{Member: member, Err: errors.New("payload is empty")}
	}
	raw, ok := body[0].([]byte)
	if !ok {
		return &DecodeError{Member: member, Err: fmt.Errorf("payload argument is %T, want []byte", body[0])}
	}
	if err := msg.Unmarshal(raw); err != nil {
		return &DecodeError{Member: member, Err: err}
	}
	return nil
}
