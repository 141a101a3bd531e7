package bus

import (
	"context"

	"github.com/godbus/dbus/v5"
)

// Conn is the single bus connection shared by every operation of a process.
// Only one call or signal wait may be outstanding at a time; callers that
// share a Conn across goroutines must serialise their operations.
type Conn interface {
	// Call invokes method on ep and blocks until the reply or until ctx is done.
	Call(ctx context.Context, ep Endpoint, method string, args ...any) ([]any, error)

	// AddMatch asks the bus to route signals matching rule to this connection.
	AddMatch(ctx context.Context, rule MatchRule) error
	// RemoveMatch undoes AddMatch.
	RemoveMatch(ctx context.Context, rule MatchRule) error

	// Signal registers ch to receive incoming signals. A closed channel means
	// the connection will deliver no more signals.
	Signal(ch chan<- *dbus.Signal)
	// RemoveSignal unregisters ch.
	RemoveSignal(ch chan<- *dbus.Signal)

	Close() error
}

var _ Conn = &SystemConn{}

// SystemConn is a Conn backed by a private connection to the system bus.
type SystemConn struct {
	conn *dbus.Conn
}

// ConnectSystem opens a private, authenticated connection to the system bus.
func ConnectSystem(opts ...dbus.ConnOption) (*SystemConn, error) {
	conn, err := dbus.ConnectSystemBus(opts...)
	if err != nil {
		return nil, &TransportError{Member: "system bus", Err: err}
	}
	return &SystemConn{conn: conn}, nil
}

func (c *SystemConn) Call(ctx context.Context, ep Endpoint, method string, args ...any) ([]any, error) {
	for _, arg := range args {
		if _, ok := arg.(dbus.UnixFD); ok && !c.conn.SupportsUnixFDs() {
			return nil, ErrNoUnixFDs
		}
	}

	call := c.conn.Object(ep.Service, ep.Path).CallWithContext(ctx, ep.Member(method), 0, args...)
	if call.Err != nil {
		return nil, call.Err
	}
	return call.Body, nil
}

func (c *SystemConn) AddMatch(ctx context.Context, rule MatchRule) error {
	return c.conn.AddMatchSignalContext(ctx,
		dbus.WithMatchInterface(rule.Interface),
		dbus.WithMatchMember(rule.Member),
	)
}

func (c *SystemConn) RemoveMatch(ctx context.Context, rule MatchRule) error {
	return c.conn.RemoveMatchSignalContext(ctx,
		dbus.WithMatchInterface(rule.Interface),
		dbus.WithMatchMember(rule.Member),
	)
}

func (c *SystemConn) Signal(ch chan<- *dbus.Signal) {
	c.conn.Signal(ch)
}

func (c *SystemConn) RemoveSignal(ch chan<- *dbus.Signal) {
	c.conn.RemoveSignal(ch)
}

func (c *SystemConn) Close() error {
	return c.conn.Close()
}
