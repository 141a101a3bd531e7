// Package bustest provides an in-memory bus.Conn for exercising code that
// talks to the VM services.
package bustest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/cochaviz/vmc/internal/bus"
	"github.com/cochaviz/vmc/internal/wire"
)

// ErrNoHandler is returned for calls to methods nobody scripted.
var ErrNoHandler = errors.New("bustest: no handler for method")

// Handler answers one call. It runs without the Conn lock held, so it may
// call Emit.
type Handler func(ctx context.Context, args []any) ([]any, error)

// Call records one method call.
type Call struct {
	Endpoint bus.Endpoint
	Method   string
	Args     []any
}

// Payload decodes the serialised request carried in the call's first argument.
func (c Call) Payload(msg wire.Message) error {
	return bus.Decode(c.Endpoint.Member(c.Method), c.Args, msg)
}

// Conn is a scripted bus.Conn. The zero value is not usable; call New.
type Conn struct {
	mu          sync.Mutex
	handlers    map[string]Handler
	calls       []Call
	matches     map[bus.MatchRule]int
	matchAdds   int
	peakMatches int
	subscribers []chan<- *dbus.Signal
	pending     []*dbus.Signal
	endStream   bool
	closed      bool

	// AddMatchErr, when set, fails every AddMatch.
	AddMatchErr error
	// RemoveMatchErr, when set, fails every RemoveMatch (the match is still dropped).
	RemoveMatchErr error
}

var _ bus.Conn = &Conn{}

func New() *Conn {
	return &Conn{
		handlers: make(map[string]Handler),
		matches:  make(map[bus.MatchRule]int),
	}
}

// Handle installs h for calls to method on ep.
func (c *Conn) Handle(ep bus.Endpoint, method string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[ep.Member(method)] = h
}

// Reply answers every call to method with body.
func (c *Conn) Reply(ep bus.Endpoint, method string, body ...any) {
	c.Handle(ep, method, func(context.Context, []any) ([]any, error) {
		return body, nil
	})
}

// ReplyMessage answers every call to method with msg serialised as the only argument.
func (c *Conn) ReplyMessage(ep bus.Endpoint, method string, msg wire.Message) {
	c.Reply(ep, method, msg.Marshal())
}

// Fail answers every call to method with err.
func (c *Conn) Fail(ep bus.Endpoint, method string, err error) {
	c.Handle(ep, method, func(context.Context, []any) ([]any, error) {
		return nil, err
	})
}

// Hang makes calls to method block until their context is done.
func (c *Conn) Hang(ep bus.Endpoint, method string) {
	c.Handle(ep, method, func(ctx context.Context, _ []any) ([]any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
}

// Emit queues a signal carrying msg. Current subscribers receive it
// immediately; otherwise it is delivered to the next subscriber.
func (c *Conn) Emit(iface, member string, msg wire.Message) {
	c.EmitRaw(iface, member, msg.Marshal())
}

// EmitRaw queues a signal with an arbitrary body.
func (c *Conn) EmitRaw(iface, member string, body ...any) {
	sig := &dbus.Signal{
		Sender: ":1.test",
		Path:   "/",
		Name:   iface + "." + member,
		Body:   body,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.subscribers) == 0 {
		c.pending = append(c.pending, sig)
		return
	}
	for _, ch := range c.subscribers {
		deliver(ch, sig)
	}
}

// EndStream makes the connection close every signal channel registered from
// now on, as a real connection does when it is torn down.
func (c *Conn) EndStream() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endStream = true
}

func (c *Conn) Call(ctx context.Context, ep bus.Endpoint, method string, args ...any) ([]any, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.New("bustest: connection closed")
	}
	c.calls = append(c.calls, Call{Endpoint: ep, Method: method, Args: args})
	handler, ok := c.handlers[ep.Member(method)]
	c.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoHandler, ep.Member(method))
	}
	return handler(ctx, args)
}

func (c *Conn) AddMatch(_ context.Context, rule bus.MatchRule) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.AddMatchErr != nil {
		return c.AddMatchErr
	}
	c.matches[rule]++
	c.matchAdds++
	if active := c.activeLocked(); active > c.peakMatches {
		c.peakMatches = active
	}
	return nil
}

func (c *Conn) RemoveMatch(_ context.Context, rule bus.MatchRule) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.matches[rule] > 0 {
		c.matches[rule]--
		if c.matches[rule] == 0 {
			delete(c.matches, rule)
		}
	}
	return c.RemoveMatchErr
}

func (c *Conn) Signal(ch chan<- *dbus.Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sig := range c.pending {
		deliver(ch, sig)
	}
	c.pending = nil
	if c.endStream {
		close(ch)
		return
	}
	c.subscribers = append(c.subscribers, ch)
}

func (c *Conn) RemoveSignal(ch chan<- *dbus.Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, sub := range c.subscribers {
		if sub == ch {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			return
		}
	}
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Calls returns every call made so far, in order.
func (c *Conn) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Methods returns the method names of every call made so far, in order.
func (c *Conn) Methods() []string {
	calls := c.Calls()
	methods := make([]string, len(calls))
	for i, call := range calls {
		methods[i] = call.Method
	}
	return methods
}

// LastCall returns the most recent call to method.
func (c *Conn) LastCall(method string) (Call, bool) {
	calls := c.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method {
			return calls[i], true
		}
	}
	return Call{}, false
}

// ActiveMatches returns the number of match rules currently registered.
func (c *Conn) ActiveMatches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

// PeakMatches returns the largest number of simultaneously registered match rules.
func (c *Conn) PeakMatches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peakMatches
}

// MatchAdds returns how many times AddMatch succeeded.
func (c *Conn) MatchAdds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matchAdds
}

// Subscribers returns the number of registered signal channels.
func (c *Conn) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subscribers)
}

func (c *Conn) activeLocked() int {
	total := 0
	for _, n := range c.matches {
		total += n
	}
	return total
}

func deliver(ch chan<- *dbus.Signal, sig *dbus.Signal) {
	select {
	case ch <- sig:
	default:
	}
}
