package bus

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/cochaviz/vmc/internal/wire"
)

const (
	// signalBuffer absorbs unrelated signals delivered while we wait.
	signalBuffer = 16
	// unsubscribeTimeout bounds the RemoveMatch call made on the way out,
	// which runs even when the caller's context is already done.
	unsubscribeTimeout = 5 * time.Second
)

// Waiter blocks for a single asynchronous signal on a Conn.
type Waiter struct {
	Conn   Conn
	Logger *slog.Logger

	active atomic.Bool
}

// Wait subscribes to interface.member, blocks until a matching signal
// arrives and returns its payload bytes. The subscription is removed on every
// exit path. If the connection stops delivering signals before the deadline
// the wait is reported as a TimeoutError.
func (w *Waiter) Wait(ctx context.Context, iface, member string, timeout time.Duration) ([]byte, error) {
	return w.wait(ctx, iface, member, timeout, nil)
}

// WaitFor waits like Wait and decodes the payload into msg.
func (w *Waiter) WaitFor(ctx context.Context, iface, member string, timeout time.Duration, msg wire.Message) error {
	return w.WaitMatching(ctx, iface, member, timeout, msg, nil)
}

// WaitMatching decodes each interface.member signal into msg and returns once
// match reports true for it. Signals match rejects are skipped and the wait
// goes on under the same deadline. A nil match accepts the first signal.
func (w *Waiter) WaitMatching(ctx context.Context, iface, member string, timeout time.Duration, msg wire.Message, match func() bool) error {
	name := iface + "." + member
	_, err := w.wait(ctx, iface, member, timeout, func(raw []byte) (bool, error) {
		if err := Decode(name, []any{raw}, msg); err != nil {
			return false, err
		}
		return match == nil || match(), nil
	})
	return err
}

// wait runs the subscription. accept, when set, inspects each candidate
// payload; a false result keeps waiting and an error ends the wait.
func (w *Waiter) wait(ctx context.Context, iface, member string, timeout time.Duration, accept func(raw []byte) (bool, error)) (payload []byte, err error) {
	if w.Conn == nil {
		return nil, &TransportError{Member: iface + "." + member, Err: errors.New("no connection")}
	}
	if !w.active.CompareAndSwap(false, true) {
		return nil, ErrWaitInProgress
	}
	defer w.active.Store(false)

	rule := MatchRule{Interface: iface, Member: member}
	name := rule.Name()
	logger := w.logger().With("signal", name)

	if err := w.Conn.AddMatch(ctx, rule); err != nil {
		return nil, &TransportError{Member: name, Err: err}
	}

	signals := make(chan *dbus.Signal, signalBuffer)
	w.Conn.Signal(signals)
	defer func() {
		w.Conn.RemoveSignal(signals)

		rmCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unsubscribeTimeout)
		defer cancel()
		if rmErr := w.Conn.RemoveMatch(rmCtx, rule); rmErr != nil {
			logger.Warn("failed to remove signal match", "rule", rule.String(), "error", rmErr)
			if err == nil {
				err = &TransportError{Member: name, Err: rmErr}
			}
		}
	}()

	logger.Debug("waiting for signal", "timeout", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	timedOut := &TimeoutError{Waiting: "signal " + name, Timeout: timeout}
	for {
		select {
		case sig, ok := <-signals:
			if !ok {
				logger.Debug("signal stream ended before a match")
				return nil, timedOut
			}
			if sig == nil || sig.Name != name {
				continue
			}
			logger.Debug("signal received", "sender", sig.Sender)
			if len(sig.Body) == 0 {
				return nil, &DecodeError{Member: name, Err: errors.New("payload is empty")}
			}
			raw, ok := sig.Body[0].([]byte)
			if !ok {
				return nil, &DecodeError{Member: name, Err: errors.New("payload is not a byte array")}
			}
			if accept != nil {
				ok, err := accept(raw)
				if err != nil {
					return nil, err
				}
				if !ok {
					logger.Debug("skipping signal for another subject")
					continue
				}
			}
			return raw, nil
		case <-timer.C:
			return nil, timedOut
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, timedOut
			}
			return nil, ctx.Err()
		}
	}
}

func (w *Waiter) logger() *slog.Logger {
	if w != nil && w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
