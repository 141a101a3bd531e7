package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// SessionsList returns the active user sessions, sorted by account.
func (o *Orchestrator) SessionsList(ctx context.Context) ([]Session, error) {
	var sessions []Session
	err := o.run(ctx, "sessions list", "", "", func(ctx context.Context, logger *slog.Logger) error {
		body, err := o.channel.CallArgs(ctx, sessionManager, methodRetrieveActiveSessions, o.config.Timeouts.Default)
		if err != nil {
			return &SessionLookupError{Err: err}
		}
		if len(body) == 0 {
			return &SessionLookupError{Err: fmt.Errorf("reply carries no session map")}
		}
		active, ok := body[0].(map[string]string)
		if !ok {
			return &SessionLookupError{Err: fmt.Errorf("reply carries %T, want map[string]string", body[0])}
		}

		sessions = make([]Session, 0, len(active))
		for account, hash := range active {
			sessions = append(sessions, Session{Account: account, OwnerHash: hash})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].Account < sessions[j].Account
		})
		logger.Debug("retrieved sessions", "count", len(sessions))
		return nil
	})
	return sessions, err
}

// MetricsSendSample accepts a usage sample and drops it.
func (o *Orchestrator) MetricsSendSample(_ context.Context, name string) error {
	o.logger.Debug("metrics sample dropped", "sample", name)
	return nil
}
