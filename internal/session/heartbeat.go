// internal/session/heartbeat.go
package session

import (
	"github.com/robfig/cron/v3"
)

// startHeartbeat schedules the periodic status log line. The schedule
// comes from heartbeat.cron_expression, or from the simple run_every
// syntax when no expression is set.
func (s *Session) startHeartbeat() (*cron.Cron, error) {
	// Use cron with seconds field support
	c := cron.New(cron.WithSeconds())

	expr := s.cfg.Heartbeat.CronExpression
	if expr == "" {
		expr = convertSimpleToCron(s.cfg.Heartbeat.RunEvery)
	}

	_, err := c.AddFunc(expr, func() {
		s.mu.Lock()
		streamLen := len(s.stream)
		firings := s.firings
		s.mu.Unlock()
		s.logger.Info("heartbeat", "stream_len", streamLen, "firings", firings)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

// convertSimpleToCron converts run_every ("30s", "5m", "1h") to a cron
// expression with a seconds field.
func convertSimpleToCron(runEvery string) string {
	// Default: every minute
	if len(runEvery) < 2 {
		return "0 * * * * *"
	}

	unit := runEvery[len(runEvery)-1]
	val := runEvery[:len(runEvery)-1]

	switch unit {
	case 's':
		return "*/" + val + " * * * * *"
	case 'm':
		return "0 */" + val + " * * * *"
	case 'h':
		return "0 0 */" + val + " * * *"
	}

	return "0 * * * * *"
}
