package core

// scheduler.go drops roster sessions that have been idle too long.
//
// Sessions live only in memory, so an abandoned browser tab would otherwise
// keep its records forever. The sweeper is long-running and context-aware for
// graceful shutdown.

import (
	"context"
	"log/slog"
	"time"
)

// SweepConfig holds configuration for the session sweeper.
// Zero values fall back to defaults.
type SweepConfig struct {
	IdleTimeout   time.Duration // Drop sessions unused for this long (default: 2h)
	CheckInterval time.Duration // How often to sweep (default: 5m)
}

func (c SweepConfig) withDefaults() SweepConfig {
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 2 * time.Hour
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 5 * time.Minute
	}
	return c
}

// StartSessionSweeper periodically removes idle sessions.
// It blocks until ctx is cancelled; run it in its own goroutine.
func (s *Service) StartSessionSweeper(ctx context.Context, cfg SweepConfig) {
	cfg = cfg.withDefaults()
	slog.Info("session sweeper started",
		"idle_timeout", cfg.IdleTimeout.String(),
		"interval", cfg.CheckInterval.String(),
	)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.SweepIdleSessions(cfg.IdleTimeout)
		}
	}
}

// SweepIdleSessions removes sessions idle for longer than idle and
// returns how many were dropped.
func (s *Service) SweepIdleSessions(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, sess := range s.sessions {
		// A locked session is in use and therefore not idle.
		if !sess.mu.TryLock() {
			continue
		}
		stale := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if stale {
			delete(s.sessions, id)
			dropped++
		}
	}

	if dropped > 0 {
		slog.Info("idle sessions dropped", "dropped", dropped, "remaining", len(s.sessions))
	}
	return dropped
}
