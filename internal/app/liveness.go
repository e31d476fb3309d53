package app

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// LivenessMonitor probes every connection once per period and closes those
// that did not answer the previous probe. Closing runs the adapter's normal
// disconnect path.
type LivenessMonitor struct {
	Registry *Registry
	Clock    clockwork.Clock
	Period   time.Duration
}

func (m *LivenessMonitor) Run(ctx context.Context) error {
	clock := m.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ticker := clock.NewTicker(m.Period)
	defer ticker.Stop()

	log.Info().Str("module", "app.liveness").Dur("period", m.Period).Msg("liveness monitor started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.liveness").Msg("liveness monitor stopped")
			return nil
		case <-ticker.Chan():
			m.Sweep()
		}
	}
}

// Sweep runs one probe round.
func (m *LivenessMonitor) Sweep() {
	stale, probe := m.Registry.probeRound()
	for _, s := range stale {
		log.Info().Str("module", "app.liveness").Str("sid", string(s.SID)).Msg("terminating unresponsive connection")
		s.Signal.Close()
	}
	for _, s := range probe {
		if err := s.Signal.Ping(); err != nil {
			log.Debug().Err(err).Str("module", "app.liveness").Str("sid", string(s.SID)).Msg("ping failed")
		}
	}
	if len(stale) > 0 {
		log.Debug().Str("module", "app.liveness").Int("terminated", len(stale)).Int("probed", len(probe)).Msg("sweep done")
	}
}
