package app

import (
	"context"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// KeepAlive periodically requests URL so hosts that idle out quiet
// services keep this one running. A zero URL disables it.
type KeepAlive struct {
	URL    string
	Period time.Duration
	Client *http.Client
	Clock  clockwork.Clock
}

func (k *KeepAlive) Run(ctx context.Context) error {
	if k.URL == "" {
		return nil
	}
	clock := k.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	client := k.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	ticker := clock.NewTicker(k.Period)
	defer ticker.Stop()

	log.Info().Str("module", "app.keepalive").Str("url", k.URL).Dur("period", k.Period).Msg("keep-alive started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			k.ping(ctx, client)
		}
	}
}

func (k *KeepAlive) ping(ctx context.Context, client *http.Client) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.URL, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "app.keepalive").Msg("build request")
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.keepalive").Msg("keep-alive request failed")
		return
	}
	_ = resp.Body.Close()
	log.Debug().Str("module", "app.keepalive").Int("status", resp.StatusCode).Msg("keep-alive ok")
}
