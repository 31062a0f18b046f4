package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/modelarena/challenger-stream/internal/config"
	red "github.com/modelarena/challenger-stream/internal/redis"
	"github.com/modelarena/challenger-stream/internal/session"
	"github.com/modelarena/challenger-stream/internal/snapshot"
	"github.com/modelarena/challenger-stream/internal/transport"
	"github.com/modelarena/challenger-stream/internal/transport/redisstream"
	"github.com/modelarena/challenger-stream/internal/transport/sse"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Controller *session.Controller
	Store      snapshot.Store
	Logger     *zerolog.Logger
}

// Wire builds the full aggregation engine from configuration: transport,
// snapshot store, notifier, and the session controller on top.
func Wire(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Dependencies, error) {
	tr, err := newTransport(ctx, &cfg.Stream, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream transport: %w", err)
	}

	store := snapshot.NewMemoryStore()
	notifier := session.NewLogNotifier(logger)
	controller := session.NewController(tr, store, notifier, logger)

	return &Dependencies{
		Controller: controller,
		Store:      store,
		Logger:     logger,
	}, nil
}

// newTransport selects the frame transport by provider.
func newTransport(ctx context.Context, cfg *config.StreamConfig, logger *zerolog.Logger) (transport.Transport, error) {
	switch cfg.Provider {
	case "sse":
		return sse.NewClient(cfg.SSE.BaseURL, logger), nil

	case "redis":
		client, err := red.Connect(ctx, red.Options{
			Addr:           cfg.Redis.Addr,
			Password:       cfg.Redis.Password,
			ConnectRetries: cfg.Redis.ConnectRetries,
			DialTimeout:    time.Duration(cfg.Redis.DialTimeoutMS) * time.Millisecond,
			ReadTimeout:    time.Duration(cfg.Redis.ReadTimeoutMS) * time.Millisecond,
			WriteTimeout:   time.Duration(cfg.Redis.WriteTimeoutMS) * time.Millisecond,
		}, logger)
		if err != nil {
			return nil, err
		}
		return redisstream.NewTransport(client, cfg.Redis.RequestStream, cfg.Redis.FramePrefix, logger), nil

	// Future providers:
	// case "websocket":
	//     return websocket.NewTransport(...)

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}
