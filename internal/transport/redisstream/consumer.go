package redisstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/modelarena/challenger-stream/internal/frame"
	"github.com/modelarena/challenger-stream/internal/transport"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Transport runs comparisons over Redis streams: the request is XAdd-ed onto a
// shared request stream and the evaluation workers publish text frames onto a
// per-message frame stream this side tails with blocking reads.
type Transport struct {
	client        *redis.Client
	requestStream string
	framePrefix   string
	logger        *zerolog.Logger
}

func NewTransport(client *redis.Client, requestStream, framePrefix string, logger *zerolog.Logger) *Transport {
	return &Transport{
		client:        client,
		requestStream: requestStream,
		framePrefix:   framePrefix,
		logger:        logger,
	}
}

func (t *Transport) Open(ctx context.Context, req transport.Request) (transport.Stream, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stream request: %w", err)
	}

	id, err := t.client.XAdd(ctx, &redis.XAddArgs{
		Stream: t.requestStream,
		Values: map[string]any{"payload": string(payload)},
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to publish stream request: %w", err)
	}

	frameStream := t.framePrefix + req.MessageID
	t.logger.Info().
		Str("request_id", id).
		Str("frame_stream", frameStream).
		Msg("comparison request published")

	return &stream{
		client: t.client,
		stream: frameStream,
		lastID: "0",
		logger: t.logger,
	}, nil
}

type stream struct {
	client *redis.Client
	stream string
	lastID string
	logger *zerolog.Logger
}

func (s *stream) Next(ctx context.Context) (transport.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return transport.Frame{}, err
		}

		res, err := s.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{s.stream, s.lastID},
			Count:   1,
			Block:   2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Poll timeout, no frame yet.
				continue
			}
			if ctx.Err() != nil {
				return transport.Frame{}, ctx.Err()
			}
			return transport.Frame{}, fmt.Errorf("failed to read frame stream: %w", err)
		}

		for _, msg := range res[0].Messages {
			s.lastID = msg.ID

			data, ok := msg.Values["data"].(string)
			if !ok {
				s.logger.Warn().Str("id", msg.ID).Msg("frame entry missing data field")
				continue
			}
			if data == frame.DoneSentinel {
				return transport.Frame{}, io.EOF
			}

			label, _ := msg.Values["event"].(string)
			return transport.Frame{Data: data, Label: label}, nil
		}
	}
}

func (s *stream) Close() error {
	// The redis client is shared; nothing per-stream to release.
	return nil
}
