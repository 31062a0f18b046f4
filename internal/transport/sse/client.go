package sse

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/modelarena/challenger-stream/internal/transport"
	"github.com/rs/zerolog"
)

const streamPath = "/api/v1/evaluations/stream"

// Full-text completion frames can carry entire model outputs on one data line,
// well past bufio.Scanner's 64KiB default token limit.
const maxLineSize = 4 * 1024 * 1024

// Client opens server-sent-event streams against the gateway's evaluation
// endpoint. The request context carries cancellation: canceling it closes the
// response body and ends the stream.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewClient(baseURL string, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// No overall timeout: streams are long-lived. Dial problems still
			// surface through the transport's own connect behavior.
			Timeout: 0,
		},
		logger: logger,
	}
}

func (c *Client) Open(ctx context.Context, req transport.Request) (transport.Stream, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+streamPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build stream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stream request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("stream request failed: status %d", resp.StatusCode)
	}

	c.logger.Debug().
		Str("message_id", req.MessageID).
		Dur("connect", time.Since(start)).
		Msg("stream opened")

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &stream{
		body:    resp.Body,
		scanner: scanner,
	}, nil
}

type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	label   string
}

// Next reads SSE lines until a data line arrives. "event:" lines set the label
// for the following data line; a blank line ends the event and resets it.
func (s *stream) Next(ctx context.Context) (transport.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return transport.Frame{}, err
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				if ctx.Err() != nil {
					return transport.Frame{}, ctx.Err()
				}
				return transport.Frame{}, fmt.Errorf("stream read failed: %w", err)
			}
			return transport.Frame{}, io.EOF
		}

		line := s.scanner.Text()
		switch {
		case line == "":
			s.label = ""
		case strings.HasPrefix(line, ":"):
			// Comment / keepalive line.
		case strings.HasPrefix(line, "event:"):
			s.label = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimPrefix(line, "data:")
			data = strings.TrimPrefix(data, " ")
			return transport.Frame{Data: data, Label: s.label}, nil
		}
	}
}

func (s *stream) Close() error {
	return s.body.Close()
}
