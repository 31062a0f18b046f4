package session

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/modelarena/challenger-stream/internal/events"
	"github.com/modelarena/challenger-stream/internal/frame"
	"github.com/modelarena/challenger-stream/internal/snapshot"
	"github.com/modelarena/challenger-stream/internal/transport"
	"github.com/rs/zerolog"
)

// Controller owns the lifecycle of streaming comparison sessions. It enforces
// single-flight per conversation: starting a new comparison cancels any stream
// still running for the same conversation, and a superseded session never
// writes to the store again.
type Controller struct {
	transport transport.Transport
	store     snapshot.Store
	notifier  Notifier
	logger    *zerolog.Logger

	mu     sync.Mutex
	active map[string]*handle
}

type handle struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

func NewController(tr transport.Transport, store snapshot.Store, notifier Notifier, logger *zerolog.Logger) *Controller {
	return &Controller{
		transport: tr,
		store:     store,
		notifier:  notifier,
		logger:    logger,
		active:    make(map[string]*handle),
	}
}

// Key maps an evaluation id to its store key.
func Key(evalID string) string {
	return "evaluations/" + evalID
}

// Start begins a comparison stream for the request's conversation and returns
// once the session is registered; frames are consumed on a separate goroutine.
// The returned channel closes when the session settles (completed, aborted, or
// failed).
func (c *Controller) Start(ctx context.Context, req transport.Request) <-chan struct{} {
	h, streamCtx := c.register(ctx, req.ConversationID)

	go func() {
		defer close(h.done)
		defer c.release(req.ConversationID, h)
		c.consume(streamCtx, h, req)
	}()

	return h.done
}

// Run is the synchronous form of Start, used by offline tooling.
func (c *Controller) Run(ctx context.Context, req transport.Request) {
	h, streamCtx := c.register(ctx, req.ConversationID)
	defer close(h.done)
	defer c.release(req.ConversationID, h)
	c.consume(streamCtx, h, req)
}

// Shutdown cancels every still-active session, e.g. on teardown of the owning
// context, so no connection outlives its observers.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	handles := make([]*handle, 0, len(c.active))
	for _, h := range c.active {
		handles = append(handles, h)
	}
	c.mu.Unlock()

	for _, h := range handles {
		h.cancel()
		<-h.done
	}
}

// register installs a new session handle for the conversation, canceling any
// predecessor first.
func (c *Controller) register(ctx context.Context, conversationID string) (*handle, context.Context) {
	streamCtx, cancel := context.WithCancel(ctx)
	h := &handle{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	c.mu.Lock()
	if prev, ok := c.active[conversationID]; ok {
		prev.cancel()
	}
	c.active[conversationID] = h
	c.mu.Unlock()

	return h, streamCtx
}

func (c *Controller) release(conversationID string, h *handle) {
	c.mu.Lock()
	if c.active[conversationID] == h {
		delete(c.active, conversationID)
	}
	c.mu.Unlock()
	h.cancel()
}

// writeCurrent applies the update only if the handle still owns its
// conversation slot. The ownership check and the write happen under the same
// lock held by register, so a successor starting concurrently cannot slip in
// between them; the store itself never calls back into the controller.
func (c *Controller) writeCurrent(conversationID string, h *handle, key string, update snapshot.Updater) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active[conversationID] != h {
		return false
	}
	c.store.Write(key, update)
	return true
}

// consume is the single-threaded frame loop: one frame at a time flows through
// decode, normalize, merge, and a store write. Frame-level anomalies are
// dropped locally and never abort the stream; only transport failures do.
func (c *Controller) consume(ctx context.Context, h *handle, req transport.Request) {
	logger := c.logger.With().
		Str("session_id", h.id).
		Str("conversation_id", req.ConversationID).
		Logger()

	stream, err := c.transport.Open(ctx, req)
	if err != nil {
		if isCancellation(ctx, err) {
			logger.Debug().Msg("stream open aborted")
			return
		}
		logger.Error().Err(err).Msg("stream open failed")
		c.notifier.StreamFailed(req, err)
		return
	}
	defer stream.Close()

	activeEvalID := ""
	for {
		fr, err := stream.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				logger.Info().Str("eval_id", activeEvalID).Msg("stream completed")
			case isCancellation(ctx, err):
				// Benign: superseded or torn down. Partial state stays as-is.
				logger.Debug().Str("eval_id", activeEvalID).Msg("stream aborted")
			default:
				logger.Error().Err(err).Str("eval_id", activeEvalID).Msg("stream failed")
				c.notifier.StreamFailed(req, err)
			}
			return
		}

		payload, ok := frame.Decode(fr.Data)
		if !ok {
			continue
		}

		ev := events.Normalize(payload, fr.Label)
		if ev == nil {
			continue
		}

		if ev.EvalID == "" {
			ev.EvalID = activeEvalID
		}
		if ev.EvalID == "" {
			// An update arrived before any created event; nothing to address.
			continue
		}
		if ev.Kind == events.KindEvalCreated {
			activeEvalID = ev.EvalID
		}

		// A superseded session must not mutate the cache, even for frames it
		// had already pulled before observing cancellation.
		if !c.writeCurrent(req.ConversationID, h, Key(ev.EvalID), snapshot.UpdaterFor(*ev)) {
			logger.Debug().Msg("session superseded, dropping frame")
			return
		}
	}
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}
