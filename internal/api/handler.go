package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/modelarena/challenger-stream/internal/api/middleware"
	"github.com/modelarena/challenger-stream/internal/models"
	"github.com/modelarena/challenger-stream/internal/session"
	"github.com/modelarena/challenger-stream/internal/snapshot"
	"github.com/modelarena/challenger-stream/internal/transport"
	"github.com/rs/zerolog"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ComparisonAccepted struct {
	Status string `json:"status"`
}

type Handler struct {
	controller *session.Controller
	store      snapshot.Store
	logger     *zerolog.Logger
	baseCtx    context.Context
}

// NewHandler builds the API handler. baseCtx bounds the lifetime of streaming
// sessions: sessions must outlive their triggering request but not the server.
func NewHandler(baseCtx context.Context, controller *session.Controller, store snapshot.Store, logger *zerolog.Logger) *Handler {
	return &Handler{
		controller: controller,
		store:      store,
		logger:     logger,
		baseCtx:    baseCtx,
	}
}

// POST /api/v1/comparisons
// Body: ComparisonRequest
// Starts a streaming session and returns immediately.
func (h *Handler) TriggerComparison(req *restful.Request, resp *restful.Response) {
	var cmpRequest models.ComparisonRequest
	if err := req.ReadEntity(&cmpRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if cmpRequest.ConversationID == "" || cmpRequest.BaselineRunID == "" {
		middleware.HandleError(resp, errors.New("conversation_id and baseline_run_id are required"), http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("conversation_id", cmpRequest.ConversationID).
		Str("message_id", cmpRequest.MessageID).
		Str("baseline_run_id", cmpRequest.BaselineRunID).
		Msg("Start comparison")

	// Deliberately not the request context: the stream outlives this request.
	h.controller.Start(h.baseCtx, transport.Request{
		ProjectID:      cmpRequest.ProjectID,
		AssistantID:    cmpRequest.AssistantID,
		ConversationID: cmpRequest.ConversationID,
		MessageID:      cmpRequest.MessageID,
		BaselineRunID:  cmpRequest.BaselineRunID,
	})

	resp.WriteHeaderAndEntity(http.StatusAccepted, ComparisonAccepted{Status: "streaming"})
}

// GET /api/v1/evaluations/{eval_id}
func (h *Handler) GetEvaluation(req *restful.Request, resp *restful.Response) {
	evalID := req.PathParameter("eval_id")

	snap, ok := h.store.Read(session.Key(evalID))
	if !ok {
		middleware.HandleError(resp, errors.New("evaluation not found"), http.StatusNotFound)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, snap)
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
