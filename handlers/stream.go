package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"roster/middleware"
	"roster/streaming"
)

// StreamClient is the streaming provider as used by StreamHandler.
type StreamClient interface {
	Do(ctx context.Context, req streaming.Request) (interface{}, error)
}

type StreamHandler struct {
	client StreamClient
}

func NewStreamHandler(client StreamClient) *StreamHandler {
	return &StreamHandler{client: client}
}

// Proxy runs a streaming action on behalf of the caller. The user id sent
// to the provider is always the caller's.
func (h *StreamHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	var req streaming.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = middleware.IdentityFromContext(r.Context()).ID

	result, err := h.client.Do(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, streaming.ErrUnknownAction):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, streaming.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			log.Ctx(r.Context()).Error().Err(err).Str("action", req.Action).Msg("Streaming request failed")
			writeError(w, http.StatusBadGateway, "streaming provider error")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}
