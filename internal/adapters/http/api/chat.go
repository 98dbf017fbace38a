// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NicolasThaddeusL/cccup-ai/internal/adapters/llm"
)

// ChatHandler handles chat completion requests.
type ChatHandler struct {
	deps Dependencies
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(deps Dependencies) *ChatHandler {
	return &ChatHandler{deps: deps}
}

// HandleChat handles POST /v1/chat/completions requests.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	const op = "api.chat"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "messages_required", WrapKind(op, ErrBadRequest, err))
		return
	}

	content, err := h.deps.Chat(r.Context(), req.Messages)
	if err != nil {
		// The generative boundary distinguishes timeouts from generic
		// upstream failures; both stay user-presentable and neither is
		// retried. Internal detail never reaches the end user.
		switch {
		case errors.Is(err, llm.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, "llm_timeout", errors.New("LLM request timed out"))
		case errors.Is(err, llm.ErrNoAPIKey), errors.Is(err, llm.ErrUpstream):
			writeError(w, http.StatusBadGateway, "llm_upstream", errors.New("LLM upstream error"))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", errors.New("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Content: content})
}
