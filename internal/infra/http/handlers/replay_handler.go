package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// ReplayHandler reprocessa uma mensagem específica sob demanda. É o único
// caminho que encosta em mensagem já marcada SUCCESS — a idempotência da
// resposta garante que o lead não recebe email duplicado.
type ReplayHandler struct {
	Processor usecase.MessageProcessor
}

func NewReplayHandler(processor usecase.MessageProcessor) *ReplayHandler {
	return &ReplayHandler{Processor: processor}
}

type ReplayResponse struct {
	MessageID string `json:"message_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

func (h *ReplayHandler) Handle(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageId")
	if messageID == "" {
		http.Error(w, "messageId é obrigatório", http.StatusBadRequest)
		return
	}

	response := ReplayResponse{MessageID: messageID, Success: true}
	status := http.StatusOK

	if err := h.Processor.Execute(r.Context(), messageID); err != nil {
		response.Success = false
		response.Error = err.Error()
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
