package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// RunReporter expõe o resultado do último run do coordenador.
type RunReporter interface {
	LastReport() *usecase.RunReport
}

// StatusHandler é o painel de diagnóstico do pipeline: último run, fila de
// mensagens FAILED e estado do roster.
type StatusHandler struct {
	Processing entity.ProcessingRepositoryInterface
	Recipients entity.RecipientRepositoryInterface
	Reporter   RunReporter
}

func NewStatusHandler(
	processing entity.ProcessingRepositoryInterface,
	recipients entity.RecipientRepositoryInterface,
	reporter RunReporter,
) *StatusHandler {
	return &StatusHandler{
		Processing: processing,
		Recipients: recipients,
		Reporter:   reporter,
	}
}

type StatusResponse struct {
	LastRun    *usecase.RunReport         `json:"last_run,omitempty"`
	Failed     []*entity.ProcessingRecord `json:"failed_messages"`
	Recipients []*entity.Recipient        `json:"recipients"`
}

func (h *StatusHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	failed, err := h.Processing.ListFailed(ctx, 50)
	if err != nil {
		log.Printf("❌ Status: erro ao listar falhas: %v", err)
		http.Error(w, "erro ao consultar o banco", http.StatusInternalServerError)
		return
	}

	recipients, err := h.Recipients.ListActive(ctx)
	if err != nil {
		log.Printf("❌ Status: erro ao listar roster: %v", err)
		http.Error(w, "erro ao consultar o banco", http.StatusInternalServerError)
		return
	}

	response := StatusResponse{
		Failed:     failed,
		Recipients: recipients,
	}
	if h.Reporter != nil {
		response.LastRun = h.Reporter.LastReport()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
