package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type LeadHandler struct {
	leadRepo entity.LeadRepositoryInterface
}

func NewLeadHandler(leadRepo entity.LeadRepositoryInterface) *LeadHandler {
	return &LeadHandler{leadRepo: leadRepo}
}

// ListLeads devolve os leads mais recentes (default 50, teto 200).
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	leads, err := h.leadRepo.List(r.Context(), limit)
	if err != nil {
		log.Printf("❌ Erro ao listar leads: %v", err)
		http.Error(w, "erro ao consultar o banco", http.StatusInternalServerError)
		return
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(leads)
}
