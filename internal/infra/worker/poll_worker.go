package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// PollWorker dispara o coordenador em intervalos fixos e guarda o último
// relatório para o endpoint de status.
type PollWorker struct {
	coordinator *usecase.RunCoordinator
	interval    time.Duration

	mu         sync.RWMutex
	lastReport *usecase.RunReport
}

func NewPollWorker(coordinator *usecase.RunCoordinator, interval time.Duration) *PollWorker {
	return &PollWorker{
		coordinator: coordinator,
		interval:    interval,
	}
}

func (w *PollWorker) Start(ctx context.Context) {
	log.Printf("🕒 Poll worker iniciado (intervalo %s)", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Poll worker encerrado")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *PollWorker) runOnce(ctx context.Context) {
	report, err := w.coordinator.Run(ctx)
	if err != nil {
		log.Printf("❌ Run do coordenador falhou: %v", err)
	}
	if report != nil {
		w.mu.Lock()
		w.lastReport = report
		w.mu.Unlock()
	}
}

// LastReport devolve o relatório do último run, ou nil se ainda não rodou.
func (w *PollWorker) LastReport() *usecase.RunReport {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastReport
}
