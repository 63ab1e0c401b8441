package workers

import (
	"time"

	"radar/config"
	"radar/heatmap"
	"radar/models"

	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
)

// ReportsWorker regenera os heatmaps de probabilidade num ritmo bem mais
// lento que a coleta. Agregação nunca roda por request.
type ReportsWorker struct {
	db  *gorm.DB
	log *zap.Logger
	cfg config.Configuration
}

func NewReportsWorker(db *gorm.DB, log *zap.Logger, cfg config.Configuration) *ReportsWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportsWorker{db: db, log: log, cfg: cfg}
}

func (w *ReportsWorker) Start() {
	go func() {
		ticker := time.NewTicker(time.Duration(w.cfg.Reports.IntervalMinutes) * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			w.RunOnce()
		}
	}()
}

// RunOnce reconstrói o heatmap de cada tenant que tem ocorrências.
func (w *ReportsWorker) RunOnce() {
	var tenants []string
	if err := w.db.Model(&models.QuestionOccurrence{}).
		Group("tenant_id").
		Pluck("tenant_id", &tenants).Error; err != nil {
		w.log.Error("reports: listagem de tenants falhou", zap.Error(err))
		return
	}

	builder := heatmap.Builder{BlendPeso: w.cfg.Reports.HeatmapBlendPeso}
	for _, tenant := range tenants {
		n, err := builder.Rebuild(w.db, tenant)
		if err != nil {
			w.log.Error("reports: rebuild falhou", zap.String("tenant", tenant), zap.Error(err))
			continue
		}
		w.log.Info("reports: heatmap regenerado", zap.String("tenant", tenant), zap.Int("linhas", n))
	}
}
