package workers

import (
	"context"
	"time"

	"radar/config"
	"radar/ingest"
	"radar/models"
	"radar/scoring"

	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Collector dirige a ingestão: a cada ciclo pega as fontes vencidas e roda
// uma tarefa por fonte num pool limitado. Falha de uma fonte não derruba
// as outras; a fonte errada fica com last_error e só volta quando o
// intervalo dela vencer de novo.
type Collector struct {
	db  *gorm.DB
	reg *ingest.Registry
	log *zap.Logger
	cfg config.Configuration
}

func NewCollector(db *gorm.DB, reg *ingest.Registry, log *zap.Logger, cfg config.Configuration) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{db: db, reg: reg, log: log, cfg: cfg}
}

// Start sobe o loop em background.
func (c *Collector) Start() {
	go func() {
		ticker := time.NewTicker(time.Duration(c.cfg.Ingest.IntervalSeconds) * time.Second)
		defer ticker.Stop()

		c.resetStuck()
		for range ticker.C {
			c.RunCycle(context.Background())
		}
	}()
}

// RunCycle roda um ciclo completo de coleta. Também é chamado direto pelo
// endpoint de trigger manual.
func (c *Collector) RunCycle(ctx context.Context) {
	c.resetStuck()
	c.purgeOldItems()

	due := c.dueSources()
	if len(due) == 0 {
		return
	}
	c.log.Info("coleta: ciclo iniciado", zap.Int("fontes", len(due)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Ingest.WorkerPoolSize)
	for _, src := range due {
		src := src
		g.Go(func() error {
			// Erro por fonte é tratado dentro; nunca propaga pro grupo.
			c.CollectSource(ctx, src)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Collector) dueSources() []models.Source {
	var sources []models.Source
	if err := c.db.
		Where("is_active = ? AND fetching = ?", true, false).
		Find(&sources).Error; err != nil {
		c.log.Error("coleta: query de fontes falhou", zap.Error(err))
		return nil
	}

	now := time.Now()
	due := sources[:0]
	for _, s := range sources {
		if !s.DueAt().After(now) {
			due = append(due, s)
		}
	}
	return due
}

// CollectSource coleta uma fonte com time-box. Usada pelo ciclo e pelo
// fetch manual de uma fonte específica.
func (c *Collector) CollectSource(ctx context.Context, src models.Source) ingest.Result {
	// lock otimista: só coleta quem conseguir marcar fetching.
	claim := c.db.Model(&models.Source{}).
		Where("id = ? AND fetching = ?", src.ID, false).
		Update("fetching", true)
	if claim.Error != nil || claim.RowsAffected == 0 {
		return ingest.Result{}
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.Ingest.FetchTimeoutSeconds)*time.Second)
	defer cancel()

	now := time.Now()
	fetcher, ok := c.reg.For(src.Type)
	if !ok {
		// OTHER e afins: nada a coletar, só marca a passagem.
		c.finish(src.ID, now, "")
		return ingest.Result{}
	}

	entries, err := fetcher.Fetch(ctx, src)
	if err != nil {
		c.log.Warn("coleta: fonte falhou",
			zap.Int64("source_id", src.ID),
			zap.String("url", src.URL),
			zap.Error(err))
		c.fail(src.ID, now, err.Error())
		return ingest.Result{}
	}

	res, err := ingest.Upsert(c.db, src, entries, ingest.Options{
		TitleDedupDays: c.cfg.Ingest.TitleDedupDays,
		MaxItems:       c.cfg.Ingest.MaxItemsPerFetch,
		Cutoffs:        c.cutoffs(),
		Now:            now,
	})
	if err != nil {
		c.log.Error("coleta: upsert falhou", zap.Int64("source_id", src.ID), zap.Error(err))
		c.fail(src.ID, now, err.Error())
		return res
	}

	c.finish(src.ID, now, "")
	c.log.Info("coleta: fonte ok",
		zap.Int64("source_id", src.ID),
		zap.Int("inserted", res.Inserted),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped))
	return res
}

func (c *Collector) finish(sourceID int64, now time.Time, lastError string) {
	_ = c.db.Model(&models.Source{}).Where("id = ?", sourceID).Updates(map[string]any{
		"fetching":        false,
		"last_fetched_at": &now,
		"last_attempt_at": &now,
		"last_error":      lastError,
	}).Error
}

func (c *Collector) fail(sourceID int64, now time.Time, lastError string) {
	// Falha também consome o intervalo da fonte. Sem isso uma fonte morta
	// fica vencida pra sempre e é martelada a cada tick do collector.
	_ = c.db.Model(&models.Source{}).Where("id = ?", sourceID).Updates(map[string]any{
		"fetching":        false,
		"last_fetched_at": &now,
		"last_attempt_at": &now,
		"last_error":      lastError,
	}).Error
}

// resetStuck libera fontes que ficaram marcadas como fetching por um crash
// ou timeout duro.
func (c *Collector) resetStuck() {
	cutoff := time.Now().Add(-10 * time.Minute)
	_ = c.db.Model(&models.Source{}).
		Where("fetching = ? AND (last_attempt_at IS NULL OR last_attempt_at < ?)", true, cutoff).
		Update("fetching", false).Error
}

// purgeOldItems remove itens NEW que ninguém tocou dentro da retenção.
func (c *Collector) purgeOldItems() {
	cutoff := time.Now().AddDate(0, 0, -c.cfg.Ingest.RetentionDays)
	res := c.db.
		Where("status = ? AND created_at < ?", models.ITEM_STATUS_NEW, cutoff).
		Delete(&models.ContentItem{})
	if res.Error == nil && res.RowsAffected > 0 {
		c.log.Info("coleta: purge de itens antigos", zap.Int64("removidos", res.RowsAffected))
	}
}

func (c *Collector) cutoffs() scoring.Cutoffs {
	return scoring.Cutoffs{
		TierA: c.cfg.Scoring.TierACutoff,
		TierB: c.cfg.Scoring.TierBCutoff,
	}
}
