package config

import (
	"encoding/json"
	"log"
	"os"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	AllowedOrigins []string `json:"allowed_origins"`

	Ingest struct {
		IntervalSeconds     int `json:"interval_seconds"`
		WorkerPoolSize      int `json:"worker_pool_size"`
		FetchTimeoutSeconds int `json:"fetch_timeout_seconds"`
		RetentionDays       int `json:"retention_days"`
		TitleDedupDays      int `json:"title_dedup_days"`
		MaxItemsPerFetch    int `json:"max_items_per_fetch"`
	} `json:"ingest"`

	Scoring struct {
		Floor               float64 `json:"floor"`
		TierACutoff         float64 `json:"tier_a_cutoff"`
		TierBCutoff         float64 `json:"tier_b_cutoff"`
		SuggestionThreshold float64 `json:"suggestion_threshold"`
	} `json:"scoring"`

	Dedup struct {
		RejectThreshold float64 `json:"reject_threshold"`
		ReviewThreshold float64 `json:"review_threshold"`
		MinTextLength   int     `json:"min_text_length"`
		CorpusWindow    int     `json:"corpus_window"`
		CorpusMaxAge    int     `json:"corpus_max_age_days"`
	} `json:"dedup"`

	Reports struct {
		IntervalMinutes  int     `json:"interval_minutes"`
		HeatmapBlendPeso float64 `json:"heatmap_blend_peso"`
	} `json:"reports"`
}

func Get(path string) Configuration {
	var c Configuration
	if b, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(b, &c); err != nil {
			log.Fatal(err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatal(err)
	}

	// defaults (pra evitar nil/zero chato)
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.Ingest.IntervalSeconds <= 0 {
		c.Ingest.IntervalSeconds = 60
	}
	if c.Ingest.WorkerPoolSize <= 0 {
		c.Ingest.WorkerPoolSize = 4
	}
	if c.Ingest.FetchTimeoutSeconds <= 0 {
		c.Ingest.FetchTimeoutSeconds = 20
	}
	if c.Ingest.RetentionDays <= 0 {
		c.Ingest.RetentionDays = 7
	}
	if c.Ingest.TitleDedupDays <= 0 {
		c.Ingest.TitleDedupDays = 7
	}
	if c.Ingest.MaxItemsPerFetch <= 0 {
		c.Ingest.MaxItemsPerFetch = 50
	}
	if c.Scoring.Floor <= 0 {
		c.Scoring.Floor = 0.05
	}
	if c.Scoring.TierACutoff <= 0 {
		c.Scoring.TierACutoff = 80
	}
	if c.Scoring.TierBCutoff <= 0 {
		c.Scoring.TierBCutoff = 55
	}
	if c.Scoring.SuggestionThreshold <= 0 {
		c.Scoring.SuggestionThreshold = 0.45
	}
	if c.Dedup.RejectThreshold <= 0 {
		c.Dedup.RejectThreshold = 0.95
	}
	if c.Dedup.ReviewThreshold <= 0 {
		c.Dedup.ReviewThreshold = 0.85
	}
	if c.Dedup.MinTextLength <= 0 {
		c.Dedup.MinTextLength = 50
	}
	if c.Dedup.CorpusWindow <= 0 {
		c.Dedup.CorpusWindow = 10
	}
	if c.Dedup.CorpusMaxAge <= 0 {
		c.Dedup.CorpusMaxAge = 180
	}
	if c.Reports.IntervalMinutes <= 0 {
		c.Reports.IntervalMinutes = 30
	}
	if c.Reports.HeatmapBlendPeso <= 0 {
		// peso do historico (prob_media) na nota final; o resto vai pra frequencia
		c.Reports.HeatmapBlendPeso = 0.5
	}

	return c
}
