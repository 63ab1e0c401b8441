package models

import "time"

// Client é um cliente gerenciado pelo tenant. O perfil de clipping
// (keywords, pilares, required keywords, pesos de calendário/tendência)
// mora junto do cliente e é entrada read-only do scorer.
type Client struct {
	ID       int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID string `gorm:"not null;index" json:"tenant_id"`
	Name     string `gorm:"not null" json:"name" form:"name"`

	Keywords         StringList `gorm:"type:text" json:"keywords"`
	Pillars          StringList `gorm:"type:text" json:"pillars"`
	RequiredKeywords StringList `gorm:"type:text" json:"required_keywords"`
	BrandDenylist    StringList `gorm:"type:text" json:"brand_denylist"`

	EnableCalendarTotal bool `gorm:"not null;default:false" json:"enable_calendar_total"`
	CalendarWeight      int  `gorm:"not null;default:50" json:"calendar_weight"` // 0..100
	EnableTrends        bool `gorm:"not null;default:false" json:"enable_trends"`
	TrendWeight         int  `gorm:"not null;default:50" json:"trend_weight"` // 0..100

	TrendSources StringList `gorm:"type:text" json:"trend_sources"`

	VisibilityThreshold float64 `gorm:"not null;default:0" json:"visibility_threshold"`

	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// ClippingMatch é o resultado persistido do score de um item para um cliente.
// Reescrito a cada re-score; alimenta o campo clients[] do /radar.
type ClippingMatch struct {
	ID               int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID         string     `gorm:"not null;index;unique_index:idx_matches_tenant_item_client" json:"tenant_id"`
	ItemID           int64      `gorm:"not null;unique_index:idx_matches_tenant_item_client" json:"item_id"`
	ClientID         int64      `gorm:"not null;unique_index:idx_matches_tenant_item_client;index" json:"client_id"`
	Score            float64    `gorm:"not null;default:0" json:"score"` // 0..1
	MatchedKeywords  StringList `gorm:"type:text" json:"matched_keywords"`
	RelevanceFactors string     `gorm:"type:text" json:"relevance_factors"` // JSON com os fatores do blend
	Suggested        string     `gorm:"not null;default:'ignore'" json:"suggested"`
	CreatedAt        *time.Time `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}
