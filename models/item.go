package models

import "time"

/************************************************
/**** MARK: ITEM STATUS ****/
/************************************************/
const ITEM_STATUS_NEW = "NEW"
const ITEM_STATUS_ASSIGNED = "ASSIGNED"
const ITEM_STATUS_PINNED = "PINNED"
const ITEM_STATUS_ARCHIVED = "ARCHIVED"

/************************************************
/**** MARK: ITEM TIER ****/
/************************************************/
const ITEM_TIER_A = "A"
const ITEM_TIER_B = "B"
const ITEM_TIER_C = "C"

// ContentItem é um item canônico coletado de uma fonte.
// Único por (tenant_id, url): reingestão atualiza via upsert, nunca duplica.
// url e source_id são imutáveis depois de criados.
type ContentItem struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID    string     `gorm:"not null;index;unique_index:idx_items_tenant_url" json:"tenant_id"`
	SourceID    int64      `gorm:"not null;index" json:"source_id"`
	Title       string     `gorm:"not null" json:"title"`
	Snippet     string     `gorm:"type:text" json:"snippet"`
	URL         string     `gorm:"not null;unique_index:idx_items_tenant_url" json:"url"`
	TitleHash   string     `gorm:"index" json:"-"`
	PublishedAt *time.Time `gorm:"index" json:"published_at"`
	Score       float64    `gorm:"not null;default:0" json:"score"`
	Tier        string     `gorm:"not null;default:'C';index" json:"tier"`
	Status      string     `gorm:"not null;default:'NEW';index" json:"status"`
	Categories  StringList `gorm:"type:text" json:"categories"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func IsValidItemStatus(s string) bool {
	switch s {
	case ITEM_STATUS_NEW, ITEM_STATUS_ASSIGNED, ITEM_STATUS_PINNED, ITEM_STATUS_ARCHIVED:
		return true
	}
	return false
}

/************************************************
/**** MARK: ITEM ACTIONS ****/
/************************************************/
const ITEM_ACTION_ASSIGN = "ASSIGN"
const ITEM_ACTION_PIN = "PIN"
const ITEM_ACTION_ARCHIVE = "ARCHIVE"
const ITEM_ACTION_CREATE_POST = "CREATE_POST"

// ItemAction é trilha de auditoria das ações sobre um item (append-only).
type ItemAction struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID  string     `gorm:"not null;index" json:"tenant_id"`
	ItemID    int64      `gorm:"not null;index" json:"item_id"`
	ClientID  *int64     `json:"client_id"`
	Action    string     `gorm:"not null" json:"action"`
	CreatedAt *time.Time `json:"created_at"`
}
