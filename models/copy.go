package models

import "time"

// CopyEntry é uma entrada do corpus anti-repetição: textos já aprovados
// do tenant, contra os quais novos candidatos são comparados.
// normalized guarda a forma normalizada pra não recalcular a cada validação.
type CopyEntry struct {
	ID         int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID   string     `gorm:"not null;index" json:"tenant_id"`
	ClientID   *int64     `gorm:"index" json:"client_id"`
	Output     string     `gorm:"type:text;not null" json:"output"`
	Normalized string     `gorm:"type:text" json:"-"`
	CreatedAt  *time.Time `gorm:"index" json:"created_at"`
}

// DuplicateMatch é um registro opcional de auditoria de uma validação
// que encontrou similaridade relevante.
type DuplicateMatch struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID      string     `gorm:"not null;index" json:"tenant_id"`
	CandidateText string     `gorm:"type:text" json:"candidate_text"`
	MatchedCopyID int64      `gorm:"not null" json:"matched_item_id"`
	Similarity    float64    `gorm:"not null" json:"similarity"`
	CreatedAt     *time.Time `json:"created_at"`
}
