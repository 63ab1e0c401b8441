package models

import "time"

// QuestionOccurrence é uma ocorrência histórica de questão de edital:
// a banca cobrou o subtópico num determinado ano, com peso opcional.
// É a matéria-prima do heatmap de probabilidade.
type QuestionOccurrence struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID  string     `gorm:"not null;index" json:"tenant_id"`
	Banca     string     `gorm:"not null;index" json:"banca"`
	Subtopico string     `gorm:"not null;index" json:"subtopico"`
	Ano       int        `gorm:"not null" json:"ano"`
	Peso      *float64   `json:"peso"`
	Status    string     `gorm:"not null;default:'PREVISTO'" json:"status"`
	CreatedAt *time.Time `json:"created_at"`
}

// ProbabilityRow é derivada: regenerada inteira a cada build do heatmap,
// nunca atualizada parcialmente.
type ProbabilityRow struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantID      string     `gorm:"not null;index" json:"tenant_id"`
	Banca         string     `gorm:"not null" json:"banca"`
	Subtopico     string     `gorm:"not null" json:"subtopico"`
	TotalQuestoes int64      `gorm:"not null" json:"total_questoes"`
	ProbFreq      float64    `gorm:"not null" json:"prob_freq"`
	ProbMedia     *float64   `json:"prob_media"`
	ProbFinal     float64    `gorm:"not null" json:"prob_final"`
	GeneratedAt   *time.Time `json:"generated_at"`
}
