package heatmap

import (
	"time"

	"radar/models"

	"github.com/jinzhu/gorm"
)

// Builder regenera as linhas de probabilidade banca x subtópico a partir
// do histórico de ocorrências. BlendPeso é o peso do histórico (prob_media)
// na nota final; o complemento vai pra frequência do período.
type Builder struct {
	BlendPeso float64
}

type aggKey struct {
	banca     string
	subtopico string
}

type agg struct {
	total   int64
	pesoSum float64
	pesoN   int64
}

// Rebuild apaga e regrava todas as ProbabilityRow do tenant numa transação.
// Nunca faz patch parcial: ou o conjunto inteiro novo, ou nada.
func (b Builder) Rebuild(db *gorm.DB, tenantID string) (int, error) {
	blend := b.BlendPeso
	if blend <= 0 || blend > 1 {
		blend = 0.5
	}

	var occurrences []models.QuestionOccurrence
	if err := db.Where("tenant_id = ?", tenantID).Find(&occurrences).Error; err != nil {
		return 0, err
	}

	perPair := map[aggKey]*agg{}
	perBanca := map[string]int64{}
	for _, occ := range occurrences {
		key := aggKey{banca: occ.Banca, subtopico: occ.Subtopico}
		a, ok := perPair[key]
		if !ok {
			a = &agg{}
			perPair[key] = a
		}
		a.total++
		perBanca[occ.Banca]++
		if occ.Peso != nil {
			a.pesoSum += *occ.Peso
			a.pesoN++
		}
	}

	now := time.Now()
	rows := make([]models.ProbabilityRow, 0, len(perPair))
	for key, a := range perPair {
		freq := 0.0
		if total := perBanca[key.banca]; total > 0 {
			freq = float64(a.total) / float64(total)
		}

		row := models.ProbabilityRow{
			TenantID:      tenantID,
			Banca:         key.banca,
			Subtopico:     key.subtopico,
			TotalQuestoes: a.total,
			ProbFreq:      freq,
			ProbFinal:     freq,
			GeneratedAt:   &now,
		}
		if a.pesoN > 0 {
			media := a.pesoSum / float64(a.pesoN)
			row.ProbMedia = &media
			row.ProbFinal = blend*media + (1-blend)*freq
		}
		rows = append(rows, row)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}
	if err := tx.Where("tenant_id = ?", tenantID).Delete(&models.ProbabilityRow{}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}
	for i := range rows {
		if err := tx.Create(&rows[i]).Error; err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

// StatusCount é uma célula do heatmap simples (banca x status).
type StatusCount struct {
	Banca  string `json:"banca"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func CountsByBancaStatus(db *gorm.DB, tenantID string) ([]StatusCount, error) {
	var out []StatusCount
	err := db.Model(&models.QuestionOccurrence{}).
		Select("banca, status, count(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("banca, status").
		Order("banca asc, status asc").
		Scan(&out).Error
	return out, err
}
