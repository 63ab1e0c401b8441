package controllers

import (
	"net/http"

	dbpkg "radar/db"
	"radar/heatmap"
	"radar/models"

	"github.com/gin-gonic/gin"
)

// GET /editais/reports/heatmap - contagens banca x status.
func GetHeatmap(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)

	rows, err := heatmap.CountsByBancaStatus(db, tenant)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"rows": rows})
}

// GET /editais/reports/heatmap-probabilidade - linhas derivadas do último build.
func GetHeatmapProbabilidade(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)

	var rows []models.ProbabilityRow
	if err := db.Where("tenant_id = ?", tenant).
		Order("prob_final desc").
		Find(&rows).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"rows": rows})
}

// POST /editais/reports/heatmap/rebuild - regeneração manual, além do job agendado.
func RebuildHeatmap(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)

	b := heatmap.Builder{BlendPeso: conf.Reports.HeatmapBlendPeso}
	n, err := b.Rebuild(db, tenant)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"rows": n})
}
