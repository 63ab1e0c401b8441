package controllers

import (
	"context"
	"net/http"

	dbpkg "radar/db"
	"radar/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type sourceInput struct {
	Scope            string   `json:"scope"`
	ClientID         *int64   `json:"client_id"`
	Name             string   `json:"name"`
	URL              string   `json:"url"`
	Type             string   `json:"type"`
	Frequency        string   `json:"frequency"`
	Tags             []string `json:"tags"`
	Categories       []string `json:"categories"`
	IncludeKeywords  []string `json:"include_keywords"`
	ExcludeKeywords  []string `json:"exclude_keywords"`
	MinContentLength int      `json:"min_content_length"`
}

// GET /sources?scope=GLOBAL|CLIENT
func GetSources(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)

	query := db.Where("tenant_id = ?", tenant)
	if scope := c.Query("scope"); scope != "" {
		query = query.Where("scope = ?", scope)
	}

	var sources []models.Source
	if err := query.Order("name asc").Find(&sources).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"sources": sources})
}

// POST /sources
// Registrar uma URL que o tenant já tem atualiza a linha existente:
// imports repetidos da mesma configuração não podem duplicar fonte.
func CreateSource(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	var in sourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, "payload inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	src, inserted, err := upsertSource(db, tenant, in)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	code := http.StatusOK
	if inserted {
		code = http.StatusCreated
	}
	c.JSON(code, gin.H{"source": src, "inserted": inserted})
}

// POST /sources/import
// Corpo: {"sources": [...]}. Responde {inserted, updated}.
func ImportSources(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	var body struct {
		Sources []sourceInput `json:"sources"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, "payload inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	inserted, updated := 0, 0
	for _, in := range body.Sources {
		_, wasInsert, err := upsertSource(db, tenant, in)
		if err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		if wasInsert {
			inserted++
		} else {
			updated++
		}
	}
	RespondSuccess(c, gin.H{"inserted": inserted, "updated": updated})
}

func upsertSource(db *gorm.DB, tenant string, in sourceInput) (models.Source, bool, error) {
	src := models.Source{
		TenantID:             tenant,
		Scope:                in.Scope,
		ClientID:             in.ClientID,
		Name:                 in.Name,
		URL:                  in.URL,
		Type:                 in.Type,
		Tags:                 in.Tags,
		Categories:           in.Categories,
		IncludeKeywords:      in.IncludeKeywords,
		ExcludeKeywords:      in.ExcludeKeywords,
		MinContentLength:     in.MinContentLength,
		IsActive:             true,
		FetchIntervalMinutes: models.FrequencyToMinutes(in.Frequency),
	}
	if src.Scope == "" {
		src.Scope = models.SOURCE_SCOPE_GLOBAL
	}
	if src.Type == "" {
		src.Type = models.SOURCE_TYPE_RSS
	}
	if missing := src.MissingFields(); missing != "" {
		return src, false, errMissingField(missing)
	}

	var existing models.Source
	err := db.Where("tenant_id = ? AND url = ?", tenant, in.URL).First(&existing).Error
	if err == nil {
		updates := map[string]any{
			"scope":                  src.Scope,
			"client_id":              src.ClientID,
			"name":                   src.Name,
			"type":                   src.Type,
			"tags":                   src.Tags,
			"categories":             src.Categories,
			"include_keywords":       src.IncludeKeywords,
			"exclude_keywords":       src.ExcludeKeywords,
			"min_content_length":     src.MinContentLength,
			"fetch_interval_minutes": src.FetchIntervalMinutes,
		}
		if err := db.Model(&models.Source{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return src, false, err
		}
		db.Where("id = ?", existing.ID).First(&existing)
		return existing, false, nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return src, false, err
	}

	if err := db.Create(&src).Error; err != nil {
		return src, false, err
	}
	return src, true, nil
}

type missingFieldError string

func (e missingFieldError) Error() string { return "campo obrigatório: " + string(e) }

func errMissingField(name string) error { return missingFieldError(name) }

// POST /sources/:id/deactivate
func DeactivateSource(c *gin.Context) {
	setSourceActive(c, false)
}

// POST /sources/:id/reactivate
func ReactivateSource(c *gin.Context) {
	setSourceActive(c, true)
}

func setSourceActive(c *gin.Context, active bool) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	res := db.Model(&models.Source{}).
		Where("id = ? AND tenant_id = ?", id, tenant).
		Update("is_active", active)
	if res.Error != nil {
		RespondError(c, res.Error.Error(), http.StatusBadRequest)
		return
	}
	if res.RowsAffected == 0 {
		RespondError(c, "fonte não encontrada", http.StatusNotFound)
		return
	}
	RespondSuccess(c, gin.H{"id": id, "is_active": active})
}

// POST /sources/:id/fetch - coleta manual de uma fonte, fora do ciclo.
func FetchSource(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if collector == nil {
		RespondError(c, "collector indisponível", http.StatusServiceUnavailable)
		return
	}

	db := dbpkg.DBInstance(c)
	var src models.Source
	if err := db.Where("id = ? AND tenant_id = ?", id, tenant).First(&src).Error; err != nil {
		RespondError(c, "fonte não encontrada", http.StatusNotFound)
		return
	}

	res := collector.CollectSource(context.Background(), src)
	RespondSuccess(c, gin.H{"inserted": res.Inserted, "updated": res.Updated, "skipped": res.Skipped})
}

// POST /ingest/run - dispara um ciclo completo em background.
func RunIngestCycle(c *gin.Context) {
	if collector == nil {
		RespondError(c, "collector indisponível", http.StatusServiceUnavailable)
		return
	}
	go collector.RunCycle(context.Background())
	c.JSON(http.StatusAccepted, gin.H{"status": "ciclo agendado"})
}
