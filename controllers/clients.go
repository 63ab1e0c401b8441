package controllers

import (
	"encoding/json"
	"net/http"

	dbpkg "radar/db"
	"radar/models"

	"github.com/gin-gonic/gin"
)

// GET /clients
func GetClients(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)

	var clients []models.Client
	if err := db.Where("tenant_id = ?", tenant).Order("name asc").Find(&clients).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"clients": clients})
}

// POST /clients
func CreateClient(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		RespondError(c, "payload inválido", http.StatusBadRequest)
		return
	}
	if client.Name == "" {
		RespondError(c, "campo obrigatório: name", http.StatusBadRequest)
		return
	}
	client.ID = 0
	client.TenantID = tenant

	db := dbpkg.DBInstance(c)
	if err := db.Create(&client).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": client})
}

type clippingProfile struct {
	Keywords            models.StringList `json:"keywords"`
	Pillars             models.StringList `json:"pillars"`
	RequiredKeywords    models.StringList `json:"required_keywords"`
	BrandDenylist       models.StringList `json:"brand_denylist"`
	EnableCalendarTotal bool              `json:"enable_calendar_total"`
	CalendarWeight      int               `json:"calendar_weight"`
	EnableTrends        bool              `json:"enable_trends"`
	TrendWeight         int               `json:"trend_weight"`
	TrendSources        models.StringList `json:"trend_sources"`
	VisibilityThreshold float64           `json:"visibility_threshold"`
}

// GET /clients/:id/clipping-profile
func GetClippingProfile(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)

	var client models.Client
	if err := db.Where("id = ? AND tenant_id = ?", id, tenant).First(&client).Error; err != nil {
		RespondError(c, "cliente não encontrado", http.StatusNotFound)
		return
	}

	RespondSuccess(c, gin.H{"client_id": client.ID, "profile": clippingProfile{
		Keywords:            client.Keywords,
		Pillars:             client.Pillars,
		RequiredKeywords:    client.RequiredKeywords,
		BrandDenylist:       client.BrandDenylist,
		EnableCalendarTotal: client.EnableCalendarTotal,
		CalendarWeight:      client.CalendarWeight,
		EnableTrends:        client.EnableTrends,
		TrendWeight:         client.TrendWeight,
		TrendSources:        client.TrendSources,
		VisibilityThreshold: client.VisibilityThreshold,
	}})
}

// PATCH /clients/:id/clipping-profile
// Só os campos presentes no corpo são alterados.
func PatchClippingProfile(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, "payload inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	var client models.Client
	if err := db.Where("id = ? AND tenant_id = ?", id, tenant).First(&client).Error; err != nil {
		RespondError(c, "cliente não encontrado", http.StatusNotFound)
		return
	}

	updates := map[string]any{}
	if err := collectProfileUpdates(body, updates); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if len(updates) == 0 {
		RespondSuccess(c, gin.H{"updated": false})
		return
	}

	if err := db.Model(&models.Client{}).Where("id = ?", client.ID).Updates(updates).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"updated": true})
}

func collectProfileUpdates(body map[string]json.RawMessage, updates map[string]any) error {
	listFields := map[string]string{
		"keywords":          "keywords",
		"pillars":           "pillars",
		"required_keywords": "required_keywords",
		"brand_denylist":    "brand_denylist",
		"trend_sources":     "trend_sources",
	}
	for jsonKey, column := range listFields {
		raw, ok := body[jsonKey]
		if !ok {
			continue
		}
		var list models.StringList
		if err := json.Unmarshal(raw, &list); err != nil {
			return errInvalidField(jsonKey)
		}
		updates[column] = list
	}

	boolFields := map[string]string{
		"enable_calendar_total": "enable_calendar_total",
		"enable_trends":         "enable_trends",
	}
	for jsonKey, column := range boolFields {
		raw, ok := body[jsonKey]
		if !ok {
			continue
		}
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return errInvalidField(jsonKey)
		}
		updates[column] = v
	}

	intFields := map[string]string{
		"calendar_weight": "calendar_weight",
		"trend_weight":    "trend_weight",
	}
	for jsonKey, column := range intFields {
		raw, ok := body[jsonKey]
		if !ok {
			continue
		}
		var v int
		if err := json.Unmarshal(raw, &v); err != nil || v < 0 || v > 100 {
			return errInvalidField(jsonKey)
		}
		updates[column] = v
	}

	if raw, ok := body["visibility_threshold"]; ok {
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil || v < 0 || v > 1 {
			return errInvalidField("visibility_threshold")
		}
		updates["visibility_threshold"] = v
	}

	return nil
}

type invalidFieldError string

func (e invalidFieldError) Error() string { return "campo inválido: " + string(e) }

func errInvalidField(name string) error { return invalidFieldError(name) }
