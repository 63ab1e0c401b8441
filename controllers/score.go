package controllers

import (
	"encoding/json"
	"net/http"

	dbpkg "radar/db"
	"radar/models"
	"radar/scoring"
	"radar/textnorm"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type scoreRequest struct {
	ClientID int64 `json:"clientId"`
	Limit    int   `json:"limit"`
}

// POST /clipping/score
// Re-score sob demanda: roda o scorer puro sobre os itens recentes do tenant
// e regrava os ClippingMatch do cliente. Usado depois de editar o perfil,
// em vez de re-pontuar a cada edição.
func ScoreForClient(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ClientID <= 0 {
		RespondError(c, "clientId é obrigatório", http.StatusBadRequest)
		return
	}
	limit := clampInt(req.Limit, 1, 500)
	if req.Limit <= 0 {
		limit = 100
	}

	db := dbpkg.DBInstance(c)
	var client models.Client
	if err := db.Where("id = ? AND tenant_id = ?", req.ClientID, tenant).First(&client).Error; err != nil {
		RespondError(c, "perfil do cliente não encontrado", http.StatusNotFound)
		return
	}

	var items []models.ContentItem
	if err := db.Where("tenant_id = ?", tenant).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&items).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	profile := profileFromClient(client)
	opts := scoring.Options{
		Floor:   conf.Scoring.Floor,
		Matcher: textnorm.WordMatcher{},
	}

	scored, suggested := 0, 0
	for _, item := range items {
		res := scoring.Score(scoring.Item{
			Title:       item.Title,
			Snippet:     item.Snippet,
			Tags:        item.Tags,
			PublishedAt: item.PublishedAt,
		}, profile, opts)

		if err := upsertMatch(db, tenant, item.ID, client.ID, res); err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		scored++
		if res.Score >= conf.Scoring.SuggestionThreshold {
			suggested++
		}
	}

	RespondSuccess(c, gin.H{"scored": scored, "suggested": suggested})
}

func profileFromClient(client models.Client) scoring.Profile {
	return scoring.Profile{
		Keywords:            client.Keywords,
		Pillars:             client.Pillars,
		EnableCalendarTotal: client.EnableCalendarTotal,
		CalendarWeight:      client.CalendarWeight,
		EnableTrends:        client.EnableTrends,
		TrendWeight:         client.TrendWeight,
		TrendSources:        client.TrendSources,
	}
}

func upsertMatch(db *gorm.DB, tenant string, itemID, clientID int64, res scoring.Result) error {
	factors, _ := json.Marshal(res.Factors)

	updates := map[string]any{
		"score":             res.Score,
		"matched_keywords":  models.StringList(res.MatchedKeywords),
		"relevance_factors": string(factors),
		"suggested":         res.Suggested,
	}

	var existing models.ClippingMatch
	err := db.Where("tenant_id = ? AND item_id = ? AND client_id = ?", tenant, itemID, clientID).
		First(&existing).Error
	if err == nil {
		return db.Model(&models.ClippingMatch{}).Where("id = ?", existing.ID).Updates(updates).Error
	}
	if !gorm.IsRecordNotFoundError(err) {
		return err
	}

	match := models.ClippingMatch{
		TenantID:         tenant,
		ItemID:           itemID,
		ClientID:         clientID,
		Score:            res.Score,
		MatchedKeywords:  models.StringList(res.MatchedKeywords),
		RelevanceFactors: string(factors),
		Suggested:        res.Suggested,
	}
	return db.Create(&match).Error
}
