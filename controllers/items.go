package controllers

import (
	"net/http"

	dbpkg "radar/db"
	"radar/models"
	"radar/scoring"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type radarItem struct {
	models.ContentItem
	Clients []radarClientRef `json:"clients"`
}

type radarClientRef struct {
	ClientID int64   `json:"client_id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
}

// GET /radar
// Filtros: status, tier, clientId, limit. Com clientId a visão é a do
// cliente: required keywords e visibility threshold escondem item que não
// passa, não importa o score global.
func GetRadar(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)

	limit := clampInt(queryInt(c, "limit", 50), 1, 200)
	clientIDStr := c.Query("clientId")

	// Com cliente os gates cortam depois da query: busca além do limit
	// pra não devolver página curta com item elegível mais fundo no ranking.
	queryLimit := limit
	if clientIDStr != "" {
		queryLimit = 500
	}

	query := db.Where("tenant_id = ?", tenant)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if tier := c.Query("tier"); tier != "" {
		query = query.Where("tier = ?", tier)
	}

	var items []models.ContentItem
	if err := query.Order("score desc, id desc").Limit(queryLimit).Find(&items).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if clientIDStr != "" {
		var client models.Client
		if err := db.Where("id = ? AND tenant_id = ?", clientIDStr, tenant).First(&client).Error; err != nil {
			RespondError(c, "cliente não encontrado", http.StatusNotFound)
			return
		}
		items = filterByRequiredKeywords(items, client)
		visible, err := filterByVisibility(db, tenant, client, items)
		if err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		if len(visible) > limit {
			visible = visible[:limit]
		}
		items = visible
	}

	out, err := attachClients(db, tenant, items)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"items": out})
}

func filterByRequiredKeywords(items []models.ContentItem, client models.Client) []models.ContentItem {
	if len(client.RequiredKeywords) == 0 {
		return items
	}
	visible := items[:0]
	for _, item := range items {
		if scoring.MatchesRequired(item.Title, item.Snippet, item.Tags, client.RequiredKeywords) {
			visible = append(visible, item)
		}
	}
	return visible
}

// filterByVisibility esconde do cliente todo item cujo match score fica
// abaixo do visibility_threshold do perfil. Item ainda sem match conta como
// score zero: só aparece quando o threshold é zero.
func filterByVisibility(db *gorm.DB, tenant string, client models.Client, items []models.ContentItem) ([]models.ContentItem, error) {
	if client.VisibilityThreshold <= 0 || len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	var matches []models.ClippingMatch
	err := db.Where("tenant_id = ? AND client_id = ? AND item_id in (?)", tenant, client.ID, ids).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	scoreByItem := make(map[int64]float64, len(matches))
	for _, m := range matches {
		scoreByItem[m.ItemID] = m.Score
	}

	visible := items[:0]
	for _, item := range items {
		if scoreByItem[item.ID] >= client.VisibilityThreshold {
			visible = append(visible, item)
		}
	}
	return visible, nil
}

// attachClients popula clients[] com os matches acima do threshold de sugestão.
func attachClients(db *gorm.DB, tenant string, items []models.ContentItem) ([]radarItem, error) {
	out := make([]radarItem, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	var matches []struct {
		ItemID   int64
		ClientID int64
		Score    float64
		Name     string
	}
	err := db.Table("clipping_matches").
		Select("clipping_matches.item_id, clipping_matches.client_id, clipping_matches.score, clients.name").
		Joins("join clients on clients.id = clipping_matches.client_id").
		Where("clipping_matches.tenant_id = ? AND clipping_matches.item_id in (?) AND clipping_matches.score >= ?",
			tenant, ids, conf.Scoring.SuggestionThreshold).
		Order("clipping_matches.score desc").
		Scan(&matches).Error
	if err != nil {
		return nil, err
	}

	byItem := map[int64][]radarClientRef{}
	for _, m := range matches {
		byItem[m.ItemID] = append(byItem[m.ItemID], radarClientRef{
			ClientID: m.ClientID,
			Name:     m.Name,
			Score:    m.Score,
		})
	}
	for _, it := range items {
		out = append(out, radarItem{ContentItem: it, Clients: byItem[it.ID]})
	}
	return out, nil
}

// GET /clipping/items/:id - detalhe + histórico de ações + matches.
func GetItemByID(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)

	var item models.ContentItem
	if err := db.Where("id = ? AND tenant_id = ?", id, tenant).First(&item).Error; err != nil {
		RespondError(c, "item não encontrado", http.StatusNotFound)
		return
	}

	var actions []models.ItemAction
	db.Where("item_id = ? AND tenant_id = ?", id, tenant).Order("id asc").Find(&actions)

	var matches []models.ClippingMatch
	db.Where("item_id = ? AND tenant_id = ?", id, tenant).Order("score desc").Find(&matches)

	RespondSuccess(c, gin.H{"item": item, "actions": actions, "matches": matches})
}

type actionInput struct {
	ClientID *int64 `json:"client_id"`
}

// POST /clipping/items/:id/assign
func AssignItem(c *gin.Context) {
	applyItemAction(c, models.ITEM_ACTION_ASSIGN, models.ITEM_STATUS_ASSIGNED)
}

// POST /clipping/items/:id/pin
func PinItem(c *gin.Context) {
	applyItemAction(c, models.ITEM_ACTION_PIN, models.ITEM_STATUS_PINNED)
}

// POST /clipping/items/:id/archive
func ArchiveItem(c *gin.Context) {
	applyItemAction(c, models.ITEM_ACTION_ARCHIVE, models.ITEM_STATUS_ARCHIVED)
}

// POST /clipping/items/:id/create-post
// Gera a ação de post sem mexer no status: o item continua visível no fluxo.
func CreatePostFromItem(c *gin.Context) {
	applyItemAction(c, models.ITEM_ACTION_CREATE_POST, "")
}

// applyItemAction muda o status (quando a ação tem status alvo) e grava a
// auditoria. Repetir a ação com o item já no estado alvo é no-op idempotente.
func applyItemAction(c *gin.Context, action, targetStatus string) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var in actionInput
	_ = c.ShouldBindJSON(&in)

	db := dbpkg.DBInstance(c)
	var item models.ContentItem
	if err := db.Where("id = ? AND tenant_id = ?", id, tenant).First(&item).Error; err != nil {
		RespondError(c, "item não encontrado", http.StatusNotFound)
		return
	}

	if targetStatus != "" && item.Status == targetStatus {
		RespondSuccess(c, gin.H{"item": item, "changed": false})
		return
	}

	if targetStatus != "" {
		if err := db.Model(&models.ContentItem{}).
			Where("id = ? AND tenant_id = ?", id, tenant).
			Update("status", targetStatus).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		item.Status = targetStatus
	}

	audit := models.ItemAction{
		TenantID: tenant,
		ItemID:   id,
		ClientID: in.ClientID,
		Action:   action,
	}
	if err := db.Create(&audit).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"item": item, "changed": true})
}

type feedbackInput struct {
	ClientID *int64 `json:"client_id"`
	Kind     string `json:"kind"`
}

// POST /clipping/items/:id/feedback
// Uma linha por (item, cliente); reenvio troca o kind. Feedback global
// "irrelevant" arquiva o item na hora: ninguém mais precisa vê-lo.
func RecordFeedback(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var in feedbackInput
	if err := c.ShouldBindJSON(&in); err != nil || !models.IsValidFeedbackKind(in.Kind) {
		RespondError(c, "kind inválido (relevant|irrelevant|wrong_client)", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	var item models.ContentItem
	if err := db.Where("id = ? AND tenant_id = ?", id, tenant).First(&item).Error; err != nil {
		RespondError(c, "item não encontrado", http.StatusNotFound)
		return
	}

	query := db.Where("tenant_id = ? AND item_id = ?", tenant, id)
	if in.ClientID != nil {
		query = query.Where("client_id = ?", *in.ClientID)
	} else {
		query = query.Where("client_id IS NULL")
	}

	var existing models.FeedbackEvent
	err := query.First(&existing).Error
	switch {
	case err == nil:
		if err := db.Model(&models.FeedbackEvent{}).Where("id = ?", existing.ID).Update("kind", in.Kind).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	case gorm.IsRecordNotFoundError(err):
		fb := models.FeedbackEvent{TenantID: tenant, ItemID: id, ClientID: in.ClientID, Kind: in.Kind}
		if err := db.Create(&fb).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	default:
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	archived := false
	if in.ClientID == nil && in.Kind == models.FEEDBACK_IRRELEVANT && item.Status != models.ITEM_STATUS_ARCHIVED {
		if err := db.Model(&models.ContentItem{}).
			Where("id = ? AND tenant_id = ?", id, tenant).
			Update("status", models.ITEM_STATUS_ARCHIVED).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		archived = true
	}

	RespondSuccess(c, gin.H{"recorded": true, "archived": archived})
}
