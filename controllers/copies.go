package controllers

import (
	"net/http"

	dbpkg "radar/db"
	"radar/models"

	"github.com/gin-gonic/gin"
)

type copyInput struct {
	ClientID *int64 `json:"client_id"`
	Text     string `json:"text"`
}

// POST /copies/validate
// Roda o motor anti-repetição. approve já anexa o texto ao corpus do tenant.
func ValidateCopy(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	var in copyInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Text == "" {
		RespondError(c, "campo obrigatório: text", http.StatusBadRequest)
		return
	}
	if dedupEngine == nil {
		RespondError(c, "motor anti-repetição indisponível", http.StatusServiceUnavailable)
		return
	}

	denylist := tenantDenylist(c, tenant, in.ClientID)
	res, err := dedupEngine.Validate(tenant, in.ClientID, in.Text, denylist)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, res)
}

// POST /copies/approve
// Aprovação manual depois de um review: entra no corpus pra não re-flagar.
func ApproveCopy(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	var in copyInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Text == "" {
		RespondError(c, "campo obrigatório: text", http.StatusBadRequest)
		return
	}
	if dedupEngine == nil {
		RespondError(c, "motor anti-repetição indisponível", http.StatusServiceUnavailable)
		return
	}

	if err := dedupEngine.Approve(tenant, in.ClientID, in.Text); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"approved": true})
}

// tenantDenylist junta a denylist do cliente alvo (se houver) com as
// denylists de todos os clientes do tenant quando a validação é geral.
func tenantDenylist(c *gin.Context, tenant string, clientID *int64) []string {
	db := dbpkg.DBInstance(c)

	query := db.Where("tenant_id = ?", tenant)
	if clientID != nil {
		query = query.Where("id = ?", *clientID)
	}

	var clients []models.Client
	if err := query.Find(&clients).Error; err != nil {
		return nil
	}

	seen := map[string]bool{}
	var out []string
	for _, cl := range clients {
		for _, term := range cl.BrandDenylist {
			if term == "" || seen[term] {
				continue
			}
			seen[term] = true
			out = append(out, term)
		}
	}
	return out
}
