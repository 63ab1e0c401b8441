package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TenantResolver exige o header X-Tenant-Id e deixa o valor no contexto.
// Todo o escopo de dados depende dele; sem tenant a requisição não anda.
func TenantResolver() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := strings.TrimSpace(c.GetHeader("X-Tenant-Id"))
		if tenant == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "header X-Tenant-Id é obrigatório"})
			return
		}
		c.Set("tenant_id", tenant)
		c.Next()
	}
}
