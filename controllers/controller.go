package controllers

import (
	"net/http"
	"strconv"

	"radar/config"
	"radar/dedup"
	"radar/workers"

	"github.com/gin-gonic/gin"
)

var conf config.Configuration
var dedupEngine *dedup.Engine
var collector *workers.Collector

// SetConfigurations injeta os tunables lidos no boot.
func SetConfigurations(configuration config.Configuration) {
	conf = configuration
}

func SetDedupEngine(e *dedup.Engine) {
	dedupEngine = e
}

func SetCollector(c *workers.Collector) {
	collector = c
}

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(200, payload)
}

// TenantID lê o tenant resolvido pelo middleware. Sem tenant não tem query.
func TenantID(c *gin.Context) (string, bool) {
	v, ok := c.Get("tenant_id")
	if !ok {
		RespondError(c, "tenant não informado", http.StatusBadRequest)
		return "", false
	}
	tenant, _ := v.(string)
	if tenant == "" {
		RespondError(c, "tenant não informado", http.StatusBadRequest)
		return "", false
	}
	return tenant, true
}

func ParamID(c *gin.Context, name string) (int64, bool) {
	v := c.Param(name)
	if v == "" {
		RespondError(c, name+" é obrigatório", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, name+" inválido", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
