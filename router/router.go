package router

import (
	"radar/config"
	"radar/controllers"
	"radar/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Initialize wires all routes and middlewares.
// Todas as rotas de dados ficam atrás do TenantResolver: tenant_id é
// predicado obrigatório em qualquer leitura/escrita.
func Initialize(r *gin.Engine, cfg config.Configuration, log *zap.Logger) {
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(Logger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.TenantResolver())

	// Radar / clipping
	api.GET("/radar", controllers.GetRadar)
	api.GET("/clipping/items/:id", controllers.GetItemByID)
	api.POST("/clipping/items/:id/assign", controllers.AssignItem)
	api.POST("/clipping/items/:id/pin", controllers.PinItem)
	api.POST("/clipping/items/:id/archive", controllers.ArchiveItem)
	api.POST("/clipping/items/:id/create-post", controllers.CreatePostFromItem)
	api.POST("/clipping/items/:id/feedback", controllers.RecordFeedback)
	api.POST("/clipping/score", controllers.ScoreForClient)
	api.GET("/clipping/quality", controllers.GetClippingQuality)

	// Fontes
	api.GET("/sources", controllers.GetSources)
	api.POST("/sources", controllers.CreateSource)
	api.POST("/sources/import", controllers.ImportSources)
	api.POST("/sources/:id/deactivate", controllers.DeactivateSource)
	api.POST("/sources/:id/reactivate", controllers.ReactivateSource)
	api.POST("/sources/:id/fetch", controllers.FetchSource)
	api.POST("/ingest/run", controllers.RunIngestCycle)

	// Clientes e perfil de clipping
	api.GET("/clients", controllers.GetClients)
	api.POST("/clients", controllers.CreateClient)
	api.GET("/clients/:id/clipping-profile", controllers.GetClippingProfile)
	api.PATCH("/clients/:id/clipping-profile", controllers.PatchClippingProfile)

	// Anti-repetição
	api.POST("/copies/validate", controllers.ValidateCopy)
	api.POST("/copies/approve", controllers.ApproveCopy)

	// Relatórios de editais
	api.GET("/editais/reports/heatmap", controllers.GetHeatmap)
	api.GET("/editais/reports/heatmap-probabilidade", controllers.GetHeatmapProbabilidade)
	api.POST("/editais/reports/heatmap/rebuild", controllers.RebuildHeatmap)

	log.Info("rotas inicializadas")
}
