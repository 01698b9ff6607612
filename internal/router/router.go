package router

import (
	"time"

	"stockroom/internal/config"
	"stockroom/internal/handler"
	"stockroom/internal/middleware"
	"stockroom/internal/repository"
	"stockroom/internal/service"
	"stockroom/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	itemRepo := repository.NewItemRepository(db)
	eventRepo := repository.NewStockEventRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	inventorySvc := service.NewInventoryService(itemRepo, eventRepo, dispatcher, cfg.LowStockThreshold)
	importSvc := service.NewImportService(itemRepo, cfg.ImportChunkSize, cfg.LowStockThreshold)
	statsSvc := service.NewStatsService(itemRepo, eventRepo, rdb,
		time.Duration(cfg.StatsCacheTTLSeconds)*time.Second, cfg.LowStockThreshold)

	// ── Handlers ─────────────────────────────────────────────────────────────
	itemsH := handler.NewItemsHandler(inventorySvc)
	allocationsH := handler.NewAllocationsHandler(inventorySvc)
	importsH := handler.NewImportsHandler(importSvc, cfg.MaxUploadBytes())
	statsH := handler.NewStatsHandler(statsSvc)
	alertsH := handler.NewAlertsHandler(rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		v1.POST("/bulk-import", importsH.BulkImport)
		v1.GET("/bulk-import/template", importsH.DownloadTemplate)

		v1.GET("/items", itemsH.List)
		v1.GET("/items/:id", itemsH.GetByID)
		v1.GET("/items/:id/history", itemsH.History)
		v1.POST("/items/:id/update-quantity", itemsH.UpdateQuantity)

		v1.POST("/allocate", allocationsH.Allocate)
		v1.POST("/deallocate", allocationsH.Deallocate)

		v1.GET("/stats", statsH.Get)
		v1.GET("/alerts", alertsH.Recent)
	}

	return r
}
