package router

import (
	"time"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/config"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/handler"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/middleware"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/repository"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/service"
	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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
	locationRepo := repository.NewLocationRepository(db)
	boxRepo := repository.NewBoxRepository(db)
	qrRepo := repository.NewQrCodeRepository(db)
	printJobRepo := repository.NewPrintJobRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	locationSvc := service.NewLocationService(locationRepo)
	boxSvc := service.NewBoxService(boxRepo, locationRepo, qrRepo, rdb)
	qrSvc := service.NewQrCodeService(qrRepo, boxRepo, rdb)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)
	printJobSvc := service.NewPrintJobService(printJobRepo, qrRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	locationsH := handler.NewLocationsHandler(locationSvc)
	boxesH := handler.NewBoxesHandler(boxSvc)
	qrCodesH := handler.NewQrCodesHandler(qrSvc, printJobSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes — every operation is scoped to the caller's workspace
	v1 := r.Group("/v1", middleware.WorkspaceAuth(cfg.JWTSecret))
	{
		locations := v1.Group("/locations")
		{
			locations.POST("", locationsH.Create)
			locations.GET("", locationsH.List)
			locations.GET("/:id", locationsH.Get)
			locations.PATCH("/:id", locationsH.Rename)
			locations.DELETE("/:id", locationsH.Delete)
		}

		boxes := v1.Group("/boxes")
		{
			boxes.POST("", boxesH.Create)
			boxes.GET("", boxesH.Search)
			boxes.GET("/duplicate-check", boxesH.DuplicateCheck)
			boxes.GET("/:id", boxesH.Get)
			boxes.PATCH("/:id", boxesH.Update)
			boxes.DELETE("/:id", boxesH.Delete)
		}

		qrcodes := v1.Group("/qrcodes")
		{
			qrcodes.POST("/batch", qrCodesH.GenerateBatch)
			qrcodes.GET("", qrCodesH.List)
			qrcodes.GET("/resolve/:token", qrCodesH.Resolve)
			qrcodes.POST("/:id/assign", qrCodesH.Assign)
			qrcodes.POST("/:id/release", qrCodesH.Release)
			qrcodes.POST("/print-jobs", qrCodesH.CreatePrintJob)
			qrcodes.GET("/print-jobs/:id", qrCodesH.GetPrintJob)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
