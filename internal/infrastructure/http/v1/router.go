// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"restock/internal/core/busday"
	"restock/internal/domain/catalogs/branch"
	"restock/internal/domain/catalogs/category"
	"restock/internal/domain/catalogs/department"
	"restock/internal/domain/catalogs/product"
	"restock/internal/domain/documents/instock"
	"restock/internal/domain/documents/returnorder"
	"restock/internal/domain/documents/stockorder"
	"restock/internal/domain/reports"
	"restock/internal/infrastructure/http/v1/handlers"
	"restock/internal/infrastructure/http/v1/middleware"
	"restock/internal/infrastructure/sequence"
	"restock/internal/infrastructure/storage/postgres"
	"restock/internal/infrastructure/storage/postgres/catalog_repo"
	"restock/internal/infrastructure/storage/postgres/document_repo"
	"restock/internal/infrastructure/storage/postgres/report_repo"
	"restock/pkg/logger"
)

// RouterConfig holds everything the router needs to assemble the API.
type RouterConfig struct {
	// Pool is the database connection pool (health checks, allocator).
	Pool *postgres.Pool

	// TxManager coordinates transactions for all repositories.
	TxManager *postgres.TxManager

	// Clock owns the business timezone.
	Clock busday.Clock

	// Logger for request logging.
	Logger *logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Shared infrastructure
	allocator := sequence.New(cfg.Pool)
	correctionStore, err := postgres.NewCorrectionStore(cfg.TxManager)
	if err != nil {
		return nil, err
	}

	// Catalog repositories are shared between catalog endpoints and the
	// document services that resolve branches.
	branchRepo := catalog_repo.NewBranchRepo(cfg.TxManager)
	departmentRepo := catalog_repo.NewDepartmentRepo(cfg.TxManager)
	categoryRepo := catalog_repo.NewCategoryRepo(cfg.TxManager)
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)

	baseHandler := handlers.NewBaseHandler()

	// API v1
	api := router.Group("/api/v1")
	{
		// --- CATALOGS ---
		catalogs := api.Group("/catalogs")
		{
			branchService := branch.NewService(branchRepo, cfg.TxManager)
			branchHandler := handlers.NewBranchHandler(baseHandler, branchService)
			registerCatalog(catalogs.Group("/branches"), branchHandler)

			departmentService := department.NewService(departmentRepo, cfg.TxManager)
			departmentHandler := handlers.NewDepartmentHandler(baseHandler, departmentService)
			registerCatalog(catalogs.Group("/departments"), departmentHandler)

			categoryService := category.NewService(categoryRepo, cfg.TxManager)
			categoryHandler := handlers.NewCategoryHandler(baseHandler, categoryService)
			registerCatalog(catalogs.Group("/categories"), categoryHandler)

			productService := product.NewService(productRepo, cfg.TxManager)
			productHandler := handlers.NewProductHandler(baseHandler, productService)
			registerCatalog(catalogs.Group("/products"), productHandler)
		}

		// --- DOCUMENTS ---
		documents := api.Group("/documents")
		{
			orderRepo := document_repo.NewStockOrderRepo(cfg.TxManager)
			orderService := stockorder.NewService(
				orderRepo, branchRepo, correctionStore, allocator, cfg.Clock, cfg.TxManager,
			)
			orderHandler := handlers.NewStockOrderHandler(baseHandler, orderService, cfg.Clock)

			orders := documents.Group("/stock-orders")
			orders.GET("", orderHandler.List)
			orders.POST("", orderHandler.Create)
			orders.GET("/:id", orderHandler.Get)
			orders.GET("/by-number/:number", orderHandler.GetByNumber)
			orders.POST("/:id/advance", orderHandler.AdvanceStage)
			orders.GET("/:id/corrections", orderHandler.Corrections)

			inStockRepo := document_repo.NewInStockRepo(cfg.TxManager)
			inStockService := instock.NewService(inStockRepo, branchRepo, allocator, cfg.Clock, cfg.TxManager)
			inStockHandler := handlers.NewInStockHandler(baseHandler, inStockService)
			registerDocument(documents.Group("/instock"), inStockHandler)

			returnRepo := document_repo.NewReturnOrderRepo(cfg.TxManager)
			returnService := returnorder.NewService(returnRepo, branchRepo, allocator, cfg.Clock, cfg.TxManager)
			returnHandler := handlers.NewReturnOrderHandler(baseHandler, returnService)
			registerDocument(documents.Group("/returns"), returnHandler)
		}

		// --- REPORTS ---
		reportsGroup := api.Group("/reports")
		{
			reportSource := report_repo.NewRepo(cfg.TxManager)
			reportService := reports.NewService(reportSource, cfg.Clock, cfg.TxManager)
			reportHandler := handlers.NewReportsHandler(baseHandler, reportService)

			reportsGroup.GET("/product-fulfillment", reportHandler.ProductFulfillment)
			reportsGroup.GET("/branch-summary", reportHandler.BranchSummary)
			reportsGroup.GET("/instock", reportHandler.InStock)
			reportsGroup.GET("/returns", reportHandler.Returns)
		}
	}

	return router, nil
}

// CatalogRouteHandler is the route surface every catalog handler shares.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
}

// DocumentRouteHandler is the route surface the simple document handlers
// share. Stock orders add stage advancement on top and are wired explicitly.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	GetByNumber(c *gin.Context)
}

func registerCatalog(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
}

func registerDocument(group *gin.RouterGroup, handler DocumentRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.GET("/by-number/:number", handler.GetByNumber)
}
