// Package server assembles the HTTP API around a ledger.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "finflow/internal/docs" // swagger docs
	"finflow/internal/handlers"
	"finflow/internal/middleware"
	"finflow/internal/services"
)

// Options configures the router.
type Options struct {
	Ledger   services.LedgerServicer
	Audit    services.AuditServicer
	APIKey   string // empty disables the API key guard
	Location *time.Location
	Backend  string // reported by the health check
}

// NewRouter builds the gin engine with all API routes.
func NewRouter(opts Options) *gin.Engine {
	if opts.Audit == nil {
		opts.Audit = services.NewAuditService(nil)
	}

	transactionHandler := handlers.NewTransactionHandler(opts.Ledger, opts.Audit, opts.Location)
	reportHandler := handlers.NewReportHandler(opts.Ledger)
	categoryHandler := handlers.NewCategoryHandler(opts.Ledger, opts.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"backend":      opts.Backend,
			"transactions": len(opts.Ledger.GetTransactions()),
		})
	})

	v1 := router.Group("/api/v1")
	if opts.APIKey != "" {
		v1.Use(middleware.APIKeyMiddleware(opts.APIKey))
	}

	transactions := v1.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	reports := v1.Group("/reports")
	reports.GET("/total", reportHandler.GetTotal)
	reports.GET("/monthly", reportHandler.GetMonthlyTotal)
	reports.GET("/summary", reportHandler.GetSummary)
	reports.GET("/categories", reportHandler.GetCategoryTotals)
	reports.GET("/export/pdf", reportHandler.ExportPDF)
	reports.GET("/export/excel", reportHandler.ExportExcel)

	categories := v1.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/used", categoryHandler.GetUsedCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.DELETE("/:name", categoryHandler.DeleteCategory)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.APIKeyHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
