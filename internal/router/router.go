package router

import (
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/ai"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/analytics"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/config"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/handler"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/importer"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/middleware"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/ocr"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires every component once and mounts the API routes.
func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	st := store.New(db)
	imp := importer.New(st)
	agg := analytics.New(st)
	recognizer := ocr.NewClient(cfg.OCR.URL, cfg.OCR.TimeoutMinutes)
	llm := ai.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
	assistant := ai.NewAssistant(st, llm)

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(st, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWT.Secret, st))

	categoryHandler := handler.NewCategoryHandler(st)
	protected.GET("/categories", categoryHandler.List)
	protected.POST("/categories", categoryHandler.Create)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	txHandler := handler.NewTransactionHandler(st, imp, cfg.App.PageSize)
	protected.GET("/transactions", txHandler.List)
	protected.POST("/transactions", txHandler.Create)
	protected.POST("/transactions/upload-pdf", txHandler.UploadPDF)
	protected.PUT("/transactions/:id", txHandler.Update)
	protected.DELETE("/transactions/:id", txHandler.Delete)

	exportHandler := handler.NewExportHandler(st)
	protected.GET("/transactions/export/csv", exportHandler.ExportCSV)
	protected.GET("/transactions/export/xlsx", exportHandler.ExportXLSX)

	uploadHandler := handler.NewUploadHandler(recognizer)
	protected.POST("/upload/receipt", uploadHandler.Receipt)

	analyticsHandler := handler.NewAnalyticsHandler(agg)
	protected.GET("/analytics/summary", analyticsHandler.Summary)

	aiHandler := handler.NewAIHandler(assistant)
	protected.POST("/ai/chat", aiHandler.Chat)

	return r
}
