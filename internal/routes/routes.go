// Package routes defines the API routing configuration. It wires
// repositories, services and handlers and applies authentication and
// permission middleware per group.
package routes

import (
	"log"

	"reclaim/internal/config"
	"reclaim/internal/handlers"
	"reclaim/internal/middleware"
	"reclaim/internal/models"
	"reclaim/internal/ocr"
	"reclaim/internal/repositories"
	claimsvc "reclaim/internal/services/claim"
	"reclaim/internal/services/extract"
	receiptsvc "reclaim/internal/services/receipt"
	"reclaim/internal/services/token"
	"reclaim/internal/services/verify"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	receiptRepo := repositories.NewReceiptRepository(db)
	claimRepo := repositories.NewClaimRepository(db)
	ruleRepo := repositories.NewMerchantRuleRepository(db, repositories.CacheService)

	// OCR engine: Gemini when configured, plain-text passthrough otherwise.
	var engine ocr.Engine
	if apiKey := config.GetEnv("GEMINI_API_KEY", ""); apiKey != "" {
		gemini, err := ocr.NewGemini(apiKey, config.GetEnv("GEMINI_MODEL", ""))
		if err != nil {
			log.Fatalf("failed to initialize gemini ocr: %v", err)
		}
		engine = gemini
	} else {
		log.Println("GEMINI_API_KEY not set, using text passthrough OCR engine")
		engine = ocr.NewTextEngine()
	}

	tokenService, err := token.NewService(config.GetEnv("TOKEN_SECRET", ""))
	if err != nil {
		log.Fatalf("failed to initialize token service: %v", err)
	}

	// Services
	receiptService := receiptsvc.NewService(engine, extract.New(), ruleRepo, receiptRepo, claimRepo)
	claimService := claimsvc.NewService(claimRepo, receiptRepo, tokenService)
	verifyService := verify.NewService(claimRepo, verify.NewRedisAttemptLimiter(repositories.CacheService))

	// Handlers
	receiptHandler := handlers.NewReceiptHandler(receiptService)
	claimHandler := handlers.NewClaimHandler(claimService, verifyService)
	merchantHandler := handlers.NewMerchantHandler(verifyService)
	ruleHandler := handlers.NewRuleHandler(ruleRepo)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api", middleware.Auth)

	// Consumer: receipt pipeline
	api.Post("/receipts/scan", middleware.HasPermission(models.PermissionReceiptWrite), receiptHandler.Scan)
	api.Post("/receipts", middleware.HasPermission(models.PermissionReceiptWrite), receiptHandler.Confirm)
	api.Get("/receipts", middleware.HasPermission(models.PermissionReceiptRead), receiptHandler.List)
	api.Get("/receipts/:id", middleware.HasPermission(models.PermissionReceiptRead), receiptHandler.Get)
	api.Patch("/receipts/:id/category", middleware.HasPermission(models.PermissionReceiptWrite), receiptHandler.UpdateCategory)
	api.Delete("/receipts/:id", middleware.HasPermission(models.PermissionReceiptWrite), receiptHandler.Delete)

	// Consumer: claim issuance
	api.Post("/claims", middleware.HasPermission(models.PermissionClaimIssue), claimHandler.Issue)
	api.Get("/claims/:code/qr", claimHandler.QRImage)

	// Merchant staff: verification state machine
	merchant := api.Group("/merchant", middleware.RequireRole(models.RoleStaff))
	merchant.Get("/claims/:code", merchantHandler.Lookup)
	merchant.Post("/claims/:code/verify", middleware.HasPermission(models.PermissionClaimVerify), merchantHandler.Verify)
	merchant.Post("/claims/:code/redeem", middleware.HasPermission(models.PermissionClaimVerify), merchantHandler.Redeem)
	merchant.Post("/claims/:code/refuse", middleware.HasPermission(models.PermissionClaimVerify), merchantHandler.Refuse)
	merchant.Get("/claims/:code/attempts", merchantHandler.Attempts)

	// Merchant staff: policy rules
	rules := api.Group("/rules", middleware.RequireRole(models.RoleStaff))
	rules.Get("/", ruleHandler.List)
	rules.Post("/", middleware.HasPermission(models.PermissionRulesWrite), ruleHandler.Create)
	rules.Put("/:id", middleware.HasPermission(models.PermissionRulesWrite), ruleHandler.Update)
	rules.Delete("/:id", middleware.HasPermission(models.PermissionRulesWrite), ruleHandler.Delete)
}
