package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/pos-api/docs"

	"github.com/jhoicas/pos-api/internal/application/admin"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/cash"
	"github.com/jhoicas/pos-api/internal/application/purchasing"
	"github.com/jhoicas/pos-api/internal/application/reports"
	"github.com/jhoicas/pos-api/internal/application/sales"
	apptenant "github.com/jhoicas/pos-api/internal/application/tenant"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/infrastructure/fiscal"
	infrapdf "github.com/jhoicas/pos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-api/internal/interfaces/http"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	licenseRepo := postgres.NewLicenseRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	cashRepo := postgres.NewCashRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	tenantUC := apptenant.NewUseCase(tenantRepo, membershipRepo, userRepo, txRunner)
	licenseSvc := apptenant.NewLicenseService(licenseRepo)
	moduleSvc := apptenant.NewModuleService(tenantRepo)
	authUC := auth.NewUseCase(userRepo, membershipRepo, tenantRepo, tenantUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo, membershipRepo)
	branchUC := usecase.NewBranchUseCase(branchRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	stockUC := usecase.NewStockUseCase(txRunner, stockRepo, movementRepo, productRepo, branchRepo)
	purchaseUC := purchasing.NewUseCase(txRunner, purchaseRepo, productRepo, branchRepo)

	receiptGen := infrapdf.NewReceiptGenerator()
	saleUC := sales.NewUseCase(txRunner, saleRepo, deliveryRepo, productRepo, branchRepo, cashRepo, tenantRepo, receiptGen)
	cashUC := cash.NewUseCase(txRunner, cashRepo, branchRepo)

	// Certificado opcional para firmar el resumen diario.
	fiscalCert, err := fiscal.LoadFromPEM(cfg.Fiscal.CertPath, cfg.Fiscal.CertKeyPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar certificado fiscal")
	}
	summaryGen := fiscal.NewSummaryGenerator(fiscalCert)
	reportUC := reports.NewUseCase(reportRepo, tenantRepo, summaryGen)
	adminUC := admin.NewUseCase(tenantRepo, licenseRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		TenantUC:    tenantUC,
		UserUC:      userUC,
		BranchUC:    branchUC,
		ProductUC:   productUC,
		StockUC:     stockUC,
		PurchaseUC:  purchaseUC,
		SaleUC:      saleUC,
		CashUC:      cashUC,
		ReportUC:    reportUC,
		AdminUC:     adminUC,
		Licenses:    licenseSvc,
		Modules:     moduleSvc,
		Memberships: membershipRepo,
		JWTSecret:   cfg.JWT.Secret,
		AdminAPIKey: cfg.App.AdminAPIKey,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
