package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/admin"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/cash"
	"github.com/jhoicas/pos-api/internal/application/purchasing"
	"github.com/jhoicas/pos-api/internal/application/reports"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/application/tenant"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/permission"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	TenantUC    *tenant.UseCase
	UserUC      *usecase.UserUseCase
	BranchUC    *usecase.BranchUseCase
	ProductUC   *usecase.ProductUseCase
	StockUC     *usecase.StockUseCase
	PurchaseUC  *purchasing.UseCase
	SaleUC      *sales.UseCase
	CashUC      *cash.UseCase
	ReportUC    *reports.UseCase
	AdminUC     *admin.UseCase
	Licenses    *tenant.LicenseService
	Modules     *tenant.ModuleService
	Memberships repository.MembershipRepository
	JWTSecret   string
	AdminAPIKey string
}

// Router registra todas las rutas de la API. Las rutas de negocio encadenan
// auth → tenant activo → licencia → permiso, y las de módulos opcionales
// suman la verificación de módulo habilitado. El registro pasa por Registry,
// que detecta rutas duplicadas en el arranque.
func Router(app *fiber.App, deps RouterDeps) {
	reg := NewRegistry("/api")

	authn := AuthMiddleware(deps.JWTSecret)
	licensed := RequireLicense(deps.Licenses)
	// Cadena base de toda ruta de negocio dentro de un tenant.
	guard := func(module, action string, extra ...fiber.Handler) []fiber.Handler {
		chain := []fiber.Handler{authn, RequireTenant(deps.Memberships), licensed}
		chain = append(chain, extra...)
		chain = append(chain, RequirePermission(deps.AuthUC, module, action))
		return chain
	}

	// Auth (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC)
	reg.Post("/auth/register", authHandler.Register)
	reg.Post("/auth/login", authHandler.Login)
	reg.Get("/auth/me", authn, authHandler.Me)

	// Tenants: membresías del usuario, sin exigir tenant activo ni licencia.
	tenantHandler := NewTenantHandler(deps.TenantUC)
	reg.Post("/tenants", authn, tenantHandler.Create)
	reg.Post("/tenants/join", authn, tenantHandler.Join)
	reg.Post("/tenants/active", authn, tenantHandler.SetActive)
	reg.Get("/tenants/current", authn, tenantHandler.Current)
	reg.Put("/tenants/modules", append(guard(entity.ModuleConfig, permission.ActionEdit), tenantHandler.SetModule)...)

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	reg.Post("/users", append(guard(entity.ModuleUsers, permission.ActionCreate), userHandler.Create)...)
	reg.Get("/users", append(guard(entity.ModuleUsers, permission.ActionView), userHandler.List)...)
	reg.Put("/users/:id", append(guard(entity.ModuleUsers, permission.ActionEdit), userHandler.Update)...)
	reg.Put("/users/:id/overrides", append(guard(entity.ModuleUsers, permission.ActionEdit), userHandler.SetOverrides)...)
	reg.Delete("/users/:id", append(guard(entity.ModuleUsers, permission.ActionDelete), userHandler.Delete)...)

	// Branches
	branchHandler := NewBranchHandler(deps.BranchUC)
	reg.Post("/branches", append(guard(entity.ModuleBranches, permission.ActionCreate), branchHandler.Create)...)
	reg.Get("/branches", append(guard(entity.ModuleBranches, permission.ActionView), branchHandler.List)...)
	reg.Get("/branches/:id", append(guard(entity.ModuleBranches, permission.ActionView), branchHandler.GetByID)...)
	reg.Put("/branches/:id", append(guard(entity.ModuleBranches, permission.ActionEdit), branchHandler.Update)...)

	// Products y stock
	productHandler := NewProductHandler(deps.ProductUC)
	stockHandler := NewStockHandler(deps.StockUC)
	reg.Post("/products", append(guard(entity.ModuleProducts, permission.ActionCreate), productHandler.Create)...)
	reg.Get("/products", append(guard(entity.ModuleProducts, permission.ActionView), productHandler.List)...)
	reg.Get("/products/:id", append(guard(entity.ModuleProducts, permission.ActionView), productHandler.GetByID)...)
	reg.Put("/products/:id", append(guard(entity.ModuleProducts, permission.ActionEdit), productHandler.Update)...)
	reg.Get("/products/:id/stock", append(guard(entity.ModuleProducts, permission.ActionView), stockHandler.Get)...)
	reg.Post("/products/:id/stock/adjust", append(guard(entity.ModuleProducts, permission.ActionEdit), stockHandler.Adjust)...)
	reg.Get("/products/:id/movements", append(guard(entity.ModuleProducts, permission.ActionView), stockHandler.Movements)...)
	reg.Get("/branches/:id/stock", append(guard(entity.ModuleProducts, permission.ActionView), stockHandler.ListByBranch)...)

	// Purchases
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	reg.Post("/purchases", append(guard(entity.ModulePurchases, permission.ActionCreate), purchaseHandler.Create)...)
	reg.Get("/purchases", append(guard(entity.ModulePurchases, permission.ActionView), purchaseHandler.List)...)
	reg.Get("/purchases/:id", append(guard(entity.ModulePurchases, permission.ActionView), purchaseHandler.GetByID)...)
	reg.Post("/purchases/:id/receive", append(guard(entity.ModulePurchases, permission.ActionEdit), purchaseHandler.Receive)...)
	reg.Post("/purchases/:id/cancel", append(guard(entity.ModulePurchases, permission.ActionDelete), purchaseHandler.Cancel)...)

	// Sales
	saleHandler := NewSaleHandler(deps.SaleUC)
	reg.Post("/sales", append(guard(entity.ModuleSales, permission.ActionCreate), saleHandler.Create)...)
	reg.Get("/sales", append(guard(entity.ModuleSales, permission.ActionView), saleHandler.List)...)
	reg.Get("/sales/:id", append(guard(entity.ModuleSales, permission.ActionView), saleHandler.GetByID)...)
	reg.Get("/sales/:id/receipt", append(guard(entity.ModuleSales, permission.ActionView), saleHandler.Receipt)...)

	// Presales (módulo opcional)
	presaleModule := RequireModule(deps.Modules, entity.ModulePresales)
	reg.Post("/presales", append(guard(entity.ModulePresales, permission.ActionCreate, presaleModule), saleHandler.CreatePresale)...)
	reg.Post("/presales/:id/confirm", append(guard(entity.ModulePresales, permission.ActionEdit, presaleModule), saleHandler.ConfirmPresale)...)

	// Deliveries (módulo opcional)
	deliveryModule := RequireModule(deps.Modules, entity.ModuleDelivery)
	reg.Get("/deliveries", append(guard(entity.ModuleDelivery, permission.ActionView, deliveryModule), saleHandler.ListDeliveries)...)
	reg.Put("/deliveries/:id", append(guard(entity.ModuleDelivery, permission.ActionEdit, deliveryModule), saleHandler.UpdateDelivery)...)

	// Cash
	cashHandler := NewCashHandler(deps.CashUC)
	reg.Post("/cash/sessions", append(guard(entity.ModuleCash, permission.ActionCreate), cashHandler.Open)...)
	reg.Get("/cash/sessions", append(guard(entity.ModuleCash, permission.ActionView), cashHandler.ListSessions)...)
	reg.Post("/cash/sessions/:id/close", append(guard(entity.ModuleCash, permission.ActionEdit), cashHandler.Close)...)
	reg.Post("/cash/sessions/:id/entries", append(guard(entity.ModuleCash, permission.ActionCreate), cashHandler.AddEntry)...)
	reg.Get("/cash/sessions/:id/entries", append(guard(entity.ModuleCash, permission.ActionView), cashHandler.ListEntries)...)
	reg.Get("/cash/current", append(guard(entity.ModuleCash, permission.ActionView), cashHandler.Current)...)

	// Reports (módulo opcional)
	reportHandler := NewReportHandler(deps.ReportUC)
	reportModule := RequireModule(deps.Modules, entity.ModuleReports)
	reg.Get("/reports/sales", append(guard(entity.ModuleReports, permission.ActionView, reportModule), reportHandler.Sales)...)
	reg.Get("/reports/purchases", append(guard(entity.ModuleReports, permission.ActionView, reportModule), reportHandler.Purchases)...)
	reg.Get("/reports/cash", append(guard(entity.ModuleReports, permission.ActionView, reportModule), reportHandler.Cash)...)
	reg.Get("/reports/daily-summary", append(guard(entity.ModuleReports, permission.ActionView, reportModule), reportHandler.DailySummary)...)

	// Admin (API key de plataforma, sin JWT)
	adminHandler := NewAdminHandler(deps.AdminUC)
	adminKey := RequireAPIKey(deps.AdminAPIKey)
	reg.Get("/admin/tenants", adminKey, adminHandler.ListTenants)
	reg.Get("/admin/tenants/:id/license", adminKey, adminHandler.GetLicense)
	reg.Put("/admin/tenants/:id/license", adminKey, adminHandler.UpdateLicense)

	reg.Mount(app.Group("/api"))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
