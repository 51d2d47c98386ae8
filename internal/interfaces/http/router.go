package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/audit"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/reports"
	"github.com/jhoicas/Farmacia-api/internal/application/stock"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MedicineUC *usecase.MedicineUseCase
	UserUC     *usecase.UserUseCase
	StockUC    *stock.UseCase
	AuditUC    *audit.UseCase
	ReportsUC  *reports.UseCase
	AuthUC     *auth.AuthUseCase
	PDFGen     *pdf.WastageReportGenerator
	AppName    string
	JWTSecret  string
}

// Router registra las rutas de la API. Todo bajo /api requiere Bearer Token
// salvo el login; administración de usuarios y baja de vencidos son solo admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Medicines (protegido)
	medicines := protected.Group("/medicines")
	medicineHandler := NewMedicineHandler(deps.MedicineUC)
	medicines.Post("/", medicineHandler.Create)
	medicines.Get("/", medicineHandler.List)
	medicines.Get("/:id", medicineHandler.GetByID)
	medicines.Put("/:id", medicineHandler.Update)
	medicines.Delete("/:id", medicineHandler.Delete)

	// Batches + movimientos de stock (protegido)
	batches := protected.Group("/batches")
	batchHandler := NewBatchHandler(deps.StockUC)
	batches.Get("/", batchHandler.List)
	batches.Get("/medicine/:medicineId", batchHandler.ListByMedicine)
	batches.Post("/stock-in", batchHandler.StockIn)
	batches.Post("/stock-out", batchHandler.StockOut)
	batches.Post("/write-off-expired", adminOnly, batchHandler.WriteOffExpired)

	// Bitácora (protegido, solo lectura)
	auditGroup := protected.Group("/audit")
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/stock-logs", auditHandler.List)
	auditGroup.Get("/stock-logs/medicine/:medicineId", auditHandler.ListByMedicine)
	auditGroup.Get("/stock-logs/batch/:batchId", auditHandler.ListByBatch)

	// Reports (protegido)
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportsUC, deps.PDFGen, deps.AppName)
	reportsGroup.Get("/dashboard-stats", reportHandler.DashboardStats)
	reportsGroup.Get("/monthly-usage", reportHandler.MonthlyUsage)
	reportsGroup.Get("/top-consumed", reportHandler.TopConsumed)
	reportsGroup.Get("/expired-wastage", reportHandler.ExpiredWastage)
	reportsGroup.Get("/expired-wastage/pdf", reportHandler.ExpiredWastagePDF)

	// Users (protegido, solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
