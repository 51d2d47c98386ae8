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
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Farmacia-api/internal/application/audit"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/reports"
	"github.com/jhoicas/Farmacia-api/internal/application/stock"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	infrapdf "github.com/jhoicas/Farmacia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
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

	medicineRepo := postgres.NewMedicineRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	eventRepo := postgres.NewStockEventRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	if err := seedAdmin(userRepo, cfg.Admin); err != nil {
		log.Fatal().Err(err).Msg("sembrar admin inicial")
	}

	medicineUC := usecase.NewMedicineUseCase(medicineRepo, batchRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	stockUC := stock.NewUseCase(txRunner, medicineRepo, batchRepo, nil)
	auditUC := audit.NewUseCase(eventRepo)
	reportsUC := reports.NewUseCase(batchRepo, reportRepo, nil)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	pdfGen := infrapdf.NewWastageReportGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	registerSwagger(app, cfg.App.Name)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MedicineUC: medicineUC,
		UserUC:     userUC,
		StockUC:    stockUC,
		AuditUC:    auditUC,
		ReportsUC:  reportsUC,
		AuthUC:     authUC,
		PDFGen:     pdfGen,
		AppName:    cfg.App.Name,
		JWTSecret:  cfg.JWT.Secret,
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

// swaggerFilePath JSON generado por swag; no se versiona.
const swaggerFilePath = "./docs/swagger.json"

// registerSwagger monta el Swagger UI en /docs solo si el JSON generado
// existe: el middleware entra en pánico dentro de New cuando el archivo
// falta, y la API debe poder arrancar sin documentación generada.
func registerSwagger(app *fiber.App, appName string) {
	if _, err := os.Stat(swaggerFilePath); err != nil {
		return
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: swaggerFilePath,
		Path:     "docs",
		Title:    appName,
	}))
}

// seedAdmin crea el admin inicial si la tabla de usuarios está vacía. Sin al
// menos un admin nadie puede crear usuarios ni dar de baja vencidos.
func seedAdmin(userRepo repository.UserRepository, admin config.AdminConfig) error {
	users, err := userRepo.List(1, 0)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	return userRepo.Create(&entity.User{
		ID:           uuid.New().String(),
		Email:        admin.Email,
		PasswordHash: string(hash),
		Name:         "Administrador",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
