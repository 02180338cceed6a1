package app

import (
	"database/sql"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kaleaditya28897-linux/gatepass/internal/audit"
	"github.com/kaleaditya28897-linux/gatepass/internal/delivery"
	"github.com/kaleaditya28897-linux/gatepass/internal/directory"
	"github.com/kaleaditya28897-linux/gatepass/internal/entry"
	"github.com/kaleaditya28897-linux/gatepass/internal/gate"
	"github.com/kaleaditya28897-linux/gatepass/internal/messaging/kafka"
	"github.com/kaleaditya28897-linux/gatepass/internal/notification"
	"github.com/kaleaditya28897-linux/gatepass/internal/pass"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	frontendBaseURL := os.Getenv("FRONTEND_BASE_URL")
	if frontendBaseURL == "" {
		frontendBaseURL = "http://localhost:5173"
	}
	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "media"
	}

	// --- Repositories ---
	auditRepo := audit.NewRepository(gormDB)
	deliveryRepo := delivery.NewRepository(gormDB)
	directoryRepo := directory.NewRepository(gormDB)
	entryRepo := entry.NewRepository(gormDB)
	gateRepo := gate.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	passRepo := pass.NewRepository(gormDB)

	// --- Services ---
	auditService := audit.NewService(auditRepo)
	gateService := gate.NewService(gateRepo)
	notificationService := notification.NewService(
		notificationRepo,
		notification.NewConsoleDispatcher(),
		frontendBaseURL,
	)
	otpThrottle := delivery.NewOTPThrottle(rdb, 5, 15*time.Minute)
	deliveryService := delivery.NewService(db, deliveryRepo, directoryRepo, outboxRepo, otpThrottle)
	qrGenerator := pass.NewFileQRGenerator(frontendBaseURL, mediaDir)
	passService := pass.NewService(db, passRepo, directoryRepo, outboxRepo, qrGenerator)
	entryService := entry.NewService(db, entryRepo, passRepo, deliveryRepo, gateRepo, directoryRepo, outboxRepo)

	// --- Handlers ---
	auditHandler := audit.NewHandler(auditService)
	deliveryHandler := delivery.NewHandler(deliveryService)
	entryHandler := entry.NewHandler(entryService)
	gateHandler := gate.NewHandler(gateService)
	notificationHandler := notification.NewHandler(notificationService)
	passHandler := pass.NewHandler(passService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		audit.RegisterRoutes(api, auditHandler)
		delivery.RegisterRoutes(api, deliveryHandler)
		entry.RegisterRoutes(api, entryHandler)
		gate.RegisterRoutes(api, gateHandler)
		notification.RegisterRoutes(api, notificationHandler)
		pass.RegisterRoutes(api, passHandler)
	}

	return nil
}
