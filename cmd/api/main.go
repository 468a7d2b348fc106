package main

import (
	"context"
	"log"
	"time"

	"agri-marketplace-api-server/config"
	"agri-marketplace-api-server/internal/accounts"
	"agri-marketplace-api-server/internal/api/routes"
	"agri-marketplace-api-server/internal/catalog"
	"agri-marketplace-api-server/internal/database"
	"agri-marketplace-api-server/internal/market"
	"agri-marketplace-api-server/internal/orders"
	"agri-marketplace-api-server/internal/s3"
	"agri-marketplace-api-server/internal/socket"
	"agri-marketplace-api-server/internal/store"
	"agri-marketplace-api-server/internal/store/memstore"
	"agri-marketplace-api-server/internal/store/mongostore"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Could not create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}
	jwtTTL, err := time.ParseDuration(cfg.JWT.Expiration)
	if err != nil {
		logger.Fatal("invalid jwt.expiration", zap.Error(err))
	}
	paymentDelay, err := time.ParseDuration(cfg.Checkout.PaymentDelay)
	if err != nil {
		logger.Fatal("invalid checkout.paymentDelay", zap.Error(err))
	}
	paymentTimeout, err := time.ParseDuration(cfg.Checkout.PaymentTimeout)
	if err != nil {
		logger.Fatal("invalid checkout.paymentTimeout", zap.Error(err))
	}

	ctx := context.Background()

	var (
		catalogStore store.Catalog
		accountStore store.Accounts
		orderStore   store.Orders
	)
	switch cfg.Storage.Driver {
	case "memory":
		logger.Info("using in-memory storage; nothing will survive a restart")
		catalogStore = memstore.NewCatalog()
		accountStore = memstore.NewAccounts()
		orderStore = memstore.NewOrders()
	default:
		db, err := database.Connect(ctx, cfg.Mongo)
		if err != nil {
			logger.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		accountStore, err = mongostore.NewAccounts(ctx, db)
		if err != nil {
			logger.Fatal("failed to prepare accounts collection", zap.Error(err))
		}
		catalogStore = mongostore.NewCatalog(db)
		orderStore = mongostore.NewOrders(db)
	}

	directory := accounts.NewDirectory(accountStore, logger)
	catalogSvc := catalog.NewService(catalogStore, logger)
	engine := market.NewEngine(catalogSvc)
	ledger := orders.NewLedger(catalogSvc, orderStore,
		orders.SimulatedProcessor{Delay: paymentDelay}, paymentTimeout, logger)
	hub := socket.NewHub(logger)

	// The admin account never registers through the API; it is seeded once
	// at first run.
	if cfg.Admin.Mobile != "" && cfg.Admin.Password != "" {
		if err := directory.SeedAdmin(ctx, cfg.Admin.Name, cfg.Admin.Mobile, cfg.Admin.Password); err != nil {
			logger.Fatal("failed to seed admin account", zap.Error(err))
		}
	} else {
		logger.Warn("admin.mobile/admin.password not set; no admin account seeded")
	}

	var uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			logger.Fatal("failed to create S3 uploader", zap.Error(err))
		}
	} else {
		logger.Warn("s3.bucket not set; image upload endpoint disabled")
	}

	router := routes.SetupRouter(routes.Deps{
		Directory: directory,
		Catalog:   catalogSvc,
		Engine:    engine,
		Ledger:    ledger,
		Uploader:  uploader,
		Hub:       hub,
		JWTSecret: []byte(cfg.JWT.Secret),
		JWTTTL:    jwtTTL,
		Logger:    logger,
	})

	logger.Info("starting API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("failed to run server", zap.Error(err))
	}
}
