package main

import (
	"membership/config"
	"membership/services/membership/delivery"
	"membership/services/membership/repository"
	"membership/services/membership/usecase"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var log *logrus.Logger
var wg sync.WaitGroup

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Fatalf("Error loading .env file")
	}

	log = config.GetLogrusInstance()

	startHTTP()
}

func startHTTP() {
	log.Info("Starting HTTP")
	app := fiber.New(config.GetFiberConfig())

	// CORS Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	db, err := config.BootDB()
	if err != nil {
		log.Fatalf("Failed to boot DB: %v", err)
		return
	}

	assetStore, err := config.BootAssetStore()
	if err != nil {
		log.Fatalf("Failed to boot asset store: %v", err)
		return
	}

	renderer, err := config.BootRenderer()
	if err != nil {
		log.Fatalf("Failed to boot PDF renderer: %v", err)
		return
	}
	defer renderer.Shutdown()

	meowClient, mailDialer, emailSender, err := config.InitSender()
	if err != nil {
		log.Warnf("Approval notifications disabled: %v", err)
	}

	docCfg := usecase.DocumentConfig{
		AssociationName:    config.GetAssociationName(),
		AssociationAddress: config.GetAssociationAddress(),
		ChairmanName:       config.GetChairmanName(),
		AssetDir:           "./assets",
	}

	// Repositories
	memberRepo := repository.NewMemberRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)
	masterDataRepo := repository.NewMasterDataRepository(db)

	var notifier = repository.NewApprovalNotifier(nil, nil, "", docCfg.AssociationName)
	if err == nil {
		notifier = repository.NewApprovalNotifier(meowClient, mailDialer, *emailSender, docCfg.AssociationName)
	}

	// Usecases
	memberUC := usecase.NewMemberUseCase(memberRepo, masterDataRepo, assetStore, notifier, log, time.Now, 30*time.Second)
	statisticsUC := usecase.NewStatisticsUseCase(statisticsRepo, masterDataRepo, time.Now)
	biodataUC := usecase.NewBiodataUseCase(memberRepo, renderer, assetStore, docCfg, time.Now)
	cardUC := usecase.NewMembershipCardUseCase(memberRepo, renderer, assetStore, docCfg)

	// Delivery
	delivery.NewMemberHandler(app, memberUC)
	delivery.NewStatisticsHandler(app, statisticsUC)
	delivery.NewDocumentHandler(app, biodataUC, cardUC)

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("Starting HTTP server for Public on port %s", config.GetFiberHttpPort())
		if err := app.Listen(config.GetFiberListenAddress()); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)

	<-signalChan

	log.Info("Shutting down the server...")

	if err := app.Shutdown(); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}

	wg.Wait()
	log.Info("Server shut down gracefully")
}
