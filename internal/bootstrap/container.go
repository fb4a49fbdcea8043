package bootstrap

import (
	"context"
	"log"
	"time"

	"forensichub-be/internal/config"
	"forensichub-be/internal/controller"
	"forensichub-be/internal/handler"
	"forensichub-be/internal/pkg/logger"
	"forensichub-be/internal/pkg/mailer"
	"forensichub-be/internal/repository/implementation"
	"forensichub-be/internal/repository/memory"
	"forensichub-be/internal/repository/unitofwork"
	"forensichub-be/internal/service"
	"forensichub-be/internal/websocket"
	"forensichub-be/pkg/genai"
	"forensichub-be/pkg/geo"
	"forensichub-be/pkg/kvstore"

	pktNats "forensichub-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	OAuthController    controller.IOAuthController
	ProfileController  controller.IProfileController
	CatalogController  controller.ICatalogController
	LabController      controller.ILabController
	ResearchController controller.IResearchController
	PaymentController  controller.IPaymentController
	ReminderController controller.IReminderController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ReminderService service.IReminderService
	GeoWatcher      *geo.Watcher

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Core
	genaiProvider := genai.NewGeminiProvider(cfg.Keys.GoogleGemini)

	// Geolocation (watch mode keeps a shared last-known fix warm)
	geoLocator := geo.NewGeoapifyLocator(cfg.Keys.Geoapify)
	geoWatcher := geo.NewWatcher(geoLocator, 5*time.Minute)

	// Lab sessions live in memory only, evicted on TTL.
	sessionRepo := memory.NewLabSessionRepository(cfg.Lab.SessionTTL)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	redisUp := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		redisUp = false
	}

	// Reminder storage rides Redis when available, otherwise an
	// in-process map keeps the schedule alive for the lifetime of
	// the server.
	var reminderStore kvstore.Store
	if redisUp {
		reminderStore = kvstore.NewRedisStore(rdb)
	} else {
		log.Printf("[WARN] Reminders falling back to in-memory storage")
		reminderStore = kvstore.NewMemoryStore()
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory)
	profileService := service.NewProfileService(uowFactory)
	catalogService := service.NewCatalogService(uowFactory, genaiProvider)
	labService := service.NewLabService(sessionRepo, genaiProvider, sysLogger)
	researchService := service.NewResearchService(genaiProvider, geoWatcher, geoLocator, sysLogger)
	paymentService := service.NewPaymentService(
		uowFactory,
		profileService,
		natsPub,
		sysLogger,
		cfg.App.UploadDir,
		cfg.Payment.ProcessingDelay,
	)
	reminderService := service.NewReminderService(
		reminderStore,
		pubSub,
		sysLogger,
		cfg.Reminder.PollInterval,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		service.TopicReminderDue,
		natsPub,
	)

	// Notification Domain
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	// Handler
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 5. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		OAuthController:    controller.NewOAuthController(oauthService),
		ProfileController:  controller.NewProfileController(profileService),
		CatalogController:  controller.NewCatalogController(catalogService),
		LabController:      controller.NewLabController(labService),
		ResearchController: controller.NewResearchController(researchService),
		PaymentController:  controller.NewPaymentController(paymentService),
		ReminderController: controller.NewReminderController(reminderService),

		ConsumerService: consumerService,
		ReminderService: reminderService,
		GeoWatcher:      geoWatcher,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
