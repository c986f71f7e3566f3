package bootstrap

import (
	"context"
	"log"

	"ai-imagestudio-be/internal/config"
	"ai-imagestudio-be/internal/controller"
	"ai-imagestudio-be/internal/pkg/logger"
	"ai-imagestudio-be/internal/pkg/mailer"
	"ai-imagestudio-be/internal/repository/memory"
	"ai-imagestudio-be/internal/repository/unitofwork"
	"ai-imagestudio-be/internal/service"
	"ai-imagestudio-be/pkg/events"
	"ai-imagestudio-be/pkg/imagegen"
	"ai-imagestudio-be/pkg/imagegen/replicate"
	"ai-imagestudio-be/pkg/storage"

	pktNats "ai-imagestudio-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	OAuthController   controller.IOAuthController
	PaymentController controller.IPaymentController
	ProjectController controller.IProjectController
	CreditController  controller.ICreditController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
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
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Durable audit trail over everything published to the event bus.
	if natsPub != nil {
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			err := natsSub.Subscribe("events.>", "imagestudio-audit", func(ctx context.Context, ev events.Event) error {
				sysLogger.Info("EVENT_BUS", ev.EventType(), ev.Payload())
				return nil
			})
			if err != nil {
				log.Printf("[WARN] Failed to subscribe to domain events: %v", err)
			}
		}
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
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Object Storage
	objectStore, err := storage.NewObjectStore(storage.Config{
		Endpoint:     cfg.Storage.Endpoint,
		PublicURL:    cfg.Storage.PublicURL,
		AccessKey:    cfg.Storage.AccessKey,
		SecretKey:    cfg.Storage.SecretKey,
		Region:       cfg.Storage.Region,
		UseSSL:       cfg.Storage.UseSSL,
		BucketInputs: cfg.Storage.BucketInputs,
		BucketOutput: cfg.Storage.BucketOutput,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize object storage: %v", err)
	}
	if err := objectStore.EnsureBuckets(context.Background()); err != nil {
		log.Printf("[WARN] Failed to ensure storage buckets: %v", err)
	}

	// Image Generation Provider
	var genProvider imagegen.Provider = replicate.NewReplicateProvider(
		cfg.ImageGen.ReplicateToken,
		cfg.ImageGen.Model,
	)
	log.Printf("[INFO] Using Image Generation Provider: REPLICATE (%s)", cfg.ImageGen.Model)

	// In-memory checkout session cache
	checkoutCache := memory.NewCheckoutCache()

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.GenerationTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.GenerationTopic,
		uowFactory,
		emailService,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory)

	paymentService := service.NewPaymentService(
		uowFactory,
		objectStore,
		checkoutCache,
		rdb,
		natsPub,
	)
	projectService := service.NewProjectService(uowFactory, objectStore, sysLogger)
	creditService := service.NewCreditService(uowFactory)
	generationService := service.NewGenerationService(
		uowFactory,
		genProvider,
		objectStore,
		publisherService,
		natsPub,
		sysLogger,
	)

	// 4. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		OAuthController:   controller.NewOAuthController(oauthService),
		PaymentController: controller.NewPaymentController(paymentService),
		ProjectController: controller.NewProjectController(projectService, generationService),
		CreditController:  controller.NewCreditController(creditService),

		ConsumerService: consumerService,
	}
}
