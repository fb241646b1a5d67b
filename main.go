package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	natsio "github.com/nats-io/nats.go"

	"github.com/go-redis/redis"
	"github.com/pitabwire/frame"
	"github.com/unipay/unipay-api/config"
	"github.com/unipay/unipay-api/service/business"
	"github.com/unipay/unipay-api/service/checkout"
	"github.com/unipay/unipay-api/service/events"
	handlers "github.com/unipay/unipay-api/service/handler"
	"github.com/unipay/unipay-api/service/models"
	"github.com/unipay/unipay-api/service/repository"
	"github.com/unipay/unipay-api/service/router"
	"github.com/unipay/unipay-api/service/simulation"
	"github.com/unipay/unipay-api/service/smsapi"
	"github.com/unipay/unipay-api/service/upi"
)

func main() {
	serviceName := "service_unipay"
	ctx := context.Background()
	uniPayConfig, err := frame.ConfigFromEnv[config.UniPayConfig]()
	if err != nil {
		fmt.Printf("could not load config: %v\n", err)
	}
	ctx, service := frame.NewServiceWithContext(ctx, serviceName, frame.WithConfig(&uniPayConfig))

	logger := service.Log(ctx).WithField("type", "main")

	defer service.Stop(ctx)

	logger.Info("starting service...")
	serviceOptions := []frame.Option{frame.WithDatastore()}

	// Initialize service with database connection
	service.Init(ctx, serviceOptions...)

	if uniPayConfig.DoDatabaseMigrate() {
		err = service.MigrateDatastore(ctx, uniPayConfig.GetDatabaseMigrationPath(),
			&models.Transaction{}, &models.TxnRef{}, &models.PaymentIntent{}, &models.KycDocument{})

		if err != nil {
			logger.WithError(err).Fatal("could not migrate successfully")
		}
		return
	}

	db := service.DB(ctx, false)
	if db == nil {
		logger.WithField("DATABASE_URL", os.Getenv("DATABASE_URL")).Fatal("Database connection is nil - check DATABASE_URL and database availability")
		return
	}
	if err = db.AutoMigrate(&models.Transaction{}, &models.TxnRef{}, &models.PaymentIntent{}, &models.KycDocument{}); err != nil {
		logger.WithError(err).Fatal("Failed to auto-migrate database tables - cannot continue")
		return
	}

	// OTP codes sit in redis so they survive restarts; an unreachable redis
	// degrades to an in-process store.
	otpStore := setupOtpStore(ctx, service, &uniPayConfig)

	var smsClient smsapi.SmsApiClient
	if uniPayConfig.TwilioAccountSID != "" && uniPayConfig.TwilioAuthToken != "" {
		smsClient = smsapi.New(uniPayConfig.TwilioAccountSID, uniPayConfig.TwilioAuthToken,
			uniPayConfig.TwilioPhoneNumber, uniPayConfig.TwilioEnv)
	} else {
		logger.Warn("twilio credentials not configured - OTP runs in demo mode")
	}

	checkoutClient := checkout.New(uniPayConfig.StripeSecretKey, uniPayConfig.StripeEnv)

	otpBusiness := business.NewOtpBusiness(ctx, service, otpStore, smsClient, uniPayConfig.DemoOtpCode)
	referenceBusiness := business.NewReferenceBusiness(ctx, service)
	transactionRepository := repository.NewTransactionRepository(ctx, service)

	engine := &simulation.Engine{
		Service:  service,
		Sink:     &simulation.EventSink{Service: service},
		Refs:     referenceBusiness,
		Launcher: &upi.LogLauncher{Service: service},
	}

	apiServer := &handlers.ApiServer{
		Service:      service,
		Otp:          otpBusiness,
		Refs:         referenceBusiness,
		Engine:       engine,
		Checkout:     checkoutClient,
		Transactions: transactionRepository,
		FrontendURL:  uniPayConfig.FrontendURL,
		UploadDir:    uniPayConfig.UploadDir,
		MerchantVPA:  uniPayConfig.MerchantVPA,
		MerchantName: uniPayConfig.MerchantName,
	}

	serviceOptions = append(serviceOptions,
		frame.WithHTTPHandler(router.NewRouter(apiServer)),
		frame.WithRegisterEvents(
			&events.TransactionSave{Service: service},
			&events.TxnRefSave{Service: service},
			&events.IntentLogSave{Service: service},
			&events.KycDocumentSave{Service: service},
		))

	serviceOptions = append(serviceOptions, setupLedgerPublisher(ctx, service)...)

	service.Init(ctx, serviceOptions...)

	logger.WithField("server http port", uniPayConfig.HTTPServerPort).
		Info("Initiating server operations")

	err = service.Run(ctx, uniPayConfig.HTTPServerPort)
	if err != nil {
		logger.WithError(err).Fatal("could not run Server")
	}
}

func setupOtpStore(ctx context.Context, service *frame.Service, cfg *config.UniPayConfig) business.OtpStore {
	logger := service.Log(ctx).WithField("type", "setupOtpStore")

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisHost + ":" + cfg.RedisPort,
	})
	if _, err := redisClient.Ping().Result(); err != nil {
		logger.WithError(err).Warn("redis unreachable - falling back to in-memory otp store")
		return business.NewMemoryOtpStore()
	}

	logger.WithField("addr", redisClient.Options().Addr).Info("using redis otp store")
	return business.NewRedisOtpStore(redisClient)
}

// setupLedgerPublisher registers the publisher for resolved transactions,
// preferring NATS and falling back to in-memory pubsub when it is unreachable.
func setupLedgerPublisher(ctx context.Context, service *frame.Service) []frame.Option {
	logger := service.Log(ctx).WithField("type", "setupLedgerPublisher")

	skipNats := os.Getenv("SKIP_NATS") == "true"

	raw := os.Getenv("NATS_URL")
	var natsURL string

	if skipNats && strings.HasPrefix(raw, "mem://") {
		natsURL = raw
		logger.WithField("memURL", natsURL).Info("Using in-memory messaging directly due to SKIP_NATS=true")
	} else if raw == "" {
		natsURL = "nats://nats:4222"
	} else if strings.HasPrefix(raw, "nats://") {
		natsURL = raw
	} else {
		logger.Warn("NATS_URL missing 'nats://' prefix; assuming host:port format")
		natsURL = "nats://" + raw
	}

	if skipNats && strings.HasPrefix(natsURL, "mem://") {
		return []frame.Option{frame.WithRegisterPublisher(events.LedgerTopic, natsURL)}
	}

	maxRetries := 10
	for i := range maxRetries {
		logger.WithField("attempt", i+1).WithField("natsURL", natsURL).Info("Attempting to connect to NATS")
		nc, err := natsio.Connect(natsURL)
		if err != nil {
			logger.WithError(err).WithField("attempt", i+1).Warn("Failed to connect to NATS, retrying after delay")
			time.Sleep(2 * time.Second)
			continue
		}
		nc.Close()

		publisherURL := natsURL
		if strings.Contains(publisherURL, "?") {
			publisherURL += "&subject=" + events.LedgerTopic
		} else {
			publisherURL += "?subject=" + events.LedgerTopic
		}
		logger.WithField("natsURL", publisherURL).WithField("topic", events.LedgerTopic).Info("Registering publisher with NATS")
		return []frame.Option{frame.WithRegisterPublisher(events.LedgerTopic, publisherURL)}
	}

	logger.WithField("retries", maxRetries).Warn("Failed to connect to NATS after maximum retries - falling back to memory-based pubsub")
	return []frame.Option{frame.WithRegisterPublisher(events.LedgerTopic, "mem://"+events.LedgerTopic)}
}
