package main

import (
	"deskly/internal/reservations/handler"
	"deskly/internal/reservations/publisher"
	"deskly/internal/reservations/repository"
	"deskly/internal/reservations/service"
	"deskly/internal/reservations/validator"
	"deskly/pkg/app"
	"deskly/pkg/client"
	"deskly/pkg/config"
	kafka_config "deskly/pkg/kafka/config"
	"deskly/pkg/middleware"
	"deskly/pkg/sealer"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	if cfg.SessionKey == "" {
		cfg.Log.Fatal("SESSION_KEY must be set for the reservations service")
	}
	tokenSealer, err := sealer.New(cfg.SessionKey)
	if err != nil {
		cfg.Log.Fatal("Invalid session key", "error", err)
	}

	cfg.Log.Info("Starting Reservations service")

	events := initPublisher(cfg)
	defer func() {
		if err := events.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	reservationService := initServices(cfg, events)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewReservationHandler(reservationService, cfg.Log),
		middleware.Auth(tokenSealer, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, events publisher.Publisher) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	lockRepo := repository.NewReservationLockRepository(cfg)
	deskCatalog := client.NewDeskClient(cfg.DesksServiceURL)

	reservationService := service.NewReservationService(
		reservationRepo,
		lockRepo,
		reservationValidator,
		deskCatalog,
		events,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}

func initPublisher(cfg *config.Config) publisher.Publisher {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Warn("Kafka configuration invalid, reservation events disabled", "error", err)
		return publisher.NewNopPublisher()
	}

	events, err := publisher.NewKafkaPublisher(kafkaCfg, cfg.Log)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, reservation events disabled", "error", err)
		return publisher.NewNopPublisher()
	}

	cfg.Log.Info("Reservation event publisher initialized", "topic", kafkaCfg.EventsTopic)
	return events
}
