package main

import (
	"deskly/internal/desks/handler"
	"deskly/internal/desks/repository"
	"deskly/internal/desks/service"
	"deskly/internal/desks/validator"
	"deskly/pkg/app"
	"deskly/pkg/config"
)

const ServiceName = "desks"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Desks service")
	deskService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewDeskHandler(deskService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.DeskService {
	deskValidator := validator.NewDeskValidator(cfg.Log)
	deskRepo := repository.NewMongoDeskRepository(cfg)
	deskService := service.NewDeskService(deskRepo, deskValidator, cfg)

	cfg.Log.Info("Desk service initialized", "database", cfg.MongoDatabaseName)
	return deskService
}
