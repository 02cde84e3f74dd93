package main

import (
	"deskly/internal/users/handler"
	"deskly/internal/users/repository"
	"deskly/internal/users/service"
	"deskly/internal/users/validator"
	"deskly/pkg/app"
	"deskly/pkg/config"
	"deskly/pkg/middleware"
	"deskly/pkg/sealer"
)

const ServiceName = "users"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	if cfg.SessionKey == "" {
		cfg.Log.Fatal("SESSION_KEY must be set for the users service")
	}
	tokenSealer, err := sealer.New(cfg.SessionKey)
	if err != nil {
		cfg.Log.Fatal("Invalid session key", "error", err)
	}

	cfg.Log.Info("Starting Users service")
	userService := initServices(cfg, tokenSealer)

	// Register and login stay public; authenticated routes check for the
	// identity the optional middleware injects.
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewUserHandler(userService, cfg.Log),
		middleware.AuthOptional(tokenSealer, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, tokenSealer *sealer.Sealer) service.UserService {
	userValidator := validator.NewUserValidator(cfg.Log)
	userRepo := repository.NewMongoUserRepository(cfg)
	userService := service.NewUserService(userRepo, userValidator, tokenSealer, cfg)

	cfg.Log.Info("User service initialized", "database", cfg.MongoDatabaseName)
	return userService
}
