package main

import (
	bookinghandler "bookcom/internal/bookings/handler"
	bookingrepository "bookcom/internal/bookings/repository"
	bookingservice "bookcom/internal/bookings/service"
	bookingvalidator "bookcom/internal/bookings/validator"
	healthhandler "bookcom/internal/health/handler"
	roomhandler "bookcom/internal/rooms/handler"
	roomrepository "bookcom/internal/rooms/repository"
	roomservice "bookcom/internal/rooms/service"
	roomvalidator "bookcom/internal/rooms/validator"
	sessionhandler "bookcom/internal/session/handler"
	sessionservice "bookcom/internal/session/service"
	sessionvalidator "bookcom/internal/session/validator"
	"bookcom/pkg/app"
	"bookcom/pkg/config"
	"bookcom/pkg/middleware"
)

const ServiceName = "bookcom-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Book.com API")

	dispatcher, err := app.NewEventDispatcher(cfg, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}

	sessions := sessionservice.NewSessionService(sessionvalidator.NewIdentityValidator(), cfg)
	guard := middleware.Authenticate(sessions, cfg.Log)

	roomRepo := roomrepository.NewMongoRoomRepository(cfg)
	rooms := roomservice.NewRoomService(
		roomRepo,
		roomvalidator.NewRoomValidator(),
		dispatcher,
		cfg,
	)

	bookings := bookingservice.NewBookingService(
		bookingrepository.NewMongoBookingRepository(cfg),
		roomRepo,
		bookingvalidator.NewBookingValidator(),
		dispatcher,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(dispatcher,
		healthhandler.NewRootHandler(cfg.Log),
		sessionhandler.NewSessionHandler(sessions, cfg.Log),
		roomhandler.NewRoomHandler(rooms, cfg.Log),
		bookinghandler.NewBookingHandler(bookings, guard, cfg.Log),
	)
	serverApp.Run()
}
