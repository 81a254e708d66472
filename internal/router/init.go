package router

import (
	"github.com/arkandhani/roomtalk/internal/application"
	"github.com/arkandhani/roomtalk/internal/container"
	pginfra "github.com/arkandhani/roomtalk/internal/infrastructure/postgres"
	handlers "github.com/arkandhani/roomtalk/internal/interface/http"
	"github.com/arkandhani/roomtalk/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// adds them to the registry. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	topics := pginfra.NewTopicRepository(pool)
	rooms := pginfra.NewRoomRepository(pool)
	messages := pginfra.NewMessageRepository(pool)

	authSvc := application.NewAuthService(
		users, profiles,
		container.GetJWT(), container.GetRedis(), logger,
		container.GetRabbitPub(), cfg.AppName, cfg.MailSendEnabled,
	)
	roomSvc := application.NewRoomService(
		rooms, topics, messages, logger,
		container.GetES(), cfg.ESRoomsIndex,
	)
	profileSvc := application.NewProfileService(
		users, profiles, rooms, messages, topics, logger,
		container.GetGCS(), cfg.GCSBucket,
	)
	feedSvc := application.NewFeedService(topics, messages)

	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	roomHandler := handlers.NewRoomHandler(roomSvc, logger)
	userHandler := handlers.NewUserHandler(profileSvc, logger)
	feedHandler := handlers.NewFeedHandler(feedSvc, logger)

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewRoomModule(roomHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewFeedModule(feedHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
