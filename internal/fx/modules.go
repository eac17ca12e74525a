package fx

import (
	"vex-tracker/internal/api"
	"vex-tracker/internal/config"
	"vex-tracker/internal/database"
	"vex-tracker/internal/logger"
	"vex-tracker/internal/metrics"
	"vex-tracker/internal/repository"
	"vex-tracker/internal/server"
	"vex-tracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(metrics.New),
	// repos
	fx.Provide(repository.NewEventRepository),
	fx.Provide(repository.NewTeamRepository),
	fx.Provide(repository.NewChangeLogRepository),
	// api client
	fx.Provide(api.NewClient),
	// svc
	fx.Provide(service.NewTracker),
	// server
	fx.Provide(server.NewServer),
)
