package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	appfx "github.com/gometeo/tripview/internal/fx"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("Файл .env не найден, используем переменные окружения")
	}

	app := fx.New(
		appfx.ConfigModule,     // config.Config
		appfx.LoggerModule,     // *slog.Logger
		appfx.ClientsModule,    // *weather.Client, *photos.Client
		appfx.GenerationModule, // generation.Tracker
		appfx.EventsModule,     // events.Publisher
		appfx.SearchModule,     // *search.Orchestrator
		appfx.ServerModule,     // запускает HTTP сервер

		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			l := &fxevent.SlogLogger{Logger: logger}
			l.UseLogLevel(slog.LevelDebug)
			return l
		}),
	)

	app.Run()
}
