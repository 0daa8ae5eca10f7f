package fx

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"

	"github.com/gometeo/tripview/internal/api"
	"github.com/gometeo/tripview/internal/api/handlers"
	"github.com/gometeo/tripview/internal/config"
	"github.com/gometeo/tripview/internal/generation"
	"github.com/gometeo/tripview/internal/search"
)

// ServerModule предоставляет HTTP сервер и запускает его вместе с приложением
var ServerModule = fx.Module("server",
	fx.Provide(
		NewSearchHandler,
		NewHTTPServer,
	),
	fx.Invoke(StartServer),
)

// HandlerParams группирует зависимости хендлера
type HandlerParams struct {
	fx.In
	Orchestrator *search.Orchestrator
	Redis        *generation.Redis `optional:"true"`
	Logger       *slog.Logger
}

func NewSearchHandler(p HandlerParams) *handlers.SearchHandler {
	h := handlers.NewSearchHandler(p.Orchestrator, p.Logger)
	if p.Redis != nil {
		h.AddHealthCheck("redis", p.Redis)
	}
	return h
}

func NewHTTPServer(cfg config.Config, h *handlers.SearchHandler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      api.NewRouter(h, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// StartServer слушает порт при старте и закрывает соединения при остановке
func StartServer(lc fx.Lifecycle, srv *http.Server, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info("Сервер запущен", "addr", srv.Addr)
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("Ошибка сервера", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Остановка сервера...")
			return srv.Shutdown(ctx)
		},
	})
}
