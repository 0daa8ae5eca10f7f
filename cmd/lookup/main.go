package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gometeo/tripview/internal/config"
	"github.com/gometeo/tripview/internal/logging"
	"github.com/gometeo/tripview/internal/model"
	"github.com/gometeo/tripview/internal/photos"
	"github.com/gometeo/tripview/internal/render"
	"github.com/gometeo/tripview/internal/search"
	"github.com/gometeo/tripview/internal/weather"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lookup <city> [-debug]")
	fmt.Fprintln(w, "Examples: lookup Kyoto")
	fmt.Fprintln(w, "          lookup \"New York\" -debug")
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], config.Load(), os.Stdout, os.Stderr))
}

// run ищет одно направление и возвращает код выхода процесса.
func run(ctx context.Context, args []string, cfg config.Config, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stdout)
		return 2
	}

	city := args[0]
	cfg.LogLevel = "warn"
	for _, arg := range args[1:] {
		switch {
		case arg == "-debug":
			cfg.LogLevel = "debug"
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(stderr, "Unknown flag: %s\n", arg)
			usage(stderr)
			return 2
		}
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger := logging.NewWithWriter(stderr, cfg)

	w := weather.NewClient(cfg.OpenWeatherAPIKey, logger, weather.WithBaseURL(cfg.WeatherBaseURL))
	p := photos.NewClient(cfg.UnsplashAccessKey, logger, photos.WithBaseURL(cfg.PhotosBaseURL))
	orch := search.NewOrchestrator(w, p, nil, nil, logger)

	surface := search.NewSurface(render.NewTerminal(stdout), "")
	res, err := orch.Search(ctx, surface, city)
	if err != nil {
		if errors.Is(err, model.ErrEmptyQuery) {
			fmt.Fprintln(stderr, "Please enter a destination name.")
			return 2
		}
		logger.Debug("Поиск не удался", "error", err)
	}
	if res.State != model.Success {
		return 1
	}
	return 0
}
