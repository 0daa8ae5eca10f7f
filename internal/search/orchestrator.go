// Package search выполняет поиск направления: погода и фото запрашиваются
// параллельно, объединяются и отрисовываются на поверхности.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gometeo/tripview/internal/events"
	"github.com/gometeo/tripview/internal/generation"
	"github.com/gometeo/tripview/internal/model"
	"github.com/gometeo/tripview/internal/render"
)

var (
	// ErrJoinFailed: задача запроса упала, не вернув результат.
	ErrJoinFailed = errors.New("задачи поиска упали")
	// ErrSuperseded: поверхностью владеет более новый поиск той же сессии.
	ErrSuperseded = errors.New("поиск вытеснен более новым")
	// ErrWeatherUnavailable возвращается вместе с состоянием Error.
	ErrWeatherUnavailable = errors.New("погода недоступна")
)

type WeatherFetcher interface {
	Fetch(ctx context.Context, city string) *model.WeatherResult
}

type PhotoFetcher interface {
	Fetch(ctx context.Context, query string) model.PhotoSet
}

// Result описывает один завершенный поиск.
type Result struct {
	RequestID string
	Query     model.SearchQuery
	State     model.UIState
	Weather   *model.WeatherResult
	Photos    model.PhotoSet
}

type Orchestrator struct {
	weather     WeatherFetcher
	photos      PhotoFetcher
	generations generation.Tracker
	publisher   events.Publisher
	logger      *slog.Logger
}

func NewOrchestrator(w WeatherFetcher, p PhotoFetcher, gens generation.Tracker, pub events.Publisher, logger *slog.Logger) *Orchestrator {
	if gens == nil {
		gens = generation.NewMemory()
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Orchestrator{
		weather:     w,
		photos:      p,
		generations: gens,
		publisher:   pub,
		logger:      logger,
	}
}

// Search проверяет raw, показывает загрузку, выполняет оба запроса и
// отрисовывает итог. На пустой ввод возвращает model.ErrEmptyQuery, не
// трогая ни поверхность, ни сеть.
func (o *Orchestrator) Search(ctx context.Context, surface *Surface, raw string) (Result, error) {
	query, err := model.ParseQuery(raw)
	if err != nil {
		return Result{State: surface.State()}, err
	}

	start := time.Now()
	res := Result{RequestID: uuid.NewString(), Query: query}
	logger := o.logger.With("request_id", res.RequestID, "city", query.String(), "session", surface.Session())

	ticket, err := surface.Start()
	if err != nil {
		return res, err
	}

	gen, err := o.generations.Next(ctx, surface.Session())
	if err != nil {
		// без поколения: поиск отрисуется независимо от более новых
		logger.Warn("Не удалось начать поколение поиска", "error", err)
		gen = 0
	}
	logger.Debug("Поиск начат", "generation", gen)

	weather, photos, joinErr := o.fetch(ctx, query)

	if gen != 0 && !o.isCurrent(ctx, surface.Session(), gen, logger) {
		return o.superseded(res, surface, gen, logger)
	}

	var perr error
	switch {
	case joinErr != nil:
		logger.Error("Поиск завершился ошибкой", "error", joinErr)
		res.State = model.Error
		err = fmt.Errorf("%w: %w", ErrJoinFailed, joinErr)
		perr = surface.Fail(ticket)
	case weather == nil:
		res.State = model.Error
		err = ErrWeatherUnavailable
		perr = surface.Fail(ticket)
	default:
		res.State = model.Success
		res.Weather = weather
		res.Photos = photos
		perr = surface.Succeed(ticket, render.NewView(*weather, photos, query.String()))
	}
	if errors.Is(perr, ErrSuperseded) {
		return o.superseded(Result{RequestID: res.RequestID, Query: query}, surface, gen, logger)
	}
	if perr != nil {
		return res, perr
	}

	duration := time.Since(start)
	logger.Info("Поиск завершен",
		"state", res.State,
		"photos", len(res.Photos),
		"duration_ms", duration.Milliseconds())

	o.publish(ctx, model.SearchEvent{
		RequestID:  res.RequestID,
		Session:    surface.Session(),
		City:       query.String(),
		State:      res.State,
		PhotoCount: len(res.Photos),
		DurationMs: duration.Milliseconds(),
		Timestamp:  start,
	}, logger)

	return res, err
}

// fetch запускает оба запроса и ждет оба. Паника в задаче превращается в
// ошибку, и группа отменяет соседнюю задачу.
func (o *Orchestrator) fetch(ctx context.Context, query model.SearchQuery) (*model.WeatherResult, model.PhotoSet, error) {
	var (
		weather *model.WeatherResult
		photos  model.PhotoSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverTask("weather", &err)
		weather = o.weather.Fetch(gctx, query.String())
		return nil
	})
	g.Go(func() (err error) {
		defer recoverTask("photos", &err)
		photos = o.photos.Fetch(gctx, query.String())
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if photos == nil {
		photos = model.PhotoSet{}
	}
	return weather, photos, nil
}

func recoverTask(name string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("паника в задаче %s: %v\n%s", name, r, debug.Stack())
	}
}

func (o *Orchestrator) isCurrent(ctx context.Context, session string, gen int64, logger *slog.Logger) bool {
	cur, err := o.generations.Current(ctx, session)
	if err != nil {
		logger.Warn("Не удалось прочитать поколение поиска", "error", err)
		return true
	}
	return cur == gen
}

func (o *Orchestrator) superseded(res Result, surface *Surface, gen int64, logger *slog.Logger) (Result, error) {
	logger.Info("Поиск вытеснен, результаты отброшены", "generation", gen)
	res.State = surface.State()
	return res, ErrSuperseded
}

func (o *Orchestrator) publish(ctx context.Context, ev model.SearchEvent, logger *slog.Logger) {
	if err := o.publisher.Publish(ctx, ev); err != nil {
		logger.Warn("Событие поиска не отправлено", "error", err)
	}
}
