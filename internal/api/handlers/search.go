package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gometeo/tripview/internal/model"
	"github.com/gometeo/tripview/internal/render"
	"github.com/gometeo/tripview/internal/search"
)

const (
	promptEmpty      = "Please enter a destination name."
	promptSuperseded = "A newer search replaced this one."
)

// Searcher - часть search.Orchestrator, нужная хендлерам
type Searcher interface {
	Search(ctx context.Context, surface *search.Surface, raw string) (search.Result, error)
}

// Pinger реализуют зависимости, которые проверяет health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SearchResponse - JSON тело ответа /api/v1/search
type SearchResponse struct {
	RequestID   string          `json:"request_id,omitempty"`
	Query       string          `json:"query"`
	State       model.UIState   `json:"state"`
	Transitions []model.UIState `json:"transitions"`
	View        *render.View    `json:"view,omitempty"`
}

type SearchHandler struct {
	searcher Searcher
	pingers  map[string]Pinger
	logger   *slog.Logger
}

func NewSearchHandler(searcher Searcher, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		searcher: searcher,
		pingers:  make(map[string]Pinger),
		logger:   logger,
	}
}

// AddHealthCheck регистрирует зависимость для HealthCheck под именем name.
func (h *SearchHandler) AddHealthCheck(name string, p Pinger) {
	h.pingers[name] = p
}

// Index отдает пустую страницу поиска
func (h *SearchHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, http.StatusOK, render.Page{State: model.Idle})
}

// SearchPage ищет ?city= и отвечает отрисованной страницей
func (h *SearchHandler) SearchPage(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	snap := render.NewSnapshot()
	surface := search.NewSurface(snap, SessionFrom(r.Context()))

	_, err := h.searcher.Search(r.Context(), surface, city)
	switch {
	case errors.Is(err, model.ErrEmptyQuery):
		h.writePage(w, http.StatusBadRequest, render.Page{Query: city, Prompt: promptEmpty})
		return
	case errors.Is(err, search.ErrSuperseded):
		h.writePage(w, http.StatusConflict, render.Page{Query: city, Prompt: promptSuperseded})
		return
	}

	h.writePage(w, statusFor(snap.State()), render.PageFrom(city, snap))
}

// SearchJSON ищет ?q= и возвращает то, что было отрисовано
func (h *SearchHandler) SearchJSON(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query().Get("q")
	snap := render.NewSnapshot()
	surface := search.NewSurface(snap, SessionFrom(r.Context()))

	res, err := h.searcher.Search(r.Context(), surface, q)
	switch {
	case errors.Is(err, model.ErrEmptyQuery):
		sendError(w, http.StatusBadRequest, promptEmpty, "")
		return
	case errors.Is(err, search.ErrSuperseded):
		sendError(w, http.StatusConflict, "Search superseded", promptSuperseded)
		return
	}

	sendJSON(w, statusFor(snap.State()), SearchResponse{
		RequestID:   res.RequestID,
		Query:       res.Query.String(),
		State:       snap.State(),
		Transitions: snap.Transitions(),
		View:        snap.View(),
	})

	h.logger.Debug("Ответ на поиск отдан",
		"request_id", res.RequestID,
		"state", snap.State(),
		"duration_ms", time.Since(start).Milliseconds())
}

// SearchStream ищет ?q= и отправляет каждую смену состояния как
// server-sent event
func (h *SearchHandler) SearchStream(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if _, err := model.ParseQuery(q); err != nil {
		sendError(w, http.StatusBadRequest, promptEmpty, "")
		return
	}
	if _, ok := w.(http.Flusher); !ok {
		sendError(w, http.StatusInternalServerError, "Streaming unsupported", "")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	stream := render.NewEventStream(w)
	surface := search.NewSurface(stream, SessionFrom(r.Context()))

	_, err := h.searcher.Search(r.Context(), surface, q)
	if errors.Is(err, search.ErrSuperseded) {
		fmt.Fprint(w, "event: superseded\ndata: {}\n\n")
	}
	if serr := stream.Err(); serr != nil {
		h.logger.Warn("Поток событий прерван", "error", serr)
	}
}

// HealthCheck проверяет доступность зарегистрированных зависимостей
func (h *SearchHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	health := map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}

	for name, p := range h.pingers {
		if err := p.Ping(ctx); err != nil {
			health[name] = "unhealthy"
			health["status"] = "degraded"
			h.logger.Error("Health check: зависимость недоступна", "dependency", name, "error", err)
		} else {
			health[name] = "healthy"
		}
	}

	status := http.StatusOK
	if health["status"] == "degraded" {
		status = http.StatusServiceUnavailable
	}

	sendJSON(w, status, health)
}

func (h *SearchHandler) writePage(w http.ResponseWriter, status int, p render.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := render.WritePage(w, p); err != nil {
		h.logger.Error("Ошибка отрисовки страницы", "error", err)
	}
}

func statusFor(state model.UIState) int {
	if state == model.Error {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, status int, errorMsg, details string) {
	sendJSON(w, status, model.ErrorResponse{
		Error:   errorMsg,
		Message: details,
	})
}
