package events

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/IBM/sarama"

	"github.com/gometeo/tripview/internal/model"
)

// Destination - одна строка рейтинга направлений
type Destination struct {
	City      string
	Searches  int
	Successes int
}

// Tally считает поиски по направлениям в памяти.
type Tally struct {
	mu     sync.Mutex
	cities map[string]*Destination
}

func NewTally() *Tally {
	return &Tally{cities: make(map[string]*Destination)}
}

func (t *Tally) Add(ev model.SearchEvent) {
	key := strings.ToLower(ev.City)

	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.cities[key]
	if !ok {
		d = &Destination{City: ev.City}
		t.cities[key] = d
	}
	d.Searches++
	if ev.State == model.Success {
		d.Successes++
	}
}

// Top возвращает n самых искомых направлений, при равенстве по имени.
func (t *Tally) Top(n int) []Destination {
	t.mu.Lock()
	out := make([]Destination, 0, len(t.cities))
	for _, d := range t.cities {
		out = append(out, *d)
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Searches != out[j].Searches {
			return out[i].Searches > out[j].Searches
		}
		return out[i].City < out[j].City
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ConsumerHandler передает события поиска из Kafka в Tally.
type ConsumerHandler struct {
	logger *slog.Logger
	tally  *Tally
}

func NewConsumerHandler(tally *Tally, logger *slog.Logger) *ConsumerHandler {
	return &ConsumerHandler{logger: logger, tally: tally}
}

func (h *ConsumerHandler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *ConsumerHandler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *ConsumerHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var ev model.SearchEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			// битые события пропускаем, повторно они не придут
			h.logger.Error("Битый JSON события поиска", "offset", msg.Offset, "error", err)
			sess.MarkMessage(msg, "")
			continue
		}

		h.tally.Add(ev)
		h.logger.Info("Поиск учтен",
			"city", ev.City,
			"state", ev.State,
			"photos", ev.PhotoCount)

		sess.MarkMessage(msg, "")
	}
	return nil
}
