package render

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gometeo/tripview/internal/model"
)

// StreamEvent - данные одного server-sent события "state"
type StreamEvent struct {
	State model.UIState `json:"state"`
	View  *View         `json:"view,omitempty"`
}

// EventStream отрисовывает каждый переход как server-sent event.
type EventStream struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func NewEventStream(w io.Writer) *EventStream {
	return &EventStream{w: w}
}

func (s *EventStream) ShowLoading()       { s.send(StreamEvent{State: model.Loading}) }
func (s *EventStream) ShowError()         { s.send(StreamEvent{State: model.Error}) }
func (s *EventStream) ShowResults(v View) { s.send(StreamEvent{State: model.Success, View: &v}) }

// Err возвращает первую ошибку записи, обычно клиент уже ушел.
func (s *EventStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *EventStream) send(ev StreamEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		s.err = err
		return
	}
	if _, err := fmt.Fprintf(s.w, "event: state\ndata: %s\n\n", data); err != nil {
		s.err = err
		return
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
}
