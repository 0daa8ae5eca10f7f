package render

import (
	"sync"

	"github.com/gometeo/tripview/internal/model"
)

// Snapshot запоминает отрисованное, чтобы потом собрать ответ.
type Snapshot struct {
	mu          sync.Mutex
	state       model.UIState
	view        *View
	transitions []model.UIState
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

func (s *Snapshot) ShowLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(model.Loading)
	s.view = nil
}

func (s *Snapshot) ShowError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(model.Error)
	s.view = nil
}

func (s *Snapshot) ShowResults(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(model.Success)
	s.view = &v
}

func (s *Snapshot) set(state model.UIState) {
	s.state = state
	s.transitions = append(s.transitions, state)
}

func (s *Snapshot) State() model.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View возвращает отрисованный результат или nil вне состояния Success.
func (s *Snapshot) View() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		return nil
	}
	v := *s.view
	return &v
}

func (s *Snapshot) Transitions() []model.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.UIState(nil), s.transitions...)
}
