package search

import (
	"fmt"
	"sync"

	"github.com/gometeo/tripview/internal/model"
	"github.com/gometeo/tripview/internal/render"
)

// Ticket - номер одного поиска на поверхности. Итоговое состояние может
// отрисовать только последний билет.
type Ticket uint64

// Surface связывает renderer с текущим состоянием и пропускает только
// переходы из таблицы model.UIState.
type Surface struct {
	mu       sync.Mutex
	renderer render.Renderer
	session  string
	state    model.UIState
	ticket   Ticket
}

// NewSurface стартует в Idle. Поиски одной сессии вытесняют друг друга.
func NewSurface(r render.Renderer, session string) *Surface {
	return &Surface{renderer: r, session: session, state: model.Idle}
}

func (s *Surface) Session() string { return s.session }

func (s *Surface) State() model.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start показывает загрузку для нового поиска и возвращает его билет.
// Прежние билеты больше ничего не отрисуют.
func (s *Surface) Start() (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.move(model.Loading, s.renderer.ShowLoading); err != nil {
		return 0, err
	}
	s.ticket++
	return s.ticket, nil
}

// Fail показывает ошибку. ErrSuperseded значит, что поверхностью владеет
// более новый поиск и ничего не отрисовано.
func (s *Surface) Fail(t Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.ticket {
		return ErrSuperseded
	}
	return s.move(model.Error, s.renderer.ShowError)
}

// Succeed отрисовывает v, правило билетов то же, что у Fail.
func (s *Surface) Succeed(t Ticket, v render.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.ticket {
		return ErrSuperseded
	}
	return s.move(model.Success, func() { s.renderer.ShowResults(v) })
}

// move вызывается под s.mu.
func (s *Surface) move(next model.UIState, paint func()) error {
	if !s.state.CanTransition(next) {
		return fmt.Errorf("недопустимый переход ui %s -> %s", s.state, next)
	}
	s.state = next
	paint()
	return nil
}
