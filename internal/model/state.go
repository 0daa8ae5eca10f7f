package model

import "fmt"

// UIState - то, что сейчас показывает поверхность отрисовки. В каждый момент
// видно ровно одно состояние.
type UIState int

const (
	Idle UIState = iota
	Loading
	Success
	Error
)

func (s UIState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("UIState(%d)", int(s))
	}
}

// MarshalText выводит состояния строками в JSON и логах.
func (s UIState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CanTransition сообщает, может ли поверхность перейти из s в next.
func (s UIState) CanTransition(next UIState) bool {
	switch s {
	case Idle, Success, Error:
		return next == Loading
	case Loading:
		// новый поиск во время загрузки забирает поверхность себе
		return next == Loading || next == Success || next == Error
	default:
		return false
	}
}

// UnmarshalText разбирает имена, которые выдает MarshalText.
func (s *UIState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = Idle
	case "loading":
		*s = Loading
	case "success":
		*s = Success
	case "error":
		*s = Error
	default:
		return fmt.Errorf("неизвестное состояние ui %q", b)
	}
	return nil
}
