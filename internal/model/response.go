package model

import "time"

// ErrorResponse - JSON тело любой ошибки API
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SearchEvent - структура, которая летает через Kafka после завершения поиска
type SearchEvent struct {
	RequestID  string    `json:"request_id"`
	Session    string    `json:"session,omitempty"`
	City       string    `json:"city"`
	State      UIState   `json:"state"`
	PhotoCount int       `json:"photo_count"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}
