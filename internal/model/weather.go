package model

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxPhotos - размер страницы, запрашиваемой у сервиса фото
const MaxPhotos = 6

// ErrEmptyQuery возвращается для пустого ввода или ввода из одних пробелов.
var ErrEmptyQuery = errors.New("пустой запрос направления")

// SearchQuery - обрезанное непустое название направления
type SearchQuery string

// ParseQuery обрезает ввод пользователя и отклоняет его, если ничего не осталось.
func ParseQuery(raw string) (SearchQuery, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return SearchQuery(q), nil
}

func (q SearchQuery) String() string { return string(q) }

// WeatherResult - текущая погода для одного направления, готовая к отрисовке
type WeatherResult struct {
	Location     string `json:"location"`
	TemperatureC int    `json:"temperature_c"`
	Description  string `json:"description"`
}

// PhotoSet хранит URL фото в том порядке, в котором их вернул сервис.
type PhotoSet []string

// RoundTemperature округляет половину вверх: 21.5 -> 22, -2.5 -> -2.
func RoundTemperature(t float64) int {
	return int(math.Floor(t + 0.5))
}

// Capitalize делает первую букву заглавной, остальное не трогает.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	// Caser нельзя использовать из нескольких горутин
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}
