// Package render превращает результаты поиска в то, что может отрисовать поверхность.
package render

import (
	"strconv"

	"github.com/gometeo/tripview/internal/model"
)

const NoPhotosMessage = "No photos available for this query."

// Renderer - поверхность, на которой рисует оркестратор
type Renderer interface {
	ShowLoading()
	ShowError()
	ShowResults(v View)
}

// View - все, что показывает состояние Success
type View struct {
	Location    string  `json:"location"`
	Temperature string  `json:"temperature"`
	Description string  `json:"description"`
	Gallery     Gallery `json:"gallery"`
}

// Gallery - либо список ячеек, либо одна заглушка, но не оба сразу
type Gallery struct {
	Cells       []Cell `json:"cells,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

type Cell struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

func Temperature(c int) string {
	return strconv.Itoa(c) + "°C"
}

// NewGallery создает по ячейке на URL по порядку, alt строится из altLabel.
func NewGallery(urls model.PhotoSet, altLabel string) Gallery {
	if len(urls) == 0 {
		return Gallery{Placeholder: NoPhotosMessage}
	}
	cells := make([]Cell, len(urls))
	for i, u := range urls {
		cells[i] = Cell{URL: u, Alt: "View of " + altLabel}
	}
	return Gallery{Cells: cells}
}

func NewView(w model.WeatherResult, photos model.PhotoSet, altLabel string) View {
	return View{
		Location:    w.Location,
		Temperature: Temperature(w.TemperatureC),
		Description: w.Description,
		Gallery:     NewGallery(photos, altLabel),
	}
}
