package scheduling

import (
	"fmt"

	"github.com/ataboada/clinica-core/internal/model"
)

// Bolivian national holidays with a fixed calendar date. Moveable feasts
// (Carnaval, Viernes Santo, Corpus Christi) shift every year and are entered
// on the agenda by hand.
var fixedHolidays = []struct {
	month, day int
	name       string
}{
	{1, 1, "Año Nuevo"},
	{1, 22, "Día del Estado Plurinacional"},
	{5, 1, "Día del Trabajo"},
	{6, 21, "Año Nuevo Aymara"},
	{8, 6, "Día de la Independencia"},
	{11, 2, "Día de Todos los Difuntos"},
	{12, 25, "Navidad"},
}

// Holidays returns the fixed-date national holidays for the given year, in
// calendar order.
func Holidays(year int) []model.Holiday {
	out := make([]model.Holiday, 0, len(fixedHolidays))
	for _, h := range fixedHolidays {
		out = append(out, model.Holiday{
			Date: fmt.Sprintf("%04d-%02d-%02d", year, h.month, h.day),
			Name: h.name,
		})
	}
	return out
}
