package models

import "slices"

// Districts is the fixed set of districts a persona can live in.
var Districts = []string{
	"Ancón", "Ate", "Barranco", "Breña", "Callao", "Carabayllo", "Chaclacayo",
	"Chorrillos", "Cieneguilla", "Comas", "El Agustino", "Independencia",
	"Jesús María", "La Molina", "La Perla", "La Punta", "La Victoria", "Lima",
	"Lince", "Los Olivos", "Lurigancho", "Lurín", "Magdalena del Mar",
	"Miraflores", "Pachacámac", "Pucusana", "Pueblo Libre", "Puente Piedra",
	"Punta Hermosa", "Punta Negra", "Rímac", "San Bartolo", "San Borja",
	"San Isidro", "San Juan de Lurigancho", "San Juan de Miraflores",
	"San Luis", "San Martín de Porres", "San Miguel", "Santa Anita",
	"Santa María del Mar", "Santa Rosa", "Surco", "Surquillo",
	"Villa El Salvador", "Villa María del Triunfo",
}

// Universities is the fixed set of universities a persona can be linked to.
var Universities = []string{
	"Pontificia Universidad Católica del Perú",
	"Universidad Nacional Mayor de San Marcos",
	"Universidad Nacional de Ingeniería",
	"Universidad Nacional Agraria La Molina",
	"Universidad Nacional Federico Villarreal",
	"Universidad de Lima",
	"Universidad del Pacífico",
	"Universidad Peruana de Ciencias Aplicadas",
	"Universidad Peruana Cayetano Heredia",
	"Universidad San Ignacio de Loyola",
	"Universidad de Ingeniería y Tecnología",
	"Universidad Científica del Sur",
	"Universidad de San Martín de Porres",
	"Universidad Ricardo Palma",
	"Universidad ESAN",
	"Universidad Tecnológica del Perú",
	"Universidad César Vallejo",
}

// IsDistrict reports whether name is one of [Districts], compared exactly.
func IsDistrict(name string) bool { return slices.Contains(Districts, name) }

// IsUniversity reports whether name is one of [Universities], compared exactly.
func IsUniversity(name string) bool { return slices.Contains(Universities, name) }

// Cycle returns the value after current in options, wrapping through "" (unset).
//
// Used by selectors that step through an enumeration with one key.
func Cycle(options []string, current string, step int) string {
	ring := append([]string{""}, options...)
	idx := slices.Index(ring, current)
	if idx < 0 {
		idx = 0
	}
	n := len(ring)
	return ring[((idx+step)%n+n)%n]
}
