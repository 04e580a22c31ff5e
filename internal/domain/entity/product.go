package entity

import "time"

// Product representa un producto terminado que se fabrica consumiendo insumos.
// Recipe indica cuánto de cada insumo se consume por unidad producida;
// aplica la misma regla que los compuestos: sin componentes repetidos.
type Product struct {
	ID        string
	Name      string
	Recipe    []RecipeLine
	CreatedAt time.Time
	UpdatedAt time.Time
}
