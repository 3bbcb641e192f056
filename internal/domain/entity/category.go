package entity

// UncategorizedLabel etiqueta para refacciones sin categoría resoluble.
const UncategorizedLabel = "Sin categoría"

// Category categoría del catálogo de refacciones.
type Category struct {
	ID   int64
	Name string
}
