package entity

import "time"

// Tipos de item del catálogo.
const (
	ItemTypeMaterial = "material"
	ItemTypeMachine  = "machine"
)

// Item representa una entrada del catálogo (material o máquina) con su unidad de medida.
// Una vez referenciado por stock solo cambian los campos descriptivos.
type Item struct {
	ID          string
	Name        string
	Type        string
	Category    string
	Unit        string
	HSNCode     string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidItemType indica si t es un tipo de item conocido.
func ValidItemType(t string) bool {
	return t == ItemTypeMaterial || t == ItemTypeMachine
}
