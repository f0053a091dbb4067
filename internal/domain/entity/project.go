package entity

import "time"

// Estados de una obra.
const (
	ProjectStatusActive = "active"
	ProjectStatusClosed = "closed"
)

// Project representa una obra donde se almacena y consume material.
type Project struct {
	ID        string
	Name      string
	Code      string
	Location  string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
