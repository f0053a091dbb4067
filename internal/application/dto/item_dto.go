package dto

import "time"

// CreateItemRequest entrada para crear un item del catálogo.
type CreateItemRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Type        string `json:"type" validate:"omitempty,oneof=material machine"`
	Category    string `json:"category" validate:"max=100"`
	Unit        string `json:"unit" validate:"required,max=30"`
	HSNCode     string `json:"hsn_code" validate:"max=30"`
	Description string `json:"description"`
}

// UpdateItemRequest entrada para actualizar los campos descriptivos de un item.
type UpdateItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	HSNCode     *string `json:"hsn_code" validate:"omitempty,max=30"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// ItemResponse salida de un item.
type ItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Unit        string    `json:"unit"`
	HSNCode     string    `json:"hsn_code"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemListResponse lista paginada de items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
