package dto

import "time"

// CreateProjectRequest entrada para crear una obra.
type CreateProjectRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Code     string `json:"code" validate:"max=50"`
	Location string `json:"location"`
}

// UpdateProjectRequest entrada para actualizar una obra.
type UpdateProjectRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Code     *string `json:"code" validate:"omitempty,max=50"`
	Location *string `json:"location"`
	Status   *string `json:"status" validate:"omitempty,oneof=active closed"`
}

// ProjectResponse salida de una obra.
type ProjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Location  string    `json:"location"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectListResponse lista paginada de obras.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
