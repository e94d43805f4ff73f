package dto

import "time"

type TicketTypeInput struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Price float64 `json:"price" validate:"min=0"`
}

type CreateEventRequest struct {
	Title            string            `json:"title" validate:"required,max=255"`
	Description      string            `json:"description"`
	ImageURL         string            `json:"image_url" validate:"omitempty,url"`
	Location         string            `json:"location" validate:"max=255"`
	StartTime        *time.Time        `json:"start_time"`
	TicketsAvailable *int              `json:"tickets_available" validate:"omitempty,min=0"`
	TicketTypes      []TicketTypeInput `json:"tickets" validate:"dive"`
}

// UpdateEventRequest uses pointers so absent fields are left unchanged.
type UpdateEventRequest struct {
	Title            *string            `json:"title" validate:"omitempty,max=255"`
	Description      *string            `json:"description"`
	ImageURL         *string            `json:"image_url" validate:"omitempty,url"`
	Location         *string            `json:"location" validate:"omitempty,max=255"`
	StartTime        *time.Time         `json:"start_time"`
	TicketsAvailable *int               `json:"tickets_available" validate:"omitempty,min=0"`
	TicketTypes      *[]TicketTypeInput `json:"tickets" validate:"omitempty,dive"`
}
