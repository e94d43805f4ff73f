package models

import "time"

// Event is the owning entity of the image pipeline: ImageURL holds either an
// external URL supplied by a client, a local reference written by ingestion,
// or nothing.
type Event struct {
	BaseModel
	Title            string       `gorm:"not null" json:"title"`
	Description      string       `json:"description"`
	ImageURL         string       `gorm:"column:image_url" json:"image_url"`
	Location         string       `json:"location"`
	StartTime        *time.Time   `json:"start_time"`
	UserID           string       `gorm:"type:uuid;index" json:"user_id"`
	TicketsAvailable int          `json:"tickets_available"`
	TicketTypes      []TicketType `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"ticket_types"`
}

type TicketType struct {
	BaseModel
	EventID string  `gorm:"type:uuid;index;not null" json:"event_id"`
	Name    string  `gorm:"not null" json:"name"`
	Price   float64 `gorm:"not null" json:"price"`
}
