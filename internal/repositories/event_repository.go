package repositories

import (
	"context"
	"errors"
	"fmt"

	"eventify_backend/internal/imaging"
	"eventify_backend/internal/models"

	"gorm.io/gorm"
)

// ErrEventNotFound wraps imaging.ErrEventGone so the ingestion pipeline can
// recognize a missing event through the same sentinel the HTTP layer maps
// to a 404.
var ErrEventNotFound = fmt.Errorf("event not found: %w", imaging.ErrEventGone)

type EventRepository interface {
	FindByID(ctx context.Context, id string) (*models.Event, error)
	FindAll(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	ReplaceTicketTypes(ctx context.Context, eventID string, ticketTypes []models.TicketType) error
	UpdateImageURLQuietly(ctx context.Context, id, imageURL string) error
}

type EventRepositoryImpl struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &EventRepositoryImpl{db: db}
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Preload("TicketTypes").First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) FindAll(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).Preload("TicketTypes").
		Order("start_time ASC NULLS LAST, created_at DESC").
		Find(&events).Error
	return events, err
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *EventRepositoryImpl) Update(ctx context.Context, event *models.Event) error {
	result := r.db.WithContext(ctx).Model(event).Updates(map[string]interface{}{
		"title":             event.Title,
		"description":       event.Description,
		"image_url":         event.ImageURL,
		"location":          event.Location,
		"start_time":        event.StartTime,
		"tickets_available": event.TicketsAvailable,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Select("TicketTypes").Delete(&models.Event{BaseModel: models.BaseModel{ID: id}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ReplaceTicketTypes swaps the full set of ticket types in one transaction.
func (r *EventRepositoryImpl) ReplaceTicketTypes(ctx context.Context, eventID string, ticketTypes []models.TicketType) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.TicketType{}).Error; err != nil {
			return err
		}
		if len(ticketTypes) == 0 {
			return nil
		}
		for i := range ticketTypes {
			ticketTypes[i].EventID = eventID
		}
		return tx.Create(&ticketTypes).Error
	})
}

// UpdateImageURLQuietly writes only the image_url column, bypassing model
// hooks so ingestion never re-triggers itself. A missing row maps to
// imaging.ErrEventGone, which keeps ingestion from resurrecting an event
// deleted while its image was in flight.
func (r *EventRepositoryImpl) UpdateImageURLQuietly(ctx context.Context, id, imageURL string) error {
	result := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", id).
		UpdateColumn("image_url", imageURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return imaging.ErrEventGone
	}
	return nil
}
