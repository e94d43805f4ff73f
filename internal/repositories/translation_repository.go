package repositories

import (
	"context"

	"eventify_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TranslationRepository interface {
	FindByLocale(ctx context.Context, locale string) ([]models.Translation, error)
	UpsertMany(ctx context.Context, translations []models.Translation) error
}

type TranslationRepositoryImpl struct {
	db *gorm.DB
}

func NewTranslationRepository(db *gorm.DB) TranslationRepository {
	return &TranslationRepositoryImpl{db: db}
}

func (r *TranslationRepositoryImpl) FindByLocale(ctx context.Context, locale string) ([]models.Translation, error) {
	var translations []models.Translation
	err := r.db.WithContext(ctx).
		Where("locale = ?", locale).
		Order("key ASC").
		Find(&translations).Error
	return translations, err
}

// UpsertMany writes translation rows, updating the value on (locale, key)
// conflicts. Seeding runs this on every startup.
func (r *TranslationRepositoryImpl) UpsertMany(ctx context.Context, translations []models.Translation) error {
	if len(translations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "locale"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&translations).Error
}
