package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"eventify_backend/internal/repositories"
	"eventify_backend/pkg/apperrors"
)

const translationCacheTTL = time.Hour

// Locale describes a supported UI language.
type Locale struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// SupportedLocales is the fixed catalog of UI languages.
var SupportedLocales = []Locale{
	{Code: "en", Name: "English", Flag: "🇬🇧"},
	{Code: "et", Name: "Eesti", Flag: "🇪🇪"},
}

type TranslationService interface {
	// Translations returns the locale's messages as a nested map, where
	// dotted keys become object paths ("auth.login.title" ->
	// {"auth": {"login": {"title": ...}}}).
	Translations(ctx context.Context, locale string) (map[string]interface{}, error)
	Locales() []Locale
}

type cachedTranslations struct {
	data      map[string]interface{}
	expiresAt time.Time
}

type TranslationServiceImpl struct {
	repo repositories.TranslationRepository

	mu    sync.Mutex
	cache map[string]cachedTranslations
}

func NewTranslationService(repo repositories.TranslationRepository) TranslationService {
	return &TranslationServiceImpl{
		repo:  repo,
		cache: make(map[string]cachedTranslations),
	}
}

func (s *TranslationServiceImpl) Translations(ctx context.Context, locale string) (map[string]interface{}, error) {
	if !isSupportedLocale(locale) {
		return nil, apperrors.NewBadRequestError("unsupported locale")
	}

	s.mu.Lock()
	if entry, ok := s.cache[locale]; ok && time.Now().Before(entry.expiresAt) {
		s.mu.Unlock()
		return entry.data, nil
	}
	s.mu.Unlock()

	rows, err := s.repo.FindByLocale(ctx, locale)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	nested := make(map[string]interface{})
	for _, row := range rows {
		insertDotted(nested, row.Key, row.Value)
	}

	s.mu.Lock()
	s.cache[locale] = cachedTranslations{data: nested, expiresAt: time.Now().Add(translationCacheTTL)}
	s.mu.Unlock()

	return nested, nil
}

func (s *TranslationServiceImpl) Locales() []Locale {
	return SupportedLocales
}

func isSupportedLocale(code string) bool {
	for _, l := range SupportedLocales {
		if l.Code == code {
			return true
		}
	}
	return false
}

// insertDotted writes value at the dotted path inside target. When a path
// segment collides with an existing leaf, the leaf is replaced by a map so
// later keys still land somewhere deterministic.
func insertDotted(target map[string]interface{}, key, value string) {
	parts := strings.Split(key, ".")
	current := target
	for i, part := range parts {
		if i == len(parts)-1 {
			current[part] = value
			return
		}
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[part] = next
		}
		current = next
	}
}
