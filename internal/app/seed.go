package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eventify_backend/internal/auth"
	"eventify_backend/internal/config"
	"eventify_backend/internal/logger"
	"eventify_backend/internal/models"
	"eventify_backend/internal/repositories"
	"eventify_backend/internal/services"

	"gorm.io/gorm"
)

// Seed makes the database usable on first boot: permissions, roles with
// their grants, the first admin user, and translation messages. Every step
// is re-runnable.
func Seed(db *gorm.DB, cfg *config.Config) error {
	ctx := context.Background()
	roleRepo := repositories.NewRoleRepository(db)

	if err := seedRolesAndPermissions(ctx, roleRepo); err != nil {
		return fmt.Errorf("seeding roles: %w", err)
	}
	if err := seedFirstAdmin(db, cfg); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if err := seedTranslations(ctx, repositories.NewTranslationRepository(db), cfg.Seed.LangDir); err != nil {
		return fmt.Errorf("seeding translations: %w", err)
	}
	return nil
}

func seedRolesAndPermissions(ctx context.Context, roleRepo repositories.RoleRepository) error {
	for _, slug := range auth.AllPermissions {
		perm := &models.Permission{Name: titleFromSlug(slug), Slug: slug}
		if err := roleRepo.UpsertPermission(ctx, perm); err != nil {
			return err
		}
	}

	for _, slug := range auth.AllRoles {
		role := &models.Role{Name: titleFromSlug(slug), Slug: slug}
		if err := roleRepo.Upsert(ctx, role); err != nil {
			return err
		}
		if err := roleRepo.GrantPermissions(ctx, slug, auth.DefaultRolePermissions[slug]); err != nil {
			return err
		}
	}
	return nil
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Seed.AdminEmail
	adminPassword := cfg.Seed.AdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("Admin email or password is not configured. Skipping admin seeding.")
		return nil
	}

	var existing models.User
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("checking for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	var adminRole models.Role
	if err := db.First(&adminRole, "slug = ?", auth.RoleAdmin).Error; err != nil {
		return fmt.Errorf("loading admin role: %w", err)
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: hash,
		Roles:        []models.Role{adminRole},
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	return nil
}

// seedTranslations loads {locale}.json files from langDir, flattens their
// nested objects into dotted keys, and upserts the rows.
func seedTranslations(ctx context.Context, repo repositories.TranslationRepository, langDir string) error {
	if langDir == "" {
		return nil
	}

	for _, locale := range services.SupportedLocales {
		path := filepath.Join(langDir, locale.Code+".json")
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn("Translation file missing, skipping locale", "locale", locale.Code, "path", path)
				continue
			}
			return err
		}

		var nested map[string]interface{}
		if err := json.Unmarshal(raw, &nested); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		flat := make(map[string]string)
		flattenMessages("", nested, flat)

		rows := make([]models.Translation, 0, len(flat))
		for key, value := range flat {
			rows = append(rows, models.Translation{Locale: locale.Code, Key: key, Value: value})
		}
		if err := repo.UpsertMany(ctx, rows); err != nil {
			return err
		}
		logger.Info("Translations seeded", "locale", locale.Code, "keys", len(rows))
	}
	return nil
}

func flattenMessages(prefix string, src map[string]interface{}, out map[string]string) {
	for key, value := range src {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]interface{}:
			flattenMessages(full, v, out)
		case string:
			out[full] = v
		default:
			out[full] = fmt.Sprintf("%v", v)
		}
	}
}

func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
