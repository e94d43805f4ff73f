package repositories

import (
	"context"
	"errors"

	"eventify_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRoleNotFound = errors.New("role not found")

type RoleRepository interface {
	FindAll(ctx context.Context) ([]models.Role, error)
	FindBySlug(ctx context.Context, slug string) (*models.Role, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Role, error)
	Upsert(ctx context.Context, role *models.Role) error
	UpsertPermission(ctx context.Context, perm *models.Permission) error
	GrantPermissions(ctx context.Context, roleSlug string, permSlugs []string) error
}

type RoleRepositoryImpl struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &RoleRepositoryImpl{db: db}
}

func (r *RoleRepositoryImpl) FindAll(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).Preload("Permissions").
		Order("slug ASC").
		Find(&roles).Error
	return roles, err
}

func (r *RoleRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Preload("Permissions").
		First(&role, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) FindBySlugs(ctx context.Context, slugs []string) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&roles).Error
	return roles, err
}

// Upsert creates the role if its slug is new, otherwise leaves the existing
// row untouched. Used by seeding, which must be re-runnable.
func (r *RoleRepositoryImpl) Upsert(ctx context.Context, role *models.Role) error {
	var existing models.Role
	err := r.db.WithContext(ctx).First(&existing, "slug = ?", role.Slug).Error
	if err == nil {
		role.ID = existing.ID
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *RoleRepositoryImpl) UpsertPermission(ctx context.Context, perm *models.Permission) error {
	var existing models.Permission
	err := r.db.WithContext(ctx).First(&existing, "slug = ?", perm.Slug).Error
	if err == nil {
		perm.ID = existing.ID
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(perm).Error
}

// GrantPermissions attaches the named permissions to the role, replacing any
// previous grant.
func (r *RoleRepositoryImpl) GrantPermissions(ctx context.Context, roleSlug string, permSlugs []string) error {
	role, err := r.FindBySlug(ctx, roleSlug)
	if err != nil {
		return err
	}

	var perms []models.Permission
	if err := r.db.WithContext(ctx).Where("slug IN ?", permSlugs).Find(&perms).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(role).Association("Permissions").Replace(perms)
}
