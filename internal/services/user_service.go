package services

import (
	"context"
	"errors"

	"eventify_backend/internal/models"
	"eventify_backend/internal/repositories"
	"eventify_backend/pkg/apperrors"
)

type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
	SetRoles(ctx context.Context, userID string, slugs []string) (*models.User, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
}

func NewUserService(userRepo repositories.UserRepository, roleRepo repositories.RoleRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo, roleRepo: roleRepo}
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return users, nil
}

func (s *UserServiceImpl) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return roles, nil
}

// SetRoles replaces the user's roles with the given slugs. Repeated slugs
// collapse to one; unknown slugs reject the whole request.
func (s *UserServiceImpl) SetRoles(ctx context.Context, userID string, slugs []string) (*models.User, error) {
	slugs = uniqueSlugs(slugs)
	roles, err := s.roleRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(roles) != len(slugs) {
		known := make(map[string]bool, len(roles))
		for _, r := range roles {
			known[r.Slug] = true
		}
		var unknown []string
		for _, slug := range slugs {
			if !known[slug] {
				unknown = append(unknown, slug)
			}
		}
		return nil, apperrors.NewUnprocessableError("users", "unknown role slugs", map[string]interface{}{
			"unknown_roles": unknown,
		})
	}

	if err := s.userRepo.SetRoles(ctx, userID, roles); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("users", "user not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return s.userRepo.FindByID(ctx, userID)
}

func uniqueSlugs(slugs []string) []string {
	seen := make(map[string]bool, len(slugs))
	out := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, slug)
	}
	return out
}
