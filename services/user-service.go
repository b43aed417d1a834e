package services

import (
	"context"

	"github.com/Abhishekabysm/task-manager-app/models"
	"github.com/Abhishekabysm/task-manager-app/repositories"
)

type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// ListUsers returns every user as a display-safe projection (for the
// assignment picker), sorted by name.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	return s.users.ListSummaries(ctx)
}
