package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/Abhishekabysm/task-manager-app/apperrors"
	"github.com/Abhishekabysm/task-manager-app/logging"
	"github.com/Abhishekabysm/task-manager-app/models"
	"github.com/Abhishekabysm/task-manager-app/repositories"
	"github.com/Abhishekabysm/task-manager-app/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

type AuthService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Country  string
}

func validateRegister(in RegisterInput) error {
	if len(in.Name) < 3 {
		return fmt.Errorf("%w: name must be at least 3 characters", apperrors.ErrValidation)
	}
	if !emailRegex.MatchString(in.Email) {
		return fmt.Errorf("%w: invalid email address", apperrors.ErrValidation)
	}
	if len(in.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}
	if in.Country == "" {
		return fmt.Errorf("%w: country is required", apperrors.ErrValidation)
	}
	return nil
}

// Register creates a new user account and returns it with a session
// token. The password is stored only as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if err := validateRegister(in); err != nil {
		return nil, "", err
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", fmt.Errorf("%w: %s", apperrors.ErrEmailTaken, in.Email)
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  hashed,
		Country:   in.Country,
		CreatedAt: time.Now(),
	}

	id, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.ID = id

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: New user registered: %s", user.Email)
	return user, token, nil
}

// Login authenticates by email and password and returns a session
// token. Both a missing account and a wrong password map to the same
// generic credential error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil || !utils.CheckPassword(user.Password, password) {
		return "", apperrors.ErrInvalidCredentials
	}

	return utils.GenerateToken(user.ID)
}

// CurrentUser resolves the authenticated principal to its user record.
func (s *AuthService) CurrentUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID.Hex())
	}
	return user, nil
}
